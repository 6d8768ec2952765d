package pkg

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	Index     int
	Coverage  float64
	Rationale string
	Failures  map[string]string
	Files     []string
}

func TestFileSpill(t *testing.T) {
	t.Run("NewFileSpill creates file inside dir", func(t *testing.T) {
		dir := t.TempDir()

		spill, err := NewFileSpill[int](dir)
		require.NoError(t, err)
		defer spill.Close()

		require.Equal(t, dir, filepath.Dir(spill.Path()))
	})

	t.Run("Append and Get", func(t *testing.T) {
		spill, err := NewFileSpill[string](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		require.NoError(t, spill.Append("first"))
		require.NoError(t, spill.Append("second"))

		val, err := spill.Get(0)
		require.NoError(t, err)
		require.Equal(t, "first", val)

		val, err = spill.Get(1)
		require.NoError(t, err)
		require.Equal(t, "second", val)

		val, err = spill.Get(3)
		require.Error(t, err)
		require.Equal(t, "", val)
	})

	t.Run("AppendBatch and Len", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		require.Equal(t, uint64(0), spill.Len())
		require.NoError(t, spill.AppendBatch([]int{10, 20, 30}))
		require.Equal(t, uint64(3), spill.Len())

		val, err := spill.Get(2)
		require.NoError(t, err)
		require.Equal(t, 30, val)
	})

	t.Run("Range iterates all items in order", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		expected := []int{100, 200, 300}
		require.NoError(t, spill.AppendBatch(expected))

		var collected []int
		err = spill.Range(func(_ uint64, item int) error {
			collected = append(collected, item)
			return nil
		})

		require.NoError(t, err)
		require.Equal(t, expected, collected)
	})

	t.Run("Range callback error stops iteration", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		require.NoError(t, spill.AppendBatch([]int{1, 2, 3}))

		count := 0
		rangeErr := spill.Range(func(index uint64, _ int) error {
			count++
			if index == 1 {
				return errors.New("stop at index 1")
			}
			return nil
		})

		require.Error(t, rangeErr)
		require.Equal(t, 2, count)
	})

	t.Run("Close keeps data readable and rejects appends", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)

		require.NoError(t, spill.Append(1))
		require.NoError(t, spill.Close())
		require.NoError(t, spill.Close())

		val, err := spill.Get(0)
		require.NoError(t, err)
		require.Equal(t, 1, val)

		require.Error(t, spill.Append(2))
	})
}

func TestCreateAndReadFileSpill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "journal.gob")

	spill, err := CreateFileSpill[record](path)
	require.NoError(t, err)

	first := record{Index: 1, Coverage: 42.5, Rationale: "coverage 42.50%", Files: []string{"calc_test.go"}}
	second := record{Index: 2, Coverage: 80, Failures: map[string]string{"io.go": "empty output"}}

	require.NoError(t, spill.Append(first))
	require.NoError(t, spill.Append(second))
	require.NoError(t, spill.Close())

	items, err := ReadFileSpill[record](path)
	require.NoError(t, err)
	require.Equal(t, []record{first, second}, items)
}

func TestReadFileSpill_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFileSpill[int](filepath.Join(t.TempDir(), "missing.gob"))
		require.Error(t, err)
	})

	t.Run("empty file yields no items", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.gob")

		spill, err := CreateFileSpill[int](path)
		require.NoError(t, err)
		require.NoError(t, spill.Close())

		items, err := ReadFileSpill[int](path)
		require.NoError(t, err)
		require.Empty(t, items)
	})
}

func BenchmarkAppend(b *testing.B) {
	spill, err := NewFileSpill[record](b.TempDir())
	if err != nil {
		b.Fatalf("failed to create filespill: %v", err)
	}
	defer spill.Close()

	item := record{Index: 1, Coverage: 50, Rationale: "coverage 50.00%, below threshold 80%"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = spill.Append(item)
	}
}
