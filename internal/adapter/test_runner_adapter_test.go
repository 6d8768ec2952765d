package adapter

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	m "autotest.dev/pkg/autotest/internal/model"
)

func requireGo(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
}

func writeModule(t *testing.T, testBody string) string {
	t.Helper()

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "go.mod"), "module example.local/calc\n\ngo 1.21\n")
	writeTestFile(t, filepath.Join(dir, "calc.go"), "package calc\n\nfunc Add(a, b int) int { return a + b }\n")
	writeTestFile(t, filepath.Join(dir, "calc_test.go"), "package calc\n\n"+testBody)

	return dir
}

func TestLocalTestRunnerAdapter_RunGoTest_Success(t *testing.T) {
	requireGo(t)

	dir := writeModule(t, "import \"testing\"\n\nfunc TestAdd(t *testing.T) {\n\tif Add(1, 2) != 3 {\n\t\tt.Fatal(\"bad\")\n\t}\n}\n")

	out, err := NewLocalTestRunnerAdapter().RunGoTest(context.Background(), m.Path(dir), []string{"-count=1", "./..."})
	if err != nil {
		t.Fatalf("RunGoTest() error = %v, stderr = %s", err, out.Stderr)
	}

	if out.ExitCode != 0 {
		t.Fatalf("RunGoTest() exit code = %d, output = %s%s", out.ExitCode, out.Stdout, out.Stderr)
	}

	if !strings.Contains(string(out.Stdout), "ok") {
		t.Fatalf("RunGoTest() output does not look like go test output: %q", out.Stdout)
	}
}

func TestLocalTestRunnerAdapter_RunGoTest_FailureIsNotAnError(t *testing.T) {
	requireGo(t)

	dir := writeModule(t, "import \"testing\"\n\nfunc TestAdd(t *testing.T) {\n\tt.Fatal(\"always\")\n}\n")

	out, err := NewLocalTestRunnerAdapter().RunGoTest(context.Background(), m.Path(dir), []string{"-count=1", "./..."})
	if err != nil {
		t.Fatalf("RunGoTest() error = %v", err)
	}

	if out.ExitCode == 0 {
		t.Fatalf("RunGoTest() expected non-zero exit code")
	}
}

func TestLocalTestRunnerAdapter_RunGoTest_Timeout(t *testing.T) {
	requireGo(t)

	dir := writeModule(t, "import (\n\t\"testing\"\n\t\"time\"\n)\n\nfunc TestSlow(t *testing.T) {\n\ttime.Sleep(time.Minute)\n}\n")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := NewLocalTestRunnerAdapter().RunGoTest(ctx, m.Path(dir), []string{"-count=1", "./..."})
	if !errors.Is(err, ErrRunnerKilled) {
		t.Fatalf("RunGoTest() error = %v, want ErrRunnerKilled", err)
	}
}

func TestLocalTestRunnerAdapter_RunGoTest_MissingBinary(t *testing.T) {
	adapter := &LocalTestRunnerAdapter{goBinary: "autotest-no-such-binary"}

	_, err := adapter.RunGoTest(context.Background(), m.Path(t.TempDir()), []string{"./..."})
	if !errors.Is(err, ErrToolchainUnavailable) {
		t.Fatalf("RunGoTest() error = %v, want ErrToolchainUnavailable", err)
	}
}

func TestDockerTestRunnerAdapter_Args(t *testing.T) {
	adapter := NewDockerTestRunnerAdapter("golang:1.25-alpine")

	args := strings.Join(adapter.dockerArgs("/tmp/ws", []string{"-json", "./..."}), " ")

	for _, want := range []string{
		"run --rm",
		"--network none",
		"--memory 512m",
		"--cpus 1",
		"-v /tmp/ws:/work",
		"-e GOPROXY=off",
		"golang:1.25-alpine go test -json ./...",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("docker args %q missing %q", args, want)
		}
	}
}
