package cmd

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "autotest version\t "+buildVersion()+"\n")
	assert.Contains(t, output, "go version\t "+runtime.Version()+"\n")
	assert.Contains(t, output, "synth backend\t openai (gpt-4o)\n")
	assert.Contains(t, output, "sandbox\t local (go 1.21 module)\n")
}

func TestSandboxDescription_Docker(t *testing.T) {
	viper.Set(executorSandboxKey, sandboxDocker)
	t.Cleanup(func() { viper.Set(executorSandboxKey, defaultSandbox) })

	assert.Equal(t, "docker (golang:1.25-alpine)", sandboxDescription())
}
