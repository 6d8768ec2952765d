package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	m "autotest.dev/pkg/autotest/internal/model"
)

// ErrRunnerKilled reports that the go test process was killed or timed out.
var ErrRunnerKilled = errors.New("test process killed")

// ErrToolchainUnavailable reports that the go (or docker) binary could not be started.
var ErrToolchainUnavailable = errors.New("toolchain unavailable")

// sandboxEnv pins the toolchain and forbids network module fetches.
var sandboxEnv = []string{
	"GOTOOLCHAIN=local",
	"GOPROXY=off",
	"GOWORK=off",
	"GOFLAGS=-mod=mod",
	"CGO_ENABLED=0",
}

// RunOutput is the raw outcome of one go test invocation.
type RunOutput struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// TestRunnerAdapter abstracts `go test` execution inside a staged workspace.
// A non-zero exit code is not an error; errors are reserved for runs that
// did not complete (killed, timed out, toolchain missing).
type TestRunnerAdapter interface {
	RunGoTest(ctx context.Context, workDir m.Path, args []string) (RunOutput, error)
}

// LocalTestRunnerAdapter runs go test with the host toolchain via os/exec.
type LocalTestRunnerAdapter struct {
	goBinary string
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter using `go` from PATH.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{goBinary: "go"}
}

// RunGoTest runs `go test <args>` in workDir until it exits or ctx is done.
func (a *LocalTestRunnerAdapter) RunGoTest(ctx context.Context, workDir m.Path, args []string) (RunOutput, error) {
	cmd := exec.CommandContext(ctx, a.goBinary, append([]string{"test"}, args...)...)
	cmd.Dir = string(workDir)
	cmd.Env = append(os.Environ(), sandboxEnv...)
	cmd.WaitDelay = 5 * time.Second

	return runCommand(ctx, cmd)
}

// DockerTestRunnerAdapter runs go test inside a throwaway container with no network.
type DockerTestRunnerAdapter struct {
	image  string
	memory string
	cpus   string
}

// NewDockerTestRunnerAdapter constructs a DockerTestRunnerAdapter for the given image.
func NewDockerTestRunnerAdapter(image string) *DockerTestRunnerAdapter {
	return &DockerTestRunnerAdapter{
		image:  image,
		memory: "512m",
		cpus:   "1",
	}
}

// RunGoTest mounts workDir into the container and runs `go test <args>` there.
func (a *DockerTestRunnerAdapter) RunGoTest(ctx context.Context, workDir m.Path, args []string) (RunOutput, error) {
	cmd := exec.CommandContext(ctx, "docker", a.dockerArgs(workDir, args)...)
	cmd.WaitDelay = 5 * time.Second

	return runCommand(ctx, cmd)
}

func (a *DockerTestRunnerAdapter) dockerArgs(workDir m.Path, args []string) []string {
	dockerArgs := []string{
		"run", "--rm",
		"--network", "none",
		"--memory", a.memory,
		"--cpus", a.cpus,
		"-v", string(workDir) + ":/work",
		"-w", "/work",
	}

	for _, env := range sandboxEnv {
		dockerArgs = append(dockerArgs, "-e", env)
	}

	dockerArgs = append(dockerArgs, a.image, "go", "test")

	return append(dockerArgs, args...)
}

func runCommand(ctx context.Context, cmd *exec.Cmd) (RunOutput, error) {
	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	out := RunOutput{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		slog.Warn("go test interrupted", "dir", cmd.Dir, "elapsed", out.Duration, "error", ctxErr)
		return out, fmt.Errorf("%w: %w", ErrRunnerKilled, ctxErr)
	}

	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		if out.ExitCode < 0 {
			slog.Warn("go test terminated by signal", "dir", cmd.Dir, "state", exitErr.String())
			return out, fmt.Errorf("%w: %s", ErrRunnerKilled, exitErr.String())
		}

		return out, nil
	}

	slog.Error("Failed to start go test", "command", strings.Join(cmd.Args, " "), "error", err)

	return out, fmt.Errorf("%w: %w", ErrToolchainUnavailable, err)
}
