package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// maxErrorOutput bounds how much ffmpeg stderr is carried in an error
const maxErrorOutput = 512

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command. On failure the tail of its stderr is included in the error.
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return withOutput(err, stderr.String())
	}
	return nil
}

// Output executes a command and returns its stdout
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, withOutput(err, stderr.String())
	}
	return out, nil
}

func withOutput(err error, output string) error {
	output = strings.TrimSpace(output)
	if output == "" {
		return err
	}
	if len(output) > maxErrorOutput {
		output = "..." + output[len(output)-maxErrorOutput:]
	}
	return fmt.Errorf("%w: %s", err, output)
}

// verifyInstalled checks that binary can be executed
func verifyInstalled(ctx context.Context, runner CommandRunner, binary string) error {
	if _, err := runner.Output(ctx, binary, "-version"); err != nil {
		return fmt.Errorf("%s not found or not executable: %w", binary, err)
	}
	return nil
}
