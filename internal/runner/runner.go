package runner

import (
	"context"
	"os/exec"
)

// ExecRunner runs commands through os/exec. It is the only place the tool
// spawns processes; everything above it sees the domain.Runner interface.
type ExecRunner struct{}

func New() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Run()
}
