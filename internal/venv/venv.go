// Package venv creates the per-project virtual environment and bootstraps
// it with the build dependency needed to compile wheels from source.
package venv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/teamcutter/pybox/internal/domain"
)

const venvName = ".venv"

type Builder struct {
	runner       domain.Runner
	platform     domain.Platform
	bootstrapPkg string
	waitTimeout  time.Duration
	pollEvery    time.Duration
}

func New(runner domain.Runner, platform domain.Platform, bootstrapPkg string, waitTimeout time.Duration) *Builder {
	return &Builder{
		runner:       runner,
		platform:     platform,
		bootstrapPkg: bootstrapPkg,
		waitTimeout:  waitTimeout,
		pollEvery:    300 * time.Millisecond,
	}
}

// Build creates <projectRoot>/<major>.<minor>/lib/.venv with the resolved
// interpreter and installs the bootstrap package into it. The folder name
// comes from the confirmed version carried by the handle, not from whatever
// the caller originally asked for.
//
// venv creation is eventually consistent: the command can exit before the
// environment's executables exist on disk, so Build polls for them with a
// bounded wait instead of assuming immediate availability.
func (b *Builder) Build(ctx context.Context, handle domain.InterpreterHandle, projectRoot string) (domain.Version, error) {
	versDir := filepath.Join(projectRoot, handle.Version.MajorMinor())
	libDir := filepath.Join(versDir, "lib")

	if err := os.MkdirAll(libDir, 0755); err != nil {
		return domain.Version{}, fmt.Errorf("creating package directory %s: %w", libDir, err)
	}

	if err := b.runner.Run(ctx, libDir, handle.Command(), "-m", "venv", venvName); err != nil {
		return domain.Version{}, fmt.Errorf("creating virtual environment: %w", err)
	}

	binDir := filepath.Join(libDir, venvName, b.platform.VenvBinDir())
	pythonPath := filepath.Join(binDir, b.platform.VenvPython())
	pipPath := filepath.Join(binDir, b.platform.VenvPip())

	if err := b.waitFor(ctx, pythonPath, pipPath); err != nil {
		return domain.Version{}, err
	}

	if err := b.runner.Run(ctx, "", pythonPath, "-m", "pip", "install", "--quiet", b.bootstrapPkg); err != nil {
		return domain.Version{}, fmt.Errorf("installing %s: %w", b.bootstrapPkg, err)
	}

	return handle.Version, nil
}

// waitFor blocks until every path exists or the wait budget runs out.
func (b *Builder) waitFor(ctx context.Context, paths ...string) error {
	deadline := time.Now().Add(b.waitTimeout)
	for {
		if allExist(paths) {
			return nil
		}
		if time.Now().After(deadline) {
			return domain.ErrVenvTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.pollEvery):
		}
	}
}

func allExist(paths []string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}
