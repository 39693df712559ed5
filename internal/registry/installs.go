// Package registry enumerates the interpreters this tool has previously
// downloaded into the installs directory.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/teamcutter/pybox/internal/domain"
	"github.com/teamcutter/pybox/internal/probe"
)

// Install is one managed interpreter build on disk.
type Install struct {
	Dir         string
	Interpreter string
	Version     domain.Version
}

type LocalInstalls struct {
	dir      string
	platform domain.Platform
	prober   *probe.Prober
}

func New(dir string, platform domain.Platform, prober *probe.Prober) *LocalInstalls {
	return &LocalInstalls{dir: dir, platform: platform, prober: prober}
}

func (r *LocalInstalls) Dir() string {
	return r.dir
}

// Scan probes every directory entry under the installs directory for the
// expected interpreter at <entry>/bin/<name>. Entries that are not
// directories or whose probe fails are skipped. The installs directory is
// created on first use; failing to create it is fatal.
func (r *LocalInstalls) Scan(ctx context.Context) ([]Install, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating installs directory %s: %w", r.dir, err)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("reading installs directory %s: %w", r.dir, err)
	}

	var installs []Install
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(r.dir, e.Name())
		exe := filepath.Join(dir, "bin", r.platform.InterpreterName())
		v, ok := r.prober.Probe(ctx, exe)
		if !ok {
			continue
		}
		installs = append(installs, Install{Dir: dir, Interpreter: exe, Version: v})
	}
	return installs, nil
}

// ScanParallel is Scan with the probes fanned out. The provisioning chain
// uses the sequential Scan to keep its ordering deterministic; listing
// commands use this one.
func (r *LocalInstalls) ScanParallel(ctx context.Context, limit int) ([]Install, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating installs directory %s: %w", r.dir, err)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("reading installs directory %s: %w", r.dir, err)
	}

	results := make([]*Install, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, e := range entries {
		if !e.IsDir() {
			continue
		}
		g.Go(func() error {
			dir := filepath.Join(r.dir, e.Name())
			exe := filepath.Join(dir, "bin", r.platform.InterpreterName())
			if v, ok := r.prober.Probe(gctx, exe); ok {
				results[i] = &Install{Dir: dir, Interpreter: exe, Version: v}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var installs []Install
	for _, res := range results {
		if res != nil {
			installs = append(installs, *res)
		}
	}
	return installs, nil
}
