package domain

import (
	"context"
)

// Runner executes external commands. Probing, venv creation and the pip
// bootstrap all go through it so the pipeline can be tested with scripted
// outputs.
type Runner interface {
	// Output runs name with args and returns its combined stdout+stderr.
	// Older Pythons print --version to stderr, so both streams matter.
	Output(ctx context.Context, name string, args ...string) (string, error)
	// Run runs name with args in dir, discarding output. A non-zero exit
	// is returned as an error.
	Run(ctx context.Context, dir, name string, args ...string) error
}

type FetchJob struct {
	URL    string
	Dest   string
	Label  string
	SHA256 string
}

type FetchResult struct {
	Path  string
	Error error
}

type Fetcher interface {
	Fetch(ctx context.Context, job FetchJob) FetchResult
}

type Extractor interface {
	Extract(src, dest string) error
}

// State is the ledger of provisioned environments.
type State interface {
	Add(env *Environment) error
	List() (map[string]*Environment, error)
	Remove(venvPath string) error
	Clear() error
	Close() error
}
