package domain

import "errors"

var (
	// ErrUnsupportedMajor: the requested major is not 3.
	ErrUnsupportedMajor = errors.New("unsupported python version requested; only Python 3 is supported")
	// ErrUnsupportedMinor: the requested minor has no hosted build.
	ErrUnsupportedMinor = errors.New("unsupported python version requested; only Python >=3.4 is supported")
	// ErrNoSelection: the interactive alias selection could not be read or
	// did not map to a listed alias.
	ErrNoSelection = errors.New("no valid alias selection")
	// ErrVenvTimeout: the venv command exited cleanly but its executables
	// never appeared. Distinct from a command failure so operators can tell
	// the two apart.
	ErrVenvTimeout = errors.New("timed out waiting for virtual environment executables")
)
