package domain

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Version is a Python version. Matching against the hosted catalog and
// against probed interpreters uses only (Major, Minor); Patch is whatever
// the interpreter actually reported.
type Version struct {
	Major int
	Minor int
	Patch int
}

func NewVersion(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// ParseVersion accepts "3", "3.7" and "3.7.4". Missing parts default to zero.
func ParseVersion(s string) (Version, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 3)
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q", s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// MajorMinor is the folder name used for project environments, e.g. "3.7".
func (v Version) MajorMinor() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// MatchesMinor reports whether both versions share major and minor.
func (v Version) MatchesMinor(other Version) bool {
	return v.Major == other.Major && v.Minor == other.Minor
}

func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return v.Major - other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor - other.Minor
	}
	return v.Patch - other.Patch
}

// Platform selects artifact naming and executable naming for the host OS.
type Platform int

const (
	Linux Platform = iota
	Mac
	Windows
)

func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return Windows
	case "darwin":
		return Mac
	default:
		return Linux
	}
}

// Tag is the OS segment of hosted artifact names. The linux builds were
// produced on Ubuntu, hence the tag.
func (p Platform) Tag() string {
	switch p {
	case Windows:
		return "windows"
	case Mac:
		return "mac"
	default:
		return "ubuntu"
	}
}

// InterpreterName is the executable name inside a managed install's bin dir.
func (p Platform) InterpreterName() string {
	if p == Windows {
		return "python"
	}
	return "python3"
}

// VenvBinDir is the directory holding executables inside a venv.
func (p Platform) VenvBinDir() string {
	if p == Windows {
		return "Scripts"
	}
	return "bin"
}

func (p Platform) VenvPython() string {
	if p == Windows {
		return "python.exe"
	}
	return "python"
}

func (p Platform) VenvPip() string {
	if p == Windows {
		return "pip.exe"
	}
	return "pip"
}

// Source records where a resolved interpreter came from.
type Source string

const (
	SourceInstalled  Source = "installed"
	SourceAlias      Source = "alias"
	SourceDownloaded Source = "downloaded"
)

// InterpreterHandle is a resolved interpreter. Exactly one of Alias or Path
// is set: Alias is a bare command name resolved through the search path,
// Path is an absolute location of the executable. Version is what the
// interpreter reported when probed (or, for downloads, the hosted build's
// own version).
type InterpreterHandle struct {
	Alias   string
	Path    string
	Version Version
	Source  Source
}

func (h InterpreterHandle) IsAlias() bool {
	return h.Alias != ""
}

// Command is the argv[0] to invoke this interpreter with.
func (h InterpreterHandle) Command() string {
	if h.Alias != "" {
		return h.Alias
	}
	return h.Path
}

// Environment is one provisioned project environment, as recorded in the
// ledger.
type Environment struct {
	Project     string    `json:"project"`
	Python      string    `json:"python"`
	Source      string    `json:"source"`
	Interpreter string    `json:"interpreter"`
	VenvPath    string    `json:"venv_path"`
	CreatedAt   time.Time `json:"created_at"`
}

type Ledger struct {
	Environments map[string]*Environment `json:"environments"`
}

func NewLedger() *Ledger {
	return &Ledger{Environments: make(map[string]*Environment)}
}
