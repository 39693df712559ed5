package probe

import (
	"context"
	"regexp"

	"github.com/teamcutter/pybox/internal/domain"
)

// versionRe matches the version report of every CPython since 2.x,
// e.g. "Python 3.7.4". Old interpreters print it to stderr, which is why
// probing reads combined output.
var versionRe = regexp.MustCompile(`Python (\d+)\.(\d+)(?:\.(\d+))?`)

// Prober asks an executable which Python version it is by invoking it with
// --version and parsing the report. One prober serves both PATH aliases and
// managed install directories.
type Prober struct {
	runner domain.Runner
}

func New(runner domain.Runner) *Prober {
	return &Prober{runner: runner}
}

// Probe invokes target --version. A non-zero exit, a missing executable or
// unparseable output all mean "not a Python we can use" and report ok=false;
// absence is never an error.
func (p *Prober) Probe(ctx context.Context, target string) (domain.Version, bool) {
	out, err := p.runner.Output(ctx, target, "--version")
	if err != nil {
		return domain.Version{}, false
	}
	return parseVersionOutput(out)
}

func parseVersionOutput(out string) (domain.Version, bool) {
	m := versionRe.FindStringSubmatch(out)
	if m == nil {
		return domain.Version{}, false
	}
	v, err := domain.ParseVersion(m[1] + "." + m[2] + "." + zeroIfEmpty(m[3]))
	if err != nil {
		return domain.Version{}, false
	}
	return v, true
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
