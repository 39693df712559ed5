// Package provisioner resolves a requested Python version to a concrete
// interpreter through a strict fallback chain: a build this tool previously
// installed, then a matching alias on the search path, then a fresh
// download. Exactly one source wins; results are never merged.
package provisioner

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/teamcutter/pybox/internal/catalog"
	"github.com/teamcutter/pybox/internal/domain"
	"github.com/teamcutter/pybox/internal/probe"
	"github.com/teamcutter/pybox/internal/registry"
)

type InstallScanner interface {
	Scan(ctx context.Context) ([]registry.Install, error)
}

type AliasFinder interface {
	FindAliases(ctx context.Context, requested domain.Version) []probe.AliasMatch
}

type BuildInstaller interface {
	Install(ctx context.Context, build catalog.HostedBuild) (string, error)
}

type Provisioner struct {
	installs  InstallScanner
	aliases   AliasFinder
	installer BuildInstaller
	platform  domain.Platform
	promptIn  io.Reader
	promptOut io.Writer
}

func New(
	installs InstallScanner,
	aliases AliasFinder,
	installer BuildInstaller,
	platform domain.Platform,
) *Provisioner {

	return &Provisioner{
		installs:  installs,
		aliases:   aliases,
		installer: installer,
		platform:  platform,
		promptIn:  os.Stdin,
		promptOut: os.Stdout,
	}
}

// SetPrompt overrides where the alias disambiguation prompt reads and
// writes. Tests use this; the default is the process terminal.
func (p *Provisioner) SetPrompt(in io.Reader, out io.Writer) {
	p.promptIn = in
	p.promptOut = out
}

// Provision resolves requested to a single interpreter handle.
//
// The request is validated against the hosted catalog before anything else:
// an unsatisfiable version is a configuration error and must not touch the
// filesystem or the network. Managed installs are preferred over system
// aliases because they are builds this tool controls end to end; aliases
// are preferred over downloading because they cost nothing. Downloading is
// the guaranteed fallback, and its confirmed version is the hosted build's
// own version, which may differ from the requested one in patch.
func (p *Provisioner) Provision(ctx context.Context, requested domain.Version) (domain.InterpreterHandle, error) {
	build, err := catalog.Match(requested)
	if err != nil {
		return domain.InterpreterHandle{}, err
	}

	installs, err := p.installs.Scan(ctx)
	if err != nil {
		return domain.InterpreterHandle{}, err
	}
	for _, inst := range installs {
		if inst.Version.MatchesMinor(requested) {
			return domain.InterpreterHandle{
				Path:    inst.Interpreter,
				Version: inst.Version,
				Source:  domain.SourceInstalled,
			}, nil
		}
	}

	matches := p.aliases.FindAliases(ctx, requested)
	switch len(matches) {
	case 0:
		// fall through to download
	case 1:
		return domain.InterpreterHandle{
			Alias:   matches[0].Alias,
			Version: matches[0].Version,
			Source:  domain.SourceAlias,
		}, nil
	default:
		selected, err := probe.SelectAlias(matches, p.promptIn, p.promptOut)
		if err != nil {
			return domain.InterpreterHandle{}, err
		}
		return domain.InterpreterHandle{
			Alias:   selected.Alias,
			Version: selected.Version,
			Source:  domain.SourceAlias,
		}, nil
	}

	installDir, err := p.installer.Install(ctx, build)
	if err != nil {
		return domain.InterpreterHandle{}, err
	}
	return domain.InterpreterHandle{
		Path:    filepath.Join(installDir, "bin", p.platform.InterpreterName()),
		Version: build.Version,
		Source:  domain.SourceDownloaded,
	}, nil
}
