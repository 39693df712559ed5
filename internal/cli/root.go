package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/teamcutter/pybox/internal/config"
	"github.com/teamcutter/pybox/internal/domain"
	"github.com/teamcutter/pybox/internal/extractor"
	"github.com/teamcutter/pybox/internal/fetcher"
	"github.com/teamcutter/pybox/internal/installer"
	"github.com/teamcutter/pybox/internal/probe"
	"github.com/teamcutter/pybox/internal/provisioner"
	"github.com/teamcutter/pybox/internal/registry"
	"github.com/teamcutter/pybox/internal/runner"
	"github.com/teamcutter/pybox/internal/state"
	"github.com/teamcutter/pybox/internal/venv"
)

func Execute() error {
	rootCmd := &cobra.Command{Use: "pybox"}
	rootCmd.AddCommand(
		newEnvCmd(),
		newInstallsCmd(),
		newListCmd(),
		newClearCmd(),
		newVersionCmd(),
	)
	return rootCmd.Execute()
}

type services struct {
	cfg      *config.Config
	installs *registry.LocalInstalls
	prov     *provisioner.Provisioner
	builder  *venv.Builder
	state    *state.SQLiteState
}

func newServices() (*services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	platform := domain.CurrentPlatform()
	run := runner.New()
	prober := probe.New(run)
	installs := registry.New(cfg.InstallsDir, platform, prober)

	inst := installer.New(
		fetcher.New(1*time.Hour),
		extractor.New(),
		cfg.InstallsDir,
		platform,
		cfg.ReleaseBaseURL,
		cfg.Checksums,
	)

	st, err := state.NewSQLite(cfg.StateFile, cfg.ManifestFile)
	if err != nil {
		return nil, err
	}

	return &services{
		cfg:      cfg,
		installs: installs,
		prov:     provisioner.New(installs, prober, inst, platform),
		builder:  venv.New(run, platform, cfg.BootstrapPackage, time.Duration(cfg.VenvWaitSecs)*time.Second),
		state:    st,
	}, nil
}
