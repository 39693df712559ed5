package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/teamcutter/pybox/internal/domain"
)

func newEnvCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "env <version>",
		Short: "Provision a Python interpreter and set up the project environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requested, err := domain.ParseVersion(args[0])
			if err != nil {
				return err
			}

			svc, err := newServices()
			if err != nil {
				return err
			}
			defer svc.state.Close()

			ctx := cmd.Context()

			handle, err := svc.prov.Provision(ctx, requested)
			if err != nil {
				return err
			}

			switch handle.Source {
			case domain.SourceInstalled:
				fmt.Printf("%s Using managed Python %s\n", dim("○"), bold(handle.Version))
			case domain.SourceAlias:
				fmt.Printf("%s Using system alias %s (Python %s)\n", dim("○"), bold(handle.Alias), bold(handle.Version))
			case domain.SourceDownloaded:
				fmt.Printf("%s Downloaded Python %s\n", dim("○"), bold(handle.Version))
			}

			projectRoot, err := filepath.Abs(project)
			if err != nil {
				return err
			}

			fmt.Println("Setting up Python environment...")
			confirmed, err := svc.builder.Build(ctx, handle, projectRoot)
			if err != nil {
				fmt.Printf("%s %v\n", red("✗"), err)
				return fmt.Errorf("failed to set up Python environment")
			}

			venvPath := filepath.Join(projectRoot, confirmed.MajorMinor(), "lib", ".venv")
			env := &domain.Environment{
				Project:     projectRoot,
				Python:      confirmed.String(),
				Source:      string(handle.Source),
				Interpreter: handle.Command(),
				VenvPath:    venvPath,
				CreatedAt:   time.Now(),
			}
			if err := svc.state.Add(env); err != nil {
				return err
			}

			fmt.Printf("%s Python %s ready\n  %s %s\n",
				green("✓"), bold(confirmed),
				cyan("venv:"), venvPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", ".", "Project package directory")
	return cmd
}
