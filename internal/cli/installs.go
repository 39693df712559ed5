package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/teamcutter/pybox/internal/registry"
)

// sortByVersion orders builds oldest to newest so the listing is stable
// regardless of directory read order.
func sortByVersion(installs []registry.Install) {
	sort.Slice(installs, func(a, b int) bool {
		return installs[a].Version.Compare(installs[b].Version) < 0
	})
}

func newInstallsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "installs",
		Short: "List Python builds managed by pybox",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			defer svc.state.Close()

			stop := withSpinner(cmd.Context(), "Probing installed interpreters...")
			installs, err := svc.installs.ScanParallel(cmd.Context(), 4)
			stop()
			if err != nil {
				return err
			}

			if len(installs) == 0 {
				fmt.Printf("\n%s No managed Python builds in %s\n", dim("○"), svc.cfg.InstallsDir)
				return nil
			}

			sortByVersion(installs)

			fmt.Printf("Managed Python builds:\n\n")
			for _, inst := range installs {
				fmt.Printf(" %s  %s\n", bold(fmt.Sprintf("Python %s", inst.Version)), dim(inst.Dir))
			}
			return nil
		},
	}
}
