package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/teamcutter/pybox/internal/domain"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List provisioned project environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			defer svc.state.Close()

			envs, err := svc.state.List()
			if err != nil {
				return err
			}

			// Drop ledger rows whose venv was removed behind our back.
			var live []*domain.Environment
			for _, env := range envs {
				if _, err := os.Stat(env.VenvPath); err != nil {
					fmt.Printf("%s %s removed externally\n", dim("○"), env.VenvPath)
					_ = svc.state.Remove(env.VenvPath)
					continue
				}
				live = append(live, env)
			}

			if len(live) == 0 {
				fmt.Printf("\n%s No environments provisioned\n", dim("○"))
				return nil
			}

			sort.Slice(live, func(i, j int) bool {
				return live[i].CreatedAt.Before(live[j].CreatedAt)
			})

			fmt.Printf("Provisioned environments:\n\n")
			for _, env := range live {
				fmt.Printf(" %s  %s %s\n",
					bold(fmt.Sprintf("Python %s", env.Python)),
					env.Project,
					dim(fmt.Sprintf("(%s)", env.Source)))
			}
			return nil
		},
	}
}
