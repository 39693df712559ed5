package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/teamcutter/pybox/internal/domain"
)

func newClearCmd() *cobra.Command {
	var installs bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached interpreter archives",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			defer svc.state.Close()

			freed, removed, err := clearInstallsDir(svc.cfg.InstallsDir, installs)
			if os.IsNotExist(err) {
				fmt.Printf("%s Nothing to clear\n", yellow("!"))
				return nil
			}
			if err != nil {
				return err
			}

			for _, dir := range removed {
				fmt.Printf("%s Removed %s\n", dim("○"), filepath.Base(dir))
			}

			// Builds are gone; drop the ledger rows that pointed into them.
			if len(removed) > 0 {
				if err := removeStaleEnvs(svc.state, removed); err != nil {
					return err
				}
			}

			fmt.Printf("%s Archives cleared (%s freed)\n", green("✓"), formatSize(freed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&installs, "installs", false, "Also remove managed Python builds")
	return cmd
}

// clearInstallsDir removes cached archives from dir, and the managed build
// folders too when removeInstalls is set. It reports the archive bytes freed
// and the install directories it removed.
func clearInstallsDir(dir string, removeInstalls bool) (freed int64, removed []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, nil, err
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())

		if !e.IsDir() && strings.HasSuffix(e.Name(), ".tar.xz") {
			if info, err := e.Info(); err == nil {
				freed += info.Size()
			}
			if err := os.Remove(path); err != nil {
				return freed, removed, fmt.Errorf("failed to clear archive %s: %w", e.Name(), err)
			}
			continue
		}

		if removeInstalls && e.IsDir() && strings.HasPrefix(e.Name(), "python-") {
			if err := os.RemoveAll(path); err != nil {
				return freed, removed, fmt.Errorf("failed to remove install %s: %w", e.Name(), err)
			}
			removed = append(removed, path)
		}
	}

	return freed, removed, nil
}

// removeStaleEnvs drops ledger rows whose interpreter lived under one of
// the removed install directories. Environments backed by a system alias
// are untouched.
func removeStaleEnvs(st domain.State, removedDirs []string) error {
	envs, err := st.List()
	if err != nil {
		return err
	}

	for _, env := range envs {
		for _, dir := range removedDirs {
			if strings.HasPrefix(env.Interpreter, dir+string(os.PathSeparator)) {
				if err := st.Remove(env.VenvPath); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

func formatSize(bytes int64) string {
	const (
		KB = 1 << 10
		MB = 1 << 20
		GB = 1 << 30
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
