package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phpswitch/phpswitch/src/internal/helper"
	"github.com/phpswitch/phpswitch/src/internal/path"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

var (
	helpersAddToPathFlag bool
	helpersPruneFlag     bool
	envPathFlag          string
)

var helpersCmd = &cobra.Command{
	Use:   "helpers",
	Short: "Regenerate the pmXY helper scripts",
	Long: `Write one helper script per installed PHP version (pm74, pm82, ...).
Sourcing a helper puts that version first on PATH for the current shell only.

Examples:
  phpswitch helpers
  phpswitch helpers --prune          # Remove helpers of uninstalled versions
  phpswitch helpers --add-to-path    # Add the helper directory to your shell config`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		versions, err := a.registry.Detect(ctx)
		if err != nil {
			return err
		}

		// Detection only writes helpers when enabled in settings; this command always does
		if err := a.helpers.GenerateAll(a.registry.Installations()); err != nil {
			return err
		}
		for _, v := range versions {
			ui.Success("%s → PHP %s", helper.ScriptName(v), v)
		}

		if helpersPruneFlag {
			removed, err := a.helpers.Prune(versions)
			if err != nil {
				return err
			}
			for _, name := range removed {
				ui.Info("Removed %s", name)
			}
		}

		if helpersAddToPathFlag {
			return path.AddToPath(a.helpers.Dir())
		}
		if !path.IsInPath(a.helpers.Dir()) {
			ui.Info("Helpers live in %s; add it to PATH with: phpswitch helpers --add-to-path", a.helpers.Dir())
		}
		return nil
	},
}

var envCmd = &cobra.Command{
	Use:   "env <version>",
	Short: "Print the PATH export for a PHP version",
	Long: `Print a PATH export that puts one installed PHP version first, for use with eval.

Examples:
  eval "$(phpswitch env 8.2)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		if _, err := a.registry.Detect(ctx); err != nil {
			return err
		}

		version := normalizeVersion(args[0])
		inst, ok := a.registry.Installation(version)
		if !ok {
			return fmt.Errorf("PHP %s is not installed", version)
		}

		current := envPathFlag
		if current == "" {
			current = os.Getenv("PATH")
		}
		fmt.Println(envExport(inst.Path, current))
		return nil
	},
}

// envExport renders the export line for an installation directory
func envExport(installPath, currentPath string) string {
	return fmt.Sprintf("export PATH=%q", path.Prepend(currentPath, installPath+"/bin", installPath+"/sbin"))
}

func init() {
	rootCmd.AddCommand(helpersCmd)
	rootCmd.AddCommand(envCmd)
	helpersCmd.Flags().BoolVar(&helpersAddToPathFlag, "add-to-path", false, "Add the helper directory to your shell config")
	helpersCmd.Flags().BoolVar(&helpersPruneFlag, "prune", false, "Remove helpers for versions that are no longer installed")
	envCmd.Flags().StringVar(&envPathFlag, "path", "", "PATH value to prepend to (defaults to $PATH)")
}
