package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phpswitch/phpswitch/src/internal/homebrew"
	"github.com/phpswitch/phpswitch/src/internal/runtime"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

var useYesFlag bool

var useCmd = &cobra.Command{
	Use:     "use <version>",
	Aliases: []string{"switch"},
	Short:   "Link a different PHP version",
	Long: `Unlink every detected PHP version and link the requested one, then verify that
the linked php binary reports the requested version.

If the version is supported but not installed, phpswitch offers to install it first.

Examples:
  phpswitch use 8.2
  phpswitch use php@7.4
  phpswitch use 8.3 --yes    # Install without asking if needed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		version := normalizeVersion(args[0])
		major := a.registry.ValetMajor()
		if !runtime.IsSupported(major, version) {
			return &runtime.UnsupportedVersionError{Version: version, ValetMajor: major}
		}

		if _, err := a.registry.Detect(ctx); err != nil {
			return err
		}

		return a.withLock(func() error {
			if _, ok := a.registry.Installation(version); !ok {
				if !useYesFlag && !ui.PromptInstall(version) {
					return fmt.Errorf("PHP %s is not installed", version)
				}
				if err := runInstall(ctx, a, homebrew.VersionedFormula(version)); err != nil {
					return err
				}
			}

			return ui.WithSpinner(fmt.Sprintf("Switching to PHP %s", version), func() error {
				return a.switcher.SwitchTo(ctx, version)
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
	useCmd.Flags().BoolVarP(&useYesFlag, "yes", "y", false, "Install the version without asking if it is missing")
}
