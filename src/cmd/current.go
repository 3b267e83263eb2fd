package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phpswitch/phpswitch/src/internal/runtime"
	"github.com/phpswitch/phpswitch/src/internal/tui"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

var currentShowIni bool

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the linked PHP version",
	Long: `Show the PHP version the linked php binary reports.

Examples:
  phpswitch current
  phpswitch current --ini    # Also list the loaded ini files`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		active, err := a.switcher.Snapshot(cmd.Context())
		if err != nil {
			if errors.Is(err, runtime.ErrNoActiveInstallation) {
				ui.Warning("No PHP version is linked")
				ui.Info("Link one with: phpswitch use <version>")
				return nil
			}
			return err
		}

		fmt.Printf("%s %s %s\n", tui.RenderFormula("PHP"), ui.HighlightVersion(active.Long), tui.RenderMuted(active.Binary))

		if currentShowIni {
			if len(active.IniFiles) == 0 {
				ui.Info("No ini files loaded")
			}
			for _, ini := range active.IniFiles {
				fmt.Printf("  %s %s\n", tui.Bullet, ini)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(currentCmd)
	currentCmd.Flags().BoolVar(&currentShowIni, "ini", false, "List the loaded php.ini and additional ini files")
}
