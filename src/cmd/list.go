package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phpswitch/phpswitch/src/internal/runtime"
	"github.com/phpswitch/phpswitch/src/internal/tui"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed PHP versions",
	Long: `List the PHP versions Homebrew has installed that your Valet release supports.
The linked version is highlighted.

Examples:
  phpswitch list
  phpswitch ls`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		versions, err := a.registry.Detect(ctx)
		if err != nil {
			return fmt.Errorf("failed to detect PHP versions: %w", err)
		}

		if len(versions) == 0 {
			ui.Info("No supported PHP versions installed")
			ui.Info("Install one with: phpswitch install %s", latestSupported(a.registry.ValetMajor()))
		} else {
			fmt.Println(renderInstallations(a.registry.Installations(), activeShort(ctx, a)))
		}

		for _, v := range a.registry.Unsupported() {
			ui.Warning("PHP %s is installed but not supported by Valet %d", v, a.registry.ValetMajor())
		}
		return nil
	},
}

// activeShort returns the linked major.minor version, or "" when nothing is linked
func activeShort(ctx context.Context, a *app) string {
	active, err := a.switcher.Snapshot(ctx)
	if err != nil {
		if !errors.Is(err, runtime.ErrNoActiveInstallation) {
			ui.Debug("Could not read the linked PHP: %v", err)
		}
		return ""
	}
	return active.Short
}

func latestSupported(valetMajor int) string {
	supported := runtime.SupportedVersions(valetMajor)
	if len(supported) == 0 {
		return "8.3"
	}
	return supported[len(supported)-1]
}

// renderInstallations builds the table printed by list
func renderInstallations(installations []runtime.Installation, active string) string {
	table := tui.NewTable("Version", "Formula", "Path", "")
	table.SetTitle("Installed PHP versions")

	for _, inst := range installations {
		status := tui.StatusNone
		switch {
		case !inst.Valid:
			status = tui.StatusMissingBinary
		case !inst.Executable:
			status = tui.StatusNotExecutable
		case inst.Version == active:
			status = tui.StatusLinked
		}

		formula := inst.Formula
		if inst.IsAlias {
			formula += " (alias)"
		}

		cells := []string{inst.Version, formula, inst.Path, tui.RenderStatus(status)}
		switch status {
		case tui.StatusLinked:
			table.AddActiveRow(cells...)
		case tui.StatusMissingBinary, tui.StatusNotExecutable:
			table.AddDimmedRow(cells...)
		default:
			table.AddRow(cells...)
		}
	}

	return table.Render()
}

func init() {
	rootCmd.AddCommand(listCmd)
}
