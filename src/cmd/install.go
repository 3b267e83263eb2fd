package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phpswitch/phpswitch/src/internal/constants"
	"github.com/phpswitch/phpswitch/src/internal/homebrew"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

var installTapFlag bool

var installCmd = &cobra.Command{
	Use:   "install <version|formula>",
	Short: "Install a PHP version through Homebrew",
	Long: `Install a PHP version with brew install, showing progress as Homebrew works.

Versions outside the range supported by your Valet release are rejected.
Older versions that Homebrew core dropped are available from the shivammathur/php tap.

Examples:
  phpswitch install 8.3
  phpswitch install php@8.2
  phpswitch install 7.4 --tap              # Uses shivammathur/php/php@7.4
  phpswitch install shivammathur/php/php@7.1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		formula := resolveFormula(args[0], installTapFlag)
		ui.Debug("Resolved %q to formula %s", args[0], formula)

		if _, err := a.registry.Detect(ctx); err != nil {
			return err
		}
		if version := homebrew.FormulaVersion(formula); version != "" {
			if _, ok := a.registry.Installation(version); ok {
				ui.Info("PHP %s is already installed", ui.HighlightVersion(version))
				return nil
			}
		}

		return a.withLock(func() error {
			return runInstall(ctx, a, formula)
		})
	},
}

// resolveFormula maps a version argument to a formula; formula arguments pass through
func resolveFormula(arg string, useTap bool) string {
	arg = strings.TrimSpace(arg)
	if homebrew.IsPhpFormula(arg) {
		return arg
	}

	formula := homebrew.VersionedFormula(normalizeVersion(arg))
	if useTap {
		return constants.PhpTap + "/" + formula
	}
	return formula
}

// runInstall drives an install operation and renders its progress
func runInstall(ctx context.Context, a *app, formula string) error {
	op := a.switcher.Install(ctx, formula)

	// Verbose runs log every brew line, which would tear a redrawn bar apart
	if ui.IsVerbose() {
		ui.Info("%s", op.Title())
		for p := range op.Events() {
			ui.Info("%3.0f%% %s", p.Value*100, p.Description)
		}
		if err := op.Wait(); err != nil {
			return err
		}
		ui.Success("Installed %s", formula)
		return nil
	}

	bar := ui.NewProgressBar(op.Title())
	for p := range op.Events() {
		bar.Update(p.Value, p.Description)
	}

	if err := op.Wait(); err != nil {
		bar.Abort()
		return err
	}
	bar.Finish()

	ui.Success("Installed %s", formula)
	return nil
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().BoolVar(&installTapFlag, "tap", false, "Install from the shivammathur/php tap")
}
