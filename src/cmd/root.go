// Package cmd implements the CLI commands for phpswitch
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phpswitch/phpswitch/src/internal/lock"
	"github.com/phpswitch/phpswitch/src/internal/runtime"
	"github.com/phpswitch/phpswitch/src/internal/shell"
	"github.com/phpswitch/phpswitch/src/internal/switcher"
	"github.com/phpswitch/phpswitch/src/internal/tui"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "phpswitch",
	Short:         "Switch between Homebrew PHP versions",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.CheckVerboseEnv()
		if verbose {
			ui.SetVerbose(true)
		}
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	// Check for --version or -v flag before Cobra parses
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			versionCmd.Run(versionCmd, []string{})
			return
		}
	}

	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		explainError(err)
		os.Exit(1)
	}
}

func init() {
	// Hide the completion command until we implement it
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output for debugging")

	// Set custom usage and help functions with TUI table for commands
	rootCmd.SetUsageFunc(customUsage)
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		_ = customUsage(cmd)
	})
}

func customUsage(cmd *cobra.Command) error {
	if cmd.HasParent() {
		return commandUsage(cmd)
	}

	const tableWidth = 95 // Consistent width for all tables

	headerTable := tui.NewTable("")
	headerTable.SetTitle(cmd.Short)
	headerTable.HideHeader()
	headerTable.SetMinWidth(tableWidth)
	headerTable.AddRow("phpswitch detects the PHP versions Homebrew has installed, links the one you pick,")
	headerTable.AddRow("and installs new versions supported by your Laravel Valet release.")

	fmt.Println(headerTable.Render())
	fmt.Println()

	table := tui.NewTable("Command", "Description")
	table.SetTitle("Available Commands")
	table.SetMinWidth(tableWidth)

	for _, c := range cmd.Commands() {
		// Skip hidden commands and completion
		if c.Hidden || c.Name() == "completion" || c.Name() == "help" {
			continue
		}
		table.AddRow(c.Name(), c.Short)
	}

	fmt.Println(table.Render())

	return nil
}

// commandUsage prints the help of a single subcommand
func commandUsage(cmd *cobra.Command) error {
	fmt.Println(tui.RenderTitle(cmd.UseLine()))
	if cmd.Long != "" {
		fmt.Println(cmd.Long)
	} else {
		fmt.Println(cmd.Short)
	}

	if cmd.HasAvailableLocalFlags() {
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Print(cmd.LocalFlags().FlagUsages())
	}
	return nil
}

// explainError adds a hint for errors the user can act on
func explainError(err error) {
	var (
		unsupported *runtime.UnsupportedVersionError
		timeout     *shell.TimeoutError
		mismatch    *switcher.ValidationError
	)

	switch {
	case errors.As(err, &unsupported):
		ui.Info("Run 'phpswitch supported' to see which versions Valet %d supports", unsupported.ValetMajor)
	case errors.As(err, &timeout):
		ui.Info("Raise the limit with: phpswitch config set install_timeout 15m")
	case errors.As(err, &mismatch):
		ui.Info("Another PHP may be shadowing Homebrew's; check 'which -a php'")
	case errors.Is(err, switcher.ErrNotInstalled):
		ui.Info("Run 'phpswitch list' to see installed versions")
	case errors.Is(err, lock.ErrBusy):
		ui.Info("Wait for the other phpswitch command to finish and try again")
	}
}
