package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phpswitch/phpswitch/src/internal/config"
	"github.com/phpswitch/phpswitch/src/internal/tui"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change phpswitch settings",
	Long: `Show or change phpswitch settings. Every setting can also be overridden
with a PHPSWITCH_<KEY> environment variable.

Examples:
  phpswitch config show
  phpswitch config set install_timeout 10m
  phpswitch config set restart_service false`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := config.DefaultPaths()
		settings, err := config.LoadSettings(paths.Config)
		if err != nil {
			return err
		}
		fmt.Println(renderSettings(settings))
		ui.Info("Settings file: %s", paths.Config)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := config.DefaultPaths()
		if err := config.SaveSetting(paths.Config, args[0], args[1]); err != nil {
			return err
		}
		ui.Success("%s = %s", args[0], args[1])
		return nil
	},
}

// renderSettings lays out settings as a two-column table
func renderSettings(s *config.Settings) string {
	table := tui.NewTable("Setting", "Value")
	table.AddRow(config.KeyInstallTimeout, s.InstallTimeout.String())
	table.AddRow(config.KeyCheckBinaries, strconv.FormatBool(s.CheckBinaries))
	table.AddRow(config.KeyGenerateHelpers, strconv.FormatBool(s.GenerateHelpers))
	table.AddRow(config.KeyValetMajor, strconv.Itoa(s.ValetMajor))
	table.AddRow(config.KeyRestartService, strconv.FormatBool(s.RestartService))
	table.AddRow(config.KeyPollInterval, s.PollInterval.String())
	table.AddRow(config.KeyAliasCacheTTL, s.AliasCacheTTL.String())
	return table.Render()
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
