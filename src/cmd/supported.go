package cmd

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/phpswitch/phpswitch/src/internal/runtime"
	"github.com/phpswitch/phpswitch/src/internal/tui"
)

var supportedValetFlag int

var supportedCmd = &cobra.Command{
	Use:   "supported",
	Short: "Show the PHP versions each Valet release supports",
	Long: `Show the PHP versions supported by each Laravel Valet major release.
The release line phpswitch detected on this machine is highlighted.

Examples:
  phpswitch supported
  phpswitch supported --valet 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		major := supportedValetFlag
		if major == 0 {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			major = a.registry.ValetMajor()
		} else if !lo.Contains(runtime.KnownValetMajors(), major) {
			return fmt.Errorf("unknown Valet release line %d (known: %v)", major, runtime.KnownValetMajors())
		}

		fmt.Println(renderSupportMatrix(major))
		return nil
	},
}

// renderSupportMatrix builds the matrix table with the row for activeMajor highlighted
func renderSupportMatrix(activeMajor int) string {
	table := tui.NewTable("Valet", "PHP versions")
	table.SetTitle("Supported PHP versions")

	for _, major := range runtime.KnownValetMajors() {
		versions := fmt.Sprint(runtime.SupportedVersions(major))
		if major == activeMajor {
			table.AddActiveRow(strconv.Itoa(major)+" (detected)", versions)
		} else {
			table.AddRow(strconv.Itoa(major), versions)
		}
	}

	return table.Render()
}

func init() {
	rootCmd.AddCommand(supportedCmd)
	supportedCmd.Flags().IntVar(&supportedValetFlag, "valet", 0, "Highlight this Valet major instead of the detected one")
}
