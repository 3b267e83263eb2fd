package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phpswitch/phpswitch/src/internal/tui"
)

// Version can be set at build time using ldflags
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the phpswitch version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(tui.RenderInfoBox(versionLine()))
	},
}

func versionLine() string {
	return fmt.Sprintf("phpswitch %s", tui.RenderVersion(Version))
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
