package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phpswitch/phpswitch/src/internal/ui"
)

var validCmd = &cobra.Command{
	Use:   "valid <constraint>",
	Short: "List installed versions matching a composer constraint",
	Long: `List the installed PHP versions that satisfy a composer.json style constraint.
Alternatives may be separated by | or ||.

Examples:
  phpswitch valid "^8.1"
  phpswitch valid "^7.4 || ^8.0"
  phpswitch valid ">=8.0 <8.3"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		if _, err := a.registry.Detect(ctx); err != nil {
			return err
		}

		constraint := strings.Join(args, " ")
		versions, err := a.registry.ValidVersions(constraint)
		if err != nil {
			return err
		}

		if len(versions) == 0 {
			ui.Warning("No installed PHP version satisfies %s", constraint)
			return nil
		}
		for _, v := range versions {
			fmt.Println(v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validCmd)
}
