package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phpswitch/phpswitch/src/internal/runtime"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

var watchIntervalFlag time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report changes to installed and linked PHP versions",
	Long: `Re-detect installed PHP versions and the linked binary on an interval and
print a line whenever something changes. Stops on Ctrl+C.

Examples:
  phpswitch watch
  phpswitch watch --interval 10s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		interval := watchIntervalFlag
		if interval <= 0 {
			interval = a.settings.PollInterval
		}
		ui.Info("Checking every %s", interval)

		return watch(ctx, a, interval, func(line string) { fmt.Println(line) })
	},
}

// watchState is what a single poll observes
type watchState struct {
	versions []string
	active   string
}

// poll reads the current installation state
func poll(ctx context.Context, a *app) (watchState, error) {
	versions, err := a.registry.Detect(ctx)
	if err != nil {
		return watchState{}, err
	}

	state := watchState{versions: versions}
	active, err := a.switcher.Snapshot(ctx)
	switch {
	case err == nil:
		state.active = active.Short
	case !errors.Is(err, runtime.ErrNoActiveInstallation):
		return watchState{}, err
	}
	return state, nil
}

// watch polls until ctx is done, reporting each change through report
func watch(ctx context.Context, a *app, interval time.Duration, report func(string)) error {
	prev, err := poll(ctx, a)
	if err != nil {
		return err
	}
	for _, line := range describeChanges(watchState{}, prev) {
		report(line)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if a.switcher.Busy() {
				continue
			}
			next, err := poll(ctx, a)
			if err != nil {
				ui.Warning("Refresh failed: %v", err)
				continue
			}
			for _, line := range describeChanges(prev, next) {
				report(line)
			}
			prev = next
		}
	}
}

// describeChanges lists the differences between two polls
func describeChanges(prev, next watchState) []string {
	var lines []string
	for _, v := range next.versions {
		if !slices.Contains(prev.versions, v) {
			lines = append(lines, fmt.Sprintf("+ PHP %s installed", v))
		}
	}
	for _, v := range prev.versions {
		if !slices.Contains(next.versions, v) {
			lines = append(lines, fmt.Sprintf("- PHP %s removed", v))
		}
	}
	if prev.active != next.active {
		if next.active == "" {
			lines = append(lines, "* No PHP version is linked")
		} else {
			lines = append(lines, fmt.Sprintf("* PHP %s is linked", next.active))
		}
	}
	return lines
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchIntervalFlag, "interval", 0, "Polling interval (defaults to the poll_interval setting)")
}
