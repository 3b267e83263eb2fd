// Package homebrew drives the brew command line for PHP formulae
package homebrew

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/phpswitch/phpswitch/src/internal/constants"
	"github.com/phpswitch/phpswitch/src/internal/shell"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

// Client runs brew commands through an Executor
type Client struct {
	exec shell.Executor
	brew string
}

// NewClient creates a client for the brew executable at brewPath
func NewClient(exec shell.Executor, brewPath string) *Client {
	return &Client{exec: exec, brew: brewPath}
}

// Path returns the brew executable used by the client
func (c *Client) Path() string {
	return c.brew
}

// Info runs `brew info <formula> --json` and returns the first package record
func (c *Client) Info(ctx context.Context, formula string) (*Package, error) {
	args := []string{"info", formula, "--json"}
	out, err := c.exec.Pipe(ctx, c.brew, args...)
	if err != nil {
		return nil, err
	}

	var packages []Package
	if err := json.Unmarshal([]byte(out.Stdout), &packages); err != nil {
		return nil, &shell.ShellError{
			Command: shell.CommandLine(c.brew, args...),
			Err:     fmt.Errorf("failed to decode brew info output: %w", err),
		}
	}
	if len(packages) == 0 {
		return nil, &shell.ShellError{
			Command: shell.CommandLine(c.brew, args...),
			Err:     fmt.Errorf("brew info returned no packages for %s", formula),
		}
	}

	return &packages[0], nil
}

// AliasInfo resolves which PHP version the generic php formula points to
func (c *Client) AliasInfo(ctx context.Context) (*AliasInfo, error) {
	pkg, err := c.Info(ctx, constants.PhpFormula)
	if err != nil {
		return nil, err
	}

	version := pkg.AliasVersion()
	if version == "" {
		return nil, &shell.ShellError{
			Command: shell.CommandLine(c.brew, "info", constants.PhpFormula, "--json"),
			Err:     ErrNoAlias,
		}
	}

	ui.Debug("On this system, the php formula means version %s", version)
	return &AliasInfo{
		Version:   version,
		Formula:   pkg.FullName,
		Stable:    pkg.Versions.Stable,
		LinkedKeg: pkg.LinkedKeg,
		FetchedAt: time.Now(),
	}, nil
}

// Taps lists the registered taps
func (c *Client) Taps(ctx context.Context) ([]string, error) {
	out, err := c.exec.Pipe(ctx, c.brew, "tap")
	if err != nil {
		return nil, err
	}

	var taps []string
	for _, line := range strings.Split(out.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			taps = append(taps, line)
		}
	}
	return taps, nil
}

// Tap registers an additional formula source
func (c *Client) Tap(ctx context.Context, name string) error {
	_, err := c.exec.Pipe(ctx, c.brew, "tap", name)
	return err
}

// EnsureTap registers name unless it is already tapped
func (c *Client) EnsureTap(ctx context.Context, name string) error {
	taps, err := c.Taps(ctx)
	if err != nil {
		return err
	}
	for _, tap := range taps {
		if tap == name {
			return nil
		}
	}

	ui.Debug("Tapping %s", name)
	return c.Tap(ctx, name)
}

// Install runs `brew install <formula> --force`, streaming every output line to
// onLine. The run is bounded by timeout and never retried.
func (c *Client) Install(ctx context.Context, formula string, timeout time.Duration, onLine func(line string)) error {
	_, err := c.exec.Attach(ctx, shell.Command{
		Name: c.brew,
		Args: []string{"install", formula, "--force"},
		Env: []string{
			constants.EnvNoInstallUpgrade,
			constants.EnvNoInstallCleanup,
		},
		Timeout: timeout,
	}, onLine)
	return err
}

// Link makes formula the linked PHP
func (c *Client) Link(ctx context.Context, formula string) error {
	_, err := c.exec.Pipe(ctx, c.brew, "link", formula, "--overwrite", "--force")
	return err
}

// Unlink removes the links of formula
func (c *Client) Unlink(ctx context.Context, formula string) error {
	_, err := c.exec.Pipe(ctx, c.brew, "unlink", formula)
	return err
}

// RestartService restarts the php-fpm service of formula
func (c *Client) RestartService(ctx context.Context, formula string) error {
	_, err := c.exec.Pipe(ctx, c.brew, "services", "restart", formula)
	return err
}

// StopService stops the php-fpm service of formula
func (c *Client) StopService(ctx context.Context, formula string) error {
	_, err := c.exec.Pipe(ctx, c.brew, "services", "stop", formula)
	return err
}
