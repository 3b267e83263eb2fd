package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/phpswitch/phpswitch/src/internal/cache"
	"github.com/phpswitch/phpswitch/src/internal/config"
	"github.com/phpswitch/phpswitch/src/internal/constants"
	"github.com/phpswitch/phpswitch/src/internal/helper"
	"github.com/phpswitch/phpswitch/src/internal/homebrew"
	"github.com/phpswitch/phpswitch/src/internal/lock"
	"github.com/phpswitch/phpswitch/src/internal/registry"
	"github.com/phpswitch/phpswitch/src/internal/runtime"
	"github.com/phpswitch/phpswitch/src/internal/shell"
	"github.com/phpswitch/phpswitch/src/internal/switcher"
	"github.com/phpswitch/phpswitch/src/internal/ui"
	"github.com/phpswitch/phpswitch/src/internal/valet"
)

// valetBinary is resolved through PATH; Valet usually lives in ~/.composer/vendor/bin
const valetBinary = "valet"

// app bundles everything a command needs, wired from paths and settings
type app struct {
	paths    *config.Paths
	settings *config.Settings
	exec     shell.Executor
	brew     *homebrew.Client
	helpers  *helper.Generator
	registry *registry.Registry
	switcher *switcher.Switcher
}

// newApp builds the app for a command run; tests replace it
var newApp = func(ctx context.Context) (*app, error) {
	return buildApp(ctx, config.DefaultPaths(), shell.NewSystem())
}

func buildApp(ctx context.Context, paths *config.Paths, exec shell.Executor) (*app, error) {
	settings, err := config.LoadSettings(paths.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings from %s: %w", paths.Config, err)
	}

	major := valet.DetectMajor(ctx, exec, valetBinary, settings.ValetMajor)
	ui.Debug("Using the supported versions of Valet %d", major)

	brew := homebrew.NewClient(exec, paths.Brew)
	helpers := helper.NewGenerator(paths.Helpers)

	alias := cache.NewAliasCache(brew, paths.AliasCache, paths.FormulaPath(constants.PhpFormula), settings.AliasCacheTTL)

	reg := registry.New(exec, alias, paths.Opt, registry.Options{
		ValetMajor:      major,
		CheckBinaries:   settings.CheckBinaries,
		GenerateHelpers: settings.GenerateHelpers,
		Helpers:         helpers,
	})

	sw := switcher.New(exec, brew, reg, paths.Php, switcher.Options{
		InstallTimeout: settings.InstallTimeout,
		RestartService: settings.RestartService,
	})

	return &app{
		paths:    paths,
		settings: settings,
		exec:     exec,
		brew:     brew,
		helpers:  helpers,
		registry: reg,
		switcher: sw,
	}, nil
}

// withLock runs fn while holding the cross-process busy lock
func (a *app) withLock(fn func() error) error {
	return lock.WithLock(a.paths.Lock, fn)
}

// normalizeVersion accepts "8.2", "8.2.4", "php@8.2" or "v8.2" and returns "8.2"
func normalizeVersion(arg string) string {
	v := strings.TrimSpace(arg)
	if f := homebrew.FormulaVersion(v); f != "" {
		v = f
	}
	v = strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	return runtime.ShortVersion(v)
}
