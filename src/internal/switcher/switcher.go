// Package switcher installs PHP versions and switches the linked PHP through Homebrew
package switcher

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/phpswitch/phpswitch/src/internal/constants"
	"github.com/phpswitch/phpswitch/src/internal/homebrew"
	"github.com/phpswitch/phpswitch/src/internal/registry"
	"github.com/phpswitch/phpswitch/src/internal/runtime"
	"github.com/phpswitch/phpswitch/src/internal/shell"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

// DefaultInstallTimeout bounds a single `brew install`
const DefaultInstallTimeout = 5 * time.Minute

// Options configures a Switcher
type Options struct {
	InstallTimeout time.Duration
	RestartService bool // Restart php-fpm through brew services after linking
}

// Switcher runs installs and switches against one registry.
//
// The busy flag is informational: overlapping calls are not rejected here.
type Switcher struct {
	exec      shell.Executor
	brew      *homebrew.Client
	registry  *registry.Registry
	phpBinary string
	opts      Options

	inFlight atomic.Int32
	active   atomic.Pointer[runtime.ActiveInstallation]
}

// New creates a switcher. phpBinary is the linked php (e.g. /opt/homebrew/bin/php).
func New(exec shell.Executor, brew *homebrew.Client, reg *registry.Registry, phpBinary string, opts Options) *Switcher {
	if opts.InstallTimeout <= 0 {
		opts.InstallTimeout = DefaultInstallTimeout
	}
	return &Switcher{
		exec:      exec,
		brew:      brew,
		registry:  reg,
		phpBinary: phpBinary,
		opts:      opts,
	}
}

// Registry returns the registry the switcher keeps up to date
func (s *Switcher) Registry() *registry.Registry {
	return s.registry
}

// Busy reports whether an install or switch is in flight
func (s *Switcher) Busy() bool {
	return s.inFlight.Load() > 0
}

func (s *Switcher) begin() { s.inFlight.Add(1) }
func (s *Switcher) end()   { s.inFlight.Add(-1) }

// Snapshot reads the linked PHP again and remembers the result
func (s *Switcher) Snapshot(ctx context.Context) (*runtime.ActiveInstallation, error) {
	active, err := runtime.ReadActive(ctx, s.exec, s.phpBinary)
	if err != nil {
		if errors.Is(err, runtime.ErrNoActiveInstallation) {
			s.active.Store(nil)
		}
		return nil, err
	}
	s.active.Store(active)
	return active, nil
}

// Current returns the last snapshot without running php, or nil if none was taken
func (s *Switcher) Current() *runtime.ActiveInstallation {
	return s.active.Load()
}

// Install starts `brew install` for a PHP formula (php, php@8.2 or
// shivammathur/php/php@5.6). Unsupported versions fail before any command runs.
func (s *Switcher) Install(ctx context.Context, formula string) *Operation {
	version := homebrew.FormulaVersion(formula)
	display := version
	if display == "" {
		display = "(latest)"
		if alias := s.registry.Alias(); alias != nil {
			display = alias.Version
		}
	}
	title := fmt.Sprintf("Installing PHP %s...", display)

	if !homebrew.IsPhpFormula(formula) {
		return failedOperation(title, fmt.Errorf("%s is not a PHP formula", formula))
	}
	if version != "" && !runtime.IsSupported(s.registry.ValetMajor(), version) {
		return failedOperation(title, &runtime.UnsupportedVersionError{Version: version, ValetMajor: s.registry.ValetMajor()})
	}

	op := newOperation(title)
	s.begin()
	go func() {
		err := s.install(ctx, op, formula, display)
		s.end()
		op.finish(err)
	}()
	return op
}

func (s *Switcher) install(ctx context.Context, op *Operation, formula, display string) error {
	op.emit(0.2, fmt.Sprintf("Please wait while Homebrew installs PHP %s...", display))

	if tap := homebrew.RequiredTap(formula); tap != "" {
		if err := s.brew.EnsureTap(ctx, tap); err != nil {
			return fmt.Errorf("failed to tap %s: %w", tap, err)
		}
	}

	err := s.brew.Install(ctx, formula, s.opts.InstallTimeout, func(line string) {
		ui.DebugKV("brew", "formula", formula, "line", line)
		if value, description, ok := homebrew.MatchMilestone(line); ok {
			op.emit(value, description)
		}
	})
	if err != nil {
		return err
	}

	op.emit(0.95, "Reloading PHP versions...")

	if formula == constants.PhpFormula {
		if _, err := s.registry.RefreshAlias(ctx); err != nil {
			return err
		}
	}
	if _, err := s.registry.Detect(ctx); err != nil {
		return err
	}
	if _, err := s.Snapshot(ctx); err != nil && !errors.Is(err, runtime.ErrNoActiveInstallation) {
		return err
	}

	op.emit(1, "The installation has succeeded.")
	return nil
}

// SwitchTo links the requested PHP version and verifies the linked binary reports it
func (s *Switcher) SwitchTo(ctx context.Context, version string) error {
	major := s.registry.ValetMajor()
	if !runtime.IsSupported(major, version) {
		return &runtime.UnsupportedVersionError{Version: version, ValetMajor: major}
	}
	target, ok := s.registry.Installation(version)
	if !ok {
		return fmt.Errorf("%w: PHP %s (run 'phpswitch install %s')", ErrNotInstalled, version, version)
	}

	s.begin()
	defer s.end()

	installations := s.registry.Installations()
	for _, inst := range installations {
		if err := s.brew.Unlink(ctx, inst.Formula); err != nil {
			return err
		}
	}

	if err := s.brew.Link(ctx, target.Formula); err != nil {
		return err
	}

	if s.opts.RestartService {
		s.restartServices(ctx, target, installations)
	}

	active, err := s.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, runtime.ErrNoActiveInstallation) {
			return &ValidationError{Requested: version}
		}
		return err
	}
	if active.Short != version {
		return &ValidationError{Requested: version, Active: active.Short}
	}

	ui.DebugKV("Linked PHP", "version", active.Long, "formula", target.Formula)
	return nil
}

// restartServices stops php-fpm for every other version and restarts the target.
// Service failures never fail the switch.
func (s *Switcher) restartServices(ctx context.Context, target runtime.Installation, installations []runtime.Installation) {
	for _, inst := range installations {
		if inst.Formula == target.Formula {
			continue
		}
		if err := s.brew.StopService(ctx, inst.Formula); err != nil {
			ui.Debug("Could not stop service %s: %v", inst.Formula, err)
		}
	}

	if err := s.brew.RestartService(ctx, target.Formula); err != nil {
		ui.Warning("Could not restart the %s service: %v", target.Formula, err)
	}
}
