package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/spf13/viper"
)

// Setting keys, also usable as PHPSWITCH_<KEY> environment variables
const (
	KeyInstallTimeout  = "install_timeout"
	KeyCheckBinaries   = "check_binaries"
	KeyGenerateHelpers = "generate_helpers"
	KeyValetMajor      = "valet_major"
	KeyRestartService  = "restart_service"
	KeyPollInterval    = "poll_interval"
	KeyAliasCacheTTL   = "alias_cache_ttl"
)

// Defaults
const (
	DefaultInstallTimeout = 5 * time.Minute
	DefaultValetMajor     = 4
	DefaultPollInterval   = 60 * time.Second
	DefaultAliasCacheTTL  = 24 * time.Hour
)

// Settings holds the user-tunable behavior of phpswitch
type Settings struct {
	InstallTimeout  time.Duration // Bound on a single `brew install`
	CheckBinaries   bool          // Skip opt directories whose bin/php is missing
	GenerateHelpers bool          // Regenerate pmXY helper scripts on every detection
	ValetMajor      int           // Valet major to assume when Valet is not installed
	RestartService  bool          // Restart the php-fpm service after switching
	PollInterval    time.Duration // Refresh interval used by `watch`
	AliasCacheTTL   time.Duration // How long the php alias lookup is reused; 0 disables
}

// LoadSettings reads settings from a JSON file, with PHPSWITCH_* environment
// variables taking precedence. A missing file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	v := newViper()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	s := &Settings{
		InstallTimeout:  v.GetDuration(KeyInstallTimeout),
		CheckBinaries:   v.GetBool(KeyCheckBinaries),
		GenerateHelpers: v.GetBool(KeyGenerateHelpers),
		ValetMajor:      v.GetInt(KeyValetMajor),
		RestartService:  v.GetBool(KeyRestartService),
		PollInterval:    v.GetDuration(KeyPollInterval),
		AliasCacheTTL:   v.GetDuration(KeyAliasCacheTTL),
	}

	if s.InstallTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", KeyInstallTimeout, s.InstallTimeout)
	}
	if s.PollInterval <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", KeyPollInterval, s.PollInterval)
	}
	if s.AliasCacheTTL < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %s", KeyAliasCacheTTL, s.AliasCacheTTL)
	}

	return s, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PHPSWITCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyInstallTimeout, DefaultInstallTimeout)
	v.SetDefault(KeyCheckBinaries, true)
	v.SetDefault(KeyGenerateHelpers, true)
	v.SetDefault(KeyValetMajor, DefaultValetMajor)
	v.SetDefault(KeyRestartService, true)
	v.SetDefault(KeyPollInterval, DefaultPollInterval)
	v.SetDefault(KeyAliasCacheTTL, DefaultAliasCacheTTL)

	return v
}

// knownKeys lists the settings accepted by SaveSetting
var knownKeys = []string{
	KeyInstallTimeout,
	KeyCheckBinaries,
	KeyGenerateHelpers,
	KeyValetMajor,
	KeyRestartService,
	KeyPollInterval,
	KeyAliasCacheTTL,
}

// IsKnownKey reports whether key is a recognized setting
func IsKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// SaveSetting stores a single setting in the JSON settings file, keeping the
// other values untouched. The value is validated by reloading the file.
func SaveSetting(path, key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown setting %q", key)
	}

	values := make(map[string]interface{})
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	previous, _ := os.ReadFile(path)
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return err
	}

	if _, err := LoadSettings(path); err != nil {
		// Put the previous file back so a bad value cannot brick the CLI
		if previous != nil {
			_ = renameio.WriteFile(path, previous, 0644)
		} else {
			_ = os.Remove(path)
		}
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	return nil
}
