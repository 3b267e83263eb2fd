package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if s.InstallTimeout != 5*time.Minute {
		t.Errorf("InstallTimeout = %s, want 5m", s.InstallTimeout)
	}
	if !s.CheckBinaries {
		t.Error("CheckBinaries should default to true")
	}
	if !s.GenerateHelpers {
		t.Error("GenerateHelpers should default to true")
	}
	if s.ValetMajor != DefaultValetMajor {
		t.Errorf("ValetMajor = %d, want %d", s.ValetMajor, DefaultValetMajor)
	}
	if !s.RestartService {
		t.Error("RestartService should default to true")
	}
	if s.PollInterval != time.Minute {
		t.Errorf("PollInterval = %s, want 1m", s.PollInterval)
	}
	if s.AliasCacheTTL != 24*time.Hour {
		t.Errorf("AliasCacheTTL = %s, want 24h", s.AliasCacheTTL)
	}
}

func TestLoadSettings_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `{
  "install_timeout": "10m",
  "check_binaries": false,
  "valet_major": 3
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if s.InstallTimeout != 10*time.Minute {
		t.Errorf("InstallTimeout = %s, want 10m", s.InstallTimeout)
	}
	if s.CheckBinaries {
		t.Error("CheckBinaries = true, want false from file")
	}
	if s.ValetMajor != 3 {
		t.Errorf("ValetMajor = %d, want 3", s.ValetMajor)
	}
	if !s.GenerateHelpers {
		t.Error("GenerateHelpers should keep its default")
	}
}

func TestLoadSettings_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"valet_major": 3}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PHPSWITCH_VALET_MAJOR", "2")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.ValetMajor != 2 {
		t.Errorf("ValetMajor = %d, want 2 from environment", s.ValetMajor)
	}
}

func TestLoadSettings_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Error("LoadSettings() expected error for malformed JSON")
	}
}

func TestSaveSetting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	if err := SaveSetting(path, KeyValetMajor, "3"); err != nil {
		t.Fatalf("SaveSetting() error = %v", err)
	}
	if err := SaveSetting(path, KeyInstallTimeout, "90s"); err != nil {
		t.Fatalf("SaveSetting() error = %v", err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.ValetMajor != 3 {
		t.Errorf("ValetMajor = %d, want 3", s.ValetMajor)
	}
	if s.InstallTimeout != 90*time.Second {
		t.Errorf("InstallTimeout = %s, want 90s", s.InstallTimeout)
	}
}

func TestSaveSetting_Rejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	if err := SaveSetting(path, "colour", "blue"); err == nil {
		t.Error("SaveSetting() expected error for unknown key")
	}

	if err := SaveSetting(path, KeyInstallTimeout, "soon"); err == nil {
		t.Error("SaveSetting() expected error for invalid duration")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid value should not leave a config file behind")
	}
}
