package path

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsInPath(t *testing.T) {
	sep := string(os.PathListSeparator)

	tests := []struct {
		name      string
		dir       string
		setupPath string
		expected  bool
	}{
		{
			name:      "Directory exists in PATH",
			dir:       "/usr/bin",
			setupPath: strings.Join([]string{"/usr/bin", "/usr/local/bin"}, sep),
			expected:  true,
		},
		{
			name:      "Directory not in PATH",
			dir:       "/nonexistent",
			setupPath: strings.Join([]string{"/usr/bin", "/usr/local/bin"}, sep),
			expected:  false,
		},
		{
			name:      "Trailing slash is ignored",
			dir:       "/usr/local/bin/",
			setupPath: strings.Join([]string{"/usr/bin", "/usr/local/bin"}, sep),
			expected:  true,
		},
		{
			name:      "Empty PATH",
			dir:       "/usr/bin",
			setupPath: "",
			expected:  false,
		},
		{
			name:      "Path with spaces",
			dir:       "/path with spaces",
			setupPath: strings.Join([]string{"/usr/bin", "/path with spaces"}, sep),
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PATH", tt.setupPath)

			if got := IsInPath(tt.dir); got != tt.expected {
				t.Errorf("IsInPath(%q) with PATH=%q = %v, want %v", tt.dir, tt.setupPath, got, tt.expected)
			}
		})
	}
}

func TestPrepend(t *testing.T) {
	got := Prepend("/usr/bin:/opt/homebrew/opt/php@8.2/bin:/bin",
		"/opt/homebrew/opt/php@8.2/bin", "/opt/homebrew/opt/php@8.2/sbin")
	want := "/opt/homebrew/opt/php@8.2/bin:/opt/homebrew/opt/php@8.2/sbin:/usr/bin:/bin"
	if got != want {
		t.Errorf("Prepend() = %q, want %q", got, want)
	}
}

func TestGetShellConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		shell string
		want  string
	}{
		{shell: "zsh", want: filepath.Join(home, ".zshrc")},
		{shell: "bash", want: filepath.Join(home, ".bash_profile")},
		{shell: "fish", want: filepath.Join(home, ".config", "fish", "config.fish")},
		{shell: "tcsh", want: filepath.Join(home, ".profile")},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			if got := GetShellConfigFile(tt.shell); got != tt.want {
				t.Errorf("GetShellConfigFile(%q) = %q, want %q", tt.shell, got, tt.want)
			}
		})
	}
}

func TestGetShellConfigFile_Bash(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	profile := filepath.Join(home, ".bash_profile")
	bashrc := filepath.Join(home, ".bashrc")

	if err := os.WriteFile(bashrc, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if got := GetShellConfigFile("bash"); got != bashrc {
		t.Errorf("with only .bashrc: GetShellConfigFile(bash) = %q, want %q", got, bashrc)
	}

	if err := os.WriteFile(profile, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if got := GetShellConfigFile("bash"); got != profile {
		t.Errorf("with .bash_profile: GetShellConfigFile(bash) = %q, want %q", got, profile)
	}
}

func TestExportLine(t *testing.T) {
	dir := "/Users/me/.config/phpswitch/bin"

	zsh := ExportLine("zsh", dir)
	if !strings.Contains(zsh, `export PATH="/Users/me/.config/phpswitch/bin:$PATH"`) {
		t.Errorf("ExportLine(zsh) = %q", zsh)
	}

	fish := ExportLine("fish", dir)
	if !strings.Contains(fish, `fish_add_path --prepend "/Users/me/.config/phpswitch/bin"`) {
		t.Errorf("ExportLine(fish) = %q", fish)
	}
}

func TestContainsPathModification(t *testing.T) {
	dir := "/Users/me/.config/phpswitch/bin"
	config := filepath.Join(t.TempDir(), ".zshrc")

	if containsPathModification(config, dir) {
		t.Error("missing file should not contain a modification")
	}

	if err := appendToConfig(config, ExportLine("zsh", dir)); err != nil {
		t.Fatalf("appendToConfig() error = %v", err)
	}
	if !containsPathModification(config, dir) {
		t.Error("appended export line was not found")
	}
}

func TestAddToPath_AlreadyInPath(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, "bin")
	t.Setenv("HOME", home)
	t.Setenv("SHELL", "/bin/zsh")
	t.Setenv("PATH", dir)

	if err := AddToPath(dir); err != nil {
		t.Fatalf("AddToPath() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".zshrc")); !os.IsNotExist(err) {
		t.Error("shell config should not be written when dir is already on PATH")
	}
}

func TestDetectShell_DefaultsToZsh(t *testing.T) {
	t.Setenv("SHELL", "")
	if got := DetectShell(); got != "zsh" {
		t.Errorf("DetectShell() = %q, want zsh", got)
	}

	t.Setenv("SHELL", "/opt/homebrew/bin/fish")
	if got := DetectShell(); got != "fish" {
		t.Errorf("DetectShell() = %q, want fish", got)
	}
}

func TestAppendToConfig_KeepsContentAndMode(t *testing.T) {
	config := filepath.Join(t.TempDir(), ".zshrc")
	if err := os.WriteFile(config, []byte("alias ll='ls -l'\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := appendToConfig(config, ExportLine("zsh", "/tmp/bin")); err != nil {
		t.Fatalf("appendToConfig() error = %v", err)
	}

	data, err := os.ReadFile(config)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "alias ll='ls -l'\n") {
		t.Errorf("existing content lost: %q", data)
	}
	if !strings.Contains(string(data), "# Added by phpswitch") {
		t.Errorf("marker missing: %q", data)
	}

	info, err := os.Stat(config)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestAppendToConfig_FollowsSymlink(t *testing.T) {
	dotfiles := filepath.Join(t.TempDir(), "dotfiles")
	if err := os.MkdirAll(dotfiles, 0755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dotfiles, "zshrc")
	if err := os.WriteFile(target, []byte("export EDITOR=vim\n"), 0644); err != nil {
		t.Fatal(err)
	}
	config := filepath.Join(t.TempDir(), ".zshrc")
	if err := os.Symlink(target, config); err != nil {
		t.Fatal(err)
	}

	if err := appendToConfig(config, ExportLine("zsh", "/tmp/bin")); err != nil {
		t.Fatalf("appendToConfig() error = %v", err)
	}

	info, err := os.Lstat(config)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("%s was replaced by a regular file", config)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "export EDITOR=vim\n") || !strings.Contains(string(data), "# Added by phpswitch") {
		t.Errorf("symlink target content = %q", data)
	}
}
