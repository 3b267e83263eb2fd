package path

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phpswitch/phpswitch/src/internal/constants"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

// rcMarker tags every line phpswitch writes into a shell config
const rcMarker = "# Added by phpswitch"

// DetectShell returns the name of the login shell. macOS has defaulted to zsh
// since Catalina, so an unset SHELL is treated as zsh.
func DetectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}
	return constants.ShellZsh
}

// GetShellConfigFile returns the rc file that login shells of this kind read
func GetShellConfigFile(shell string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	switch shell {
	case constants.ShellZsh:
		return filepath.Join(home, ".zshrc")
	case constants.ShellBash:
		// Terminal.app starts login shells, which skip .bashrc unless .bash_profile is missing
		profile := filepath.Join(home, ".bash_profile")
		if _, err := os.Stat(profile); err != nil {
			if bashrc := filepath.Join(home, ".bashrc"); fileExists(bashrc) {
				return bashrc
			}
		}
		return profile
	case constants.ShellFish:
		return filepath.Join(home, ".config", "fish", "config.fish")
	}
	return filepath.Join(home, ".profile")
}

// ExportLine returns the snippet that puts dir on PATH for shell
func ExportLine(shell, dir string) string {
	if shell == constants.ShellFish {
		return fmt.Sprintf("\n%s\nfish_add_path --prepend \"%s\"\n", rcMarker, dir)
	}
	return fmt.Sprintf("\n%s\nexport PATH=\"%s:$PATH\"\n", rcMarker, dir)
}

// AddToPath puts dir on PATH in the user's shell config after confirmation.
// Nothing is written when dir is already on PATH or already in the config file.
func AddToPath(dir string) error {
	shell := DetectShell()
	configFile := GetShellConfigFile(shell)
	if configFile == "" {
		return fmt.Errorf("could not determine the config file for %s; add %s to PATH manually", shell, dir)
	}

	if IsInPath(dir) {
		ui.Info("%s is already in your PATH", dir)
		return nil
	}

	if containsPathModification(configFile, dir) {
		ui.Warning("%s already adds %s to PATH, but this shell has not loaded it", configFile, dir)
		ui.Info("Restart your terminal or run: source %s", configFile)
		return nil
	}

	exportLine := ExportLine(shell, dir)

	ui.Header("PATH Setup")
	ui.Info("The pmXY helper scripts live in %s", ui.Highlight(dir))
	ui.Info("Appending to %s: %s", ui.Highlight(configFile), ui.Highlight(strings.TrimSpace(exportLine)))

	if !ui.Confirm("Proceed?") {
		ui.Warning("PATH not modified. Add this to %s yourself:", configFile)
		ui.Info("%s", strings.TrimSpace(exportLine))
		return nil
	}

	if err := appendToConfig(configFile, exportLine); err != nil {
		return err
	}

	ui.Success("Added %s to PATH in %s", dir, configFile)
	ui.Info("Restart your terminal or run: source %s", configFile)
	return nil
}

// appendToConfig appends exportLine to configFile in place, creating it if
// needed. Writing through the existing file keeps symlinked dotfiles intact.
func appendToConfig(configFile, exportLine string) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(configFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", configFile, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(exportLine); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFile, err)
	}
	return nil
}

// containsPathModification reports whether configFile already has a PATH line for dir
func containsPathModification(configFile, dir string) bool {
	content, err := os.ReadFile(configFile)
	if err != nil {
		return false
	}

	for _, line := range bytes.Split(content, []byte("\n")) {
		if bytes.Contains(line, []byte(dir)) && bytes.Contains(bytes.ToUpper(line), []byte("PATH")) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
