// Package helper manages the per-version pmXY scripts that put one PHP version first on PATH
package helper

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/samber/lo"

	"github.com/phpswitch/phpswitch/src/internal/runtime"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

var scriptNamePattern = regexp.MustCompile(`^pm\d+$`)

// Generator writes helper scripts into a single directory
type Generator struct {
	dir string
}

// NewGenerator creates a generator writing into dir
func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// Dir returns the directory holding the scripts
func (g *Generator) Dir() string {
	return g.dir
}

// ScriptName returns the helper name for a version ("8.2" → "pm82")
func ScriptName(version string) string {
	return "pm" + strings.ReplaceAll(runtime.ShortVersion(version), ".", "")
}

// Script renders the helper for an installation
func Script(inst runtime.Installation) string {
	return fmt.Sprintf(`#!/bin/zsh
# Generated by phpswitch: puts PHP %s first on your PATH
export PATH=%s/bin:%s/sbin:$PATH
`, inst.Version, inst.Path, inst.Path)
}

// Generate writes the helper for inst. An identical existing script is left alone.
func (g *Generator) Generate(inst runtime.Installation) error {
	if err := os.MkdirAll(g.dir, 0755); err != nil {
		return fmt.Errorf("failed to create helper directory: %w", err)
	}

	name := ScriptName(inst.Version)
	target := filepath.Join(g.dir, name)
	content := []byte(Script(inst))

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, content) {
		return nil
	}

	if err := renameio.WriteFile(target, content, 0755); err != nil {
		return fmt.Errorf("failed to write helper %s: %w", name, err)
	}

	ui.Debug("Wrote helper %s for PHP %s", target, inst.Version)
	return nil
}

// GenerateAll writes a helper per installation, stopping at the first failure
func (g *Generator) GenerateAll(installations []runtime.Installation) error {
	for _, inst := range installations {
		if err := g.Generate(inst); err != nil {
			return err
		}
	}
	return nil
}

// List returns the helper scripts present in the directory
func (g *Generator) List() ([]string, error) {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	helpers := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !scriptNamePattern.MatchString(entry.Name()) {
			continue
		}
		helpers = append(helpers, entry.Name())
	}
	return helpers, nil
}

// Prune removes helpers for versions not in keep and returns the removed names
func (g *Generator) Prune(keep []string) ([]string, error) {
	existing, err := g.List()
	if err != nil {
		return nil, err
	}

	wanted := lo.Map(keep, func(v string, _ int) string { return ScriptName(v) })
	stale := lo.Without(existing, wanted...)

	for _, name := range stale {
		if err := os.Remove(filepath.Join(g.dir, name)); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove helper %s: %w", name, err)
		}
	}
	return stale, nil
}
