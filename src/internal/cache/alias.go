// Package cache keeps the result of slow Homebrew lookups on disk between runs
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"github.com/phpswitch/phpswitch/src/internal/homebrew"
	"github.com/phpswitch/phpswitch/src/internal/ui"
)

// DefaultAliasTTL is how long a cached alias lookup stays valid
const DefaultAliasTTL = 24 * time.Hour

// AliasSource resolves the version behind the generic php formula
type AliasSource interface {
	AliasInfo(ctx context.Context) (*homebrew.AliasInfo, error)
}

// AliasCache wraps an AliasSource and stores its answer in a JSON file.
// A zero TTL disables the cache. An entry also expires when the kegLink
// symlink points somewhere else than it did at save time, which is what
// an upgrade of the php formula outside phpswitch looks like.
type AliasCache struct {
	source  AliasSource
	path    string
	kegLink string
	ttl     time.Duration
	now     func() time.Time
}

type aliasEntry struct {
	CachedAt time.Time           `json:"cached_at"`
	Keg      string              `json:"keg,omitempty"`
	Alias    *homebrew.AliasInfo `json:"alias"`
}

// NewAliasCache creates a cache stored at path. kegLink is the opt symlink of
// the generic php formula; an empty kegLink skips the keg check.
func NewAliasCache(source AliasSource, path, kegLink string, ttl time.Duration) *AliasCache {
	return &AliasCache{
		source:  source,
		path:    path,
		kegLink: kegLink,
		ttl:     ttl,
		now:     time.Now,
	}
}

// AliasInfo returns the cached alias if still valid, otherwise asks the source
func (c *AliasCache) AliasInfo(ctx context.Context) (*homebrew.AliasInfo, error) {
	if alias, err := c.load(); err == nil {
		ui.Debug("Using cached php alias %s from %s", alias.Version, c.path)
		return alias, nil
	}
	return c.fetch(ctx)
}

// Refresh drops the cached entry and asks the source again
func (c *AliasCache) Refresh(ctx context.Context) (*homebrew.AliasInfo, error) {
	if err := c.Clear(); err != nil {
		ui.Debug("Could not clear alias cache: %v", err)
	}
	return c.fetch(ctx)
}

// Clear removes the cache file
func (c *AliasCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *AliasCache) fetch(ctx context.Context) (*homebrew.AliasInfo, error) {
	alias, err := c.source.AliasInfo(ctx)
	if err != nil {
		return nil, err
	}

	// Saving is best-effort; the lookup already succeeded
	if err := c.save(alias); err != nil {
		ui.Debug("Could not write alias cache: %v", err)
	}
	return alias, nil
}

func (c *AliasCache) load() (*homebrew.AliasInfo, error) {
	if c.ttl <= 0 {
		return nil, os.ErrNotExist
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}

	var entry aliasEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}

	if entry.Alias == nil || entry.Alias.Version == "" || c.now().Sub(entry.CachedAt) > c.ttl {
		return nil, os.ErrNotExist // Treat expired cache as not found
	}
	if keg := c.currentKeg(); keg != entry.Keg {
		ui.Debug("php keg changed from %q to %q, ignoring cached alias", entry.Keg, keg)
		return nil, os.ErrNotExist
	}

	return entry.Alias, nil
}

func (c *AliasCache) save(alias *homebrew.AliasInfo) error {
	if c.ttl <= 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}

	data, err := json.Marshal(aliasEntry{CachedAt: c.now(), Keg: c.currentKeg(), Alias: alias})
	if err != nil {
		return err
	}

	return renameio.WriteFile(c.path, data, 0644)
}

// currentKeg returns where kegLink points, or "" when it is unset or missing
func (c *AliasCache) currentKeg() string {
	if c.kegLink == "" {
		return ""
	}
	target, err := os.Readlink(c.kegLink)
	if err != nil {
		return ""
	}
	return target
}
