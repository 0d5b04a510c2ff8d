package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// Cache keeps build directories under <data_dir>/cache between workspaces.
// Entries are replaced whole, so a reader never sees a half-written entry.
type Cache struct {
	dir string
	log *slog.Logger
}

// NewCache creates a new build cache
func NewCache(cfg *config.RuntimeConfig, log *slog.Logger) *Cache {
	return &Cache{
		dir: filepath.Join(cfg.DataDir, "cache"),
		log: log.With("component", "BuildCache"),
	}
}

// Restore copies entry name into dest. It does nothing when the entry is
// missing or dest already exists.
func (c *Cache) Restore(name, dest string) (bool, error) {
	src := filepath.Join(c.dir, name)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	}

	if err := os.CopyFS(dest, os.DirFS(src)); err != nil {
		_ = os.RemoveAll(dest)
		return false, fmt.Errorf("failed to restore %s: %w", name, err)
	}
	c.log.Debug("cache restored", "entry", name, "dest", dest)
	return true, nil
}

// Save replaces entry name with a copy of src
func (c *Cache) Save(name, src string) error {
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	staging := filepath.Join(c.dir, fmt.Sprintf(".%s-%s", name, uuid.NewString()))
	if err := os.CopyFS(staging, os.DirFS(src)); err != nil {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("failed to copy %s into cache: %w", name, err)
	}

	entry := filepath.Join(c.dir, name)
	old := staging + ".old"
	if err := os.Rename(entry, old); err != nil && !os.IsNotExist(err) {
		_ = os.RemoveAll(staging)
		return fmt.Errorf("failed to retire cache entry %s: %w", name, err)
	}
	if err := os.Rename(staging, entry); err != nil {
		// Another build saved first
		_ = os.RemoveAll(staging)
	}
	_ = os.RemoveAll(old)

	c.log.Debug("cache saved", "entry", name)
	return nil
}

var _ usecase.BuildCache = (*Cache)(nil)
