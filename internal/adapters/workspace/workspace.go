package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/google/uuid"
	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

var purposePattern = regexp.MustCompile(`[^a-z0-9-]+`)

// Manager creates workspaces under a shared root directory
type Manager struct {
	root string
	log  *slog.Logger
}

// NewManager creates a new workspace manager
func NewManager(cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	root := cfg.WorkspaceRoot
	if root == "" {
		root = os.TempDir()
	}
	return &Manager{
		root: root,
		log:  log.With("component", "Workspace"),
	}
}

// Acquire creates a fresh, uniquely named directory. The caller owns it and
// must Release it.
func (m *Manager) Acquire(purpose string) (usecase.Workspace, error) {
	if err := os.MkdirAll(m.root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace root: %w", err)
	}

	name := fmt.Sprintf("scgen-%s-%s", purposePattern.ReplaceAllString(purpose, "-"), uuid.NewString())
	dir := filepath.Join(m.root, name)

	// Mkdir, not MkdirAll: an existing path means a collision and must fail
	if err := os.Mkdir(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	m.log.Debug("workspace acquired", "dir", dir)
	return &Workspace{dir: dir, log: m.log}, nil
}

// Workspace is a scratch directory removed on Release
type Workspace struct {
	dir  string
	log  *slog.Logger
	once sync.Once
}

// Dir returns the workspace directory
func (w *Workspace) Dir() string {
	return w.dir
}

// Path joins elem onto the workspace directory
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.dir}, elem...)...)
}

// Release removes the directory tree. It is idempotent, best-effort and never panics.
func (w *Workspace) Release() {
	w.once.Do(func() {
		if err := os.RemoveAll(w.dir); err != nil {
			w.log.Warn("failed to remove workspace", "dir", w.dir, "error", err)
			return
		}
		w.log.Debug("workspace released", "dir", w.dir)
	})
}

var (
	_ usecase.WorkspaceProvider = (*Manager)(nil)
	_ usecase.Workspace         = (*Workspace)(nil)
)
