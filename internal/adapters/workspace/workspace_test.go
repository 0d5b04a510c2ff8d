package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/scgen/internal/config"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.RuntimeConfig{WorkspaceRoot: root}
	return NewManager(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil))), root
}

func TestAcquireAndRelease(t *testing.T) {
	m, root := newTestManager(t)

	ws, err := m.Acquire("evm compile")
	require.NoError(t, err)

	assert.DirExists(t, ws.Dir())
	assert.Equal(t, root, filepath.Dir(ws.Dir()))
	assert.Contains(t, filepath.Base(ws.Dir()), "scgen-evm-compile-")
	assert.Equal(t, filepath.Join(ws.Dir(), "out", "a.bin"), ws.Path("out", "a.bin"))

	require.NoError(t, os.MkdirAll(ws.Path("nested", "deep"), 0755))
	require.NoError(t, os.WriteFile(ws.Path("nested", "deep", "f.txt"), []byte("x"), 0644))

	ws.Release()
	assert.NoDirExists(t, ws.Dir())

	// Idempotent
	ws.Release()
}

func TestAcquireIsolation(t *testing.T) {
	m, root := newTestManager(t)

	const n = 32
	dirs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ws, err := m.Acquire("radix-compile")
			if assert.NoError(t, err) {
				dirs[i] = ws.Dir()
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, d := range dirs {
		assert.False(t, seen[d], "workspace %s handed out twice", d)
		seen[d] = true
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, n)
}

func TestNewManagerDefaultsToTempDir(t *testing.T) {
	m := NewManager(&config.RuntimeConfig{}, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	assert.Equal(t, os.TempDir(), m.root)
}
