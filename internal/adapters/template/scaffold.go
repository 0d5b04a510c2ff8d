package template

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/trebuchet-org/scgen/internal/usecase"
)

//go:embed scaffolds
var embeddedScaffolds embed.FS

// Scaffold names
const (
	AnchorScaffold = usecase.ScaffoldAnchor
	RadixScaffold  = usecase.ScaffoldRadix
)

// Scaffolds copies the embedded project skeletons
type Scaffolds struct {
	fsys fs.FS
}

// NewScaffolds creates a scaffold provider over the embedded skeletons
func NewScaffolds() *Scaffolds {
	sub, err := fs.Sub(embeddedScaffolds, "scaffolds")
	if err != nil {
		// embedded path is fixed at compile time
		panic(err)
	}
	return &Scaffolds{fsys: sub}
}

// CopyScaffold writes the named skeleton into dest
func (s *Scaffolds) CopyScaffold(name string, dest string) error {
	sub, err := fs.Sub(s.fsys, name)
	if err != nil {
		return fmt.Errorf("scaffold %s: %w", name, err)
	}
	if _, err := fs.Stat(sub, "."); err != nil {
		return fmt.Errorf("scaffold %s not found: %w", name, err)
	}
	if err := os.CopyFS(dest, sub); err != nil {
		return fmt.Errorf("failed to copy scaffold %s: %w", name, err)
	}
	return nil
}

var _ usecase.ScaffoldProvider = (*Scaffolds)(nil)
