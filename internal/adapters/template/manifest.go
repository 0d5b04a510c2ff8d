package template

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// anchorWallet is the default keypair Anchor projects reference
const anchorWallet = "~/.config/solana/id.json"

// Manifest rewrites Cargo.toml and Anchor.toml documents
type Manifest struct{}

// NewManifest creates a new manifest editor
func NewManifest() *Manifest {
	return &Manifest{}
}

// SetCargoPackage rewrites the package name, lib name and dependencies of a Cargo.toml
func (m *Manifest) SetCargoPackage(path string, edit usecase.CargoEdit) error {
	doc, err := readTOML(path)
	if err != nil {
		return err
	}

	if edit.PackageName != "" {
		table(doc, "package")["name"] = edit.PackageName
	}
	if edit.LibName != "" {
		table(doc, "lib")["name"] = edit.LibName
	}
	if len(edit.Dependencies) > 0 {
		deps := table(doc, "dependencies")
		for name, spec := range edit.Dependencies {
			deps[name] = spec
		}
	}

	return writeTOML(path, doc)
}

// SetAnchorProgram points [programs.localnet] at a single program and pins the provider
func (m *Manifest) SetAnchorProgram(path string, program string, programID string) error {
	doc, err := readTOML(path)
	if err != nil {
		return err
	}

	table(doc, "programs")["localnet"] = map[string]any{program: programID}

	provider := table(doc, "provider")
	provider["cluster"] = "localnet"
	provider["wallet"] = anchorWallet

	return writeTOML(path, doc)
}

func readTOML(path string) (map[string]any, error) {
	doc := make(map[string]any)
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

func writeTOML(path string, doc map[string]any) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// table returns doc[key] as a table, creating or replacing it when needed
func table(doc map[string]any, key string) map[string]any {
	if t, ok := doc[key].(map[string]any); ok {
		return t
	}
	t := make(map[string]any)
	doc[key] = t
	return t
}

var _ usecase.ManifestEditor = (*Manifest)(nil)
