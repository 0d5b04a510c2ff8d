package usecase

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/scgen/internal/domain"
	"golang.org/x/sync/errgroup"
)

// cargoInternalDirs hold intermediate copies of build outputs
var cargoInternalDirs = map[string]bool{
	"deps":         true,
	"build":        true,
	"incremental":  true,
	".fingerprint": true,
	"examples":     true,
}

// findFiles lists non-empty regular files under root whose names satisfy
// match, in lexical order.
func findFiles(root string, recursive bool, match func(name string) bool) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if path != root && (!recursive || cargoInternalDirs[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}
		if match(d.Name()) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	found = lo.Filter(found, func(path string, _ int) bool {
		info, err := os.Stat(path)
		return err == nil && info.Mode().IsRegular() && info.Size() > 0
	})
	sort.Strings(found)
	return found, nil
}

func hasExt(ext string) func(string) bool {
	return func(name string) bool {
		return strings.EqualFold(filepath.Ext(name), ext)
	}
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// selectArtifact picks one build output. A candidate whose stem equals
// preferredStem wins; otherwise exactly one candidate must remain.
func selectArtifact(kind string, candidates []string, preferredStem string) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no %s produced", domain.ErrArtifactNotFound, kind)
	}
	if preferredStem != "" {
		if match, ok := lo.Find(candidates, func(path string) bool {
			return strings.EqualFold(fileStem(path), preferredStem)
		}); ok {
			return match, nil
		}
	}
	if len(candidates) > 1 {
		names := lo.Map(candidates, func(path string, _ int) string { return filepath.Base(path) })
		return "", fmt.Errorf("%w: %s candidates %s", domain.ErrAmbiguousArtifact, kind, strings.Join(names, ", "))
	}
	return candidates[0], nil
}

// readArtifacts reads the module and optional schema concurrently. An
// empty schemaPath yields a nil schema.
func readArtifacts(modulePath, schemaPath string) (module, schema []byte, err error) {
	var g errgroup.Group
	g.Go(func() error {
		data, err := os.ReadFile(modulePath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filepath.Base(modulePath), err)
		}
		module = data
		return nil
	})
	if schemaPath != "" {
		g.Go(func() error {
			data, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", filepath.Base(schemaPath), err)
			}
			schema = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if len(module) == 0 {
		return nil, nil, fmt.Errorf("%w: %s is empty", domain.ErrArtifactNotFound, filepath.Base(modulePath))
	}
	return module, schema, nil
}

// findProjectRoot returns the shallowest directory under dir containing
// marker, so archives with or without a top-level folder both work.
func findProjectRoot(dir, marker string) (string, error) {
	queue := []string{dir}
	for depth := 0; depth < 3 && len(queue) > 0; depth++ {
		var next []string
		for _, d := range queue {
			if _, err := os.Stat(filepath.Join(d, marker)); err == nil {
				return d, nil
			}
			entries, err := os.ReadDir(d)
			if err != nil {
				return "", err
			}
			for _, e := range entries {
				if e.IsDir() && !strings.HasPrefix(e.Name(), ".") && e.Name() != "target" {
					next = append(next, filepath.Join(d, e.Name()))
				}
			}
		}
		queue = next
	}
	return "", domain.NewValidationError("source", "archive does not contain %s", marker)
}
