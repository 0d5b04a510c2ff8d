package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// schemaExtensions are tried, in order, next to the selected wasm module
var schemaExtensions = []string{".rpd", ".schema", ".json"}

// CompileRadix builds a packaged Scrypto package with scrypto build
type CompileRadix struct {
	tool       config.Tool
	runner     ProcessRunner
	workspaces WorkspaceProvider
	archiver   Archiver
	op         operation
}

// NewCompileRadix creates a new Scrypto compiler
func NewCompileRadix(cfg *config.RuntimeConfig, runner ProcessRunner, workspaces WorkspaceProvider, archiver Archiver, metrics MetricsRecorder, progress ProgressSink, log *slog.Logger) *CompileRadix {
	return &CompileRadix{
		tool:       cfg.Toolchain.Scrypto,
		runner:     runner,
		workspaces: workspaces,
		archiver:   archiver,
		op:         newOperation(domain.ChainRadix, OpCompile, log.With("component", "CompileRadix"), metrics, progress),
	}
}

// Compile returns the package wasm and its package definition schema
func (c *CompileRadix) Compile(ctx context.Context, source *domain.FileHandle) domain.Result[*domain.CompiledArtifact] {
	return guard(ctx, c.op, func(ctx context.Context, log *slog.Logger) domain.Result[*domain.CompiledArtifact] {
		c.op.stage(ctx, StageValidating, "%s", specificationName(source))
		if err := validateFile(source, projectRule); err != nil {
			return domain.FailWith[*domain.CompiledArtifact](failureFrom(log, "invalid source", err))
		}

		ws, err := c.workspaces.Acquire("compile-radix")
		if err != nil {
			return domain.FailWith[*domain.CompiledArtifact](infraFailure(log, "failed to create workspace", err))
		}
		defer ws.Release()

		c.op.stage(ctx, StageStaging, "%s", source.Name)
		if err := c.archiver.Extract(source, ws.Dir()); err != nil {
			return domain.FailWith[*domain.CompiledArtifact](failureFrom(log, "failed to extract package", err))
		}
		root, err := findProjectRoot(ws.Dir(), "Cargo.toml")
		if err != nil {
			return domain.FailWith[*domain.CompiledArtifact](failureFrom(log, "failed to locate package", err))
		}

		c.op.stage(ctx, StageCompiling, "scrypto build")
		if _, f := execTool(ctx, c.runner, log, Command{
			Name:    c.tool.Path,
			Args:    []string{"build"},
			Dir:     root,
			Timeout: c.tool.Timeout,
		}); f != nil {
			return domain.FailWith[*domain.CompiledArtifact](f)
		}

		c.op.stage(ctx, StageCollecting, "target")
		artifact, err := collectRadixArtifacts(root, source.Stem())
		if err != nil {
			return domain.FailWith[*domain.CompiledArtifact](failureFrom(log, "failed to collect artifacts", err))
		}
		return domain.Ok(artifact)
	})
}

func collectRadixArtifacts(root, stem string) (*domain.CompiledArtifact, error) {
	wasms, err := findFiles(root, true, hasExt(".wasm"))
	if err != nil {
		return nil, err
	}

	// Prefer the plain module over the *_with_schema variant
	primary := lo.Filter(wasms, func(path string, _ int) bool {
		return !strings.Contains(fileStem(path), "_with_schema")
	})
	if len(primary) == 0 {
		primary = wasms
	}
	wasmPath, err := selectArtifact("wasm module", primary, stem)
	if err != nil {
		return nil, err
	}

	schemaPath, err := findSchema(wasmPath)
	if err != nil {
		return nil, err
	}

	module, schema, err := readArtifacts(wasmPath, schemaPath)
	if err != nil {
		return nil, err
	}

	artifact := &domain.CompiledArtifact{
		Bytecode:     module,
		BytecodeName: filepath.Base(wasmPath),
		Schema:       schema,
		ContentType:  domain.ContentTypeWasm,
	}
	if schemaPath != "" {
		artifact.SchemaName = filepath.Base(schemaPath)
	}
	return artifact, nil
}

// findSchema looks for <stem>.rpd, <stem>.schema or <stem>.json beside the
// module, then for a single schema-like file in the same directory. It
// returns "" when there is none and an error when the fallback is ambiguous.
func findSchema(wasmPath string) (string, error) {
	dir := filepath.Dir(wasmPath)
	stem := fileStem(wasmPath)

	for _, ext := range schemaExtensions {
		matches, err := findFiles(dir, false, func(name string) bool { return name == stem+ext })
		if err != nil {
			return "", err
		}
		if len(matches) == 1 {
			return matches[0], nil
		}
	}

	fallback, err := findFiles(dir, false, func(name string) bool {
		lower := strings.ToLower(name)
		ext := filepath.Ext(lower)
		return ext == ".rpd" || ext == ".schema" || (ext == ".json" && strings.Contains(lower, "schema"))
	})
	if err != nil {
		return "", err
	}
	switch len(fallback) {
	case 0:
		return "", nil
	case 1:
		return fallback[0], nil
	default:
		names := lo.Map(fallback, func(path string, _ int) string { return filepath.Base(path) })
		return "", fmt.Errorf("%w: schema candidates %s", domain.ErrAmbiguousArtifact, strings.Join(names, ", "))
	}
}

var _ ContractCompiler = (*CompileRadix)(nil)
