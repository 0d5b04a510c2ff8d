package usecase

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// anchorCacheEntry names the shared cargo target directory in the build cache
const anchorCacheEntry = "anchor-target"

// CompileAnchor builds a packaged Anchor workspace with anchor build
type CompileAnchor struct {
	tool       config.Tool
	useCache   bool
	runner     ProcessRunner
	workspaces WorkspaceProvider
	archiver   Archiver
	cache      BuildCache
	op         operation
}

// NewCompileAnchor creates a new Anchor compiler
func NewCompileAnchor(
	cfg *config.RuntimeConfig,
	runner ProcessRunner,
	workspaces WorkspaceProvider,
	archiver Archiver,
	cache BuildCache,
	metrics MetricsRecorder,
	progress ProgressSink,
	log *slog.Logger,
) *CompileAnchor {
	return &CompileAnchor{
		tool:       cfg.Toolchain.Anchor,
		useCache:   cfg.Toolchain.AnchorBuildCache,
		runner:     runner,
		workspaces: workspaces,
		archiver:   archiver,
		cache:      cache,
		op:         newOperation(domain.ChainRust, OpCompile, log.With("component", "CompileAnchor"), metrics, progress),
	}
}

// Compile returns the program module (.so) and, when anchor emitted one,
// its IDL.
func (c *CompileAnchor) Compile(ctx context.Context, source *domain.FileHandle) domain.Result[*domain.CompiledArtifact] {
	return guard(ctx, c.op, func(ctx context.Context, log *slog.Logger) domain.Result[*domain.CompiledArtifact] {
		c.op.stage(ctx, StageValidating, "%s", specificationName(source))
		if err := validateFile(source, projectRule); err != nil {
			return domain.FailWith[*domain.CompiledArtifact](failureFrom(log, "invalid source", err))
		}

		ws, err := c.workspaces.Acquire("compile-rust")
		if err != nil {
			return domain.FailWith[*domain.CompiledArtifact](infraFailure(log, "failed to create workspace", err))
		}
		defer ws.Release()

		c.op.stage(ctx, StageStaging, "%s", source.Name)
		if err := c.archiver.Extract(source, ws.Dir()); err != nil {
			return domain.FailWith[*domain.CompiledArtifact](failureFrom(log, "failed to extract project", err))
		}
		root, err := findProjectRoot(ws.Dir(), "Anchor.toml")
		if err != nil {
			return domain.FailWith[*domain.CompiledArtifact](failureFrom(log, "failed to locate project", err))
		}
		target := filepath.Join(root, "target")

		if c.useCache {
			if restored, err := c.cache.Restore(anchorCacheEntry, target); err != nil {
				log.Warn("could not restore build cache, building from scratch", "error", err)
			} else if restored {
				log.Debug("reusing cached build artifacts")
				// outputs of other programs must not be collected
				for _, dir := range []string{"deploy", "idl"} {
					if err := os.RemoveAll(filepath.Join(target, dir)); err != nil {
						return domain.FailWith[*domain.CompiledArtifact](infraFailure(log, "failed to prepare build directory", err))
					}
				}
			}
		}

		c.op.stage(ctx, StageCompiling, "anchor build")
		if _, f := execTool(ctx, c.runner, log, Command{
			Name:    c.tool.Path,
			Args:    []string{"build"},
			Dir:     root,
			Env:     c.buildEnv(),
			Timeout: c.tool.Timeout,
		}); f != nil {
			return domain.FailWith[*domain.CompiledArtifact](f)
		}

		if c.useCache {
			if err := c.cache.Save(anchorCacheEntry, target); err != nil {
				log.Warn("could not update build cache", "error", err)
			}
		}

		c.op.stage(ctx, StageCollecting, "target/deploy")
		artifact, err := collectAnchorArtifacts(target, source.Stem())
		if err != nil {
			return domain.FailWith[*domain.CompiledArtifact](failureFrom(log, "failed to collect artifacts", err))
		}
		return domain.Ok(artifact)
	})
}

// buildEnv routes rustc through sccache when it is installed
func (c *CompileAnchor) buildEnv() []string {
	if _, err := c.runner.LookPath("sccache"); err == nil {
		return []string{"RUSTC_WRAPPER=sccache"}
	}
	return []string{"CARGO_INCREMENTAL=1"}
}

func collectAnchorArtifacts(target, stem string) (*domain.CompiledArtifact, error) {
	modules, err := findFiles(filepath.Join(target, "deploy"), false, hasExt(".so"))
	if err != nil {
		return nil, err
	}
	modulePath, err := selectArtifact("program module", modules, stem)
	if err != nil {
		return nil, err
	}

	program := fileStem(modulePath)
	idls, err := findFiles(filepath.Join(target, "idl"), false, func(name string) bool {
		return name == program+".json"
	})
	if err != nil {
		return nil, err
	}
	var idlPath string
	if len(idls) == 1 {
		idlPath = idls[0]
	}

	module, idl, err := readArtifacts(modulePath, idlPath)
	if err != nil {
		return nil, err
	}

	artifact := &domain.CompiledArtifact{
		Bytecode:     module,
		BytecodeName: program + ".so",
		Schema:       idl,
		ContentType:  domain.ContentTypeOctet,
	}
	if idl != nil {
		artifact.SchemaName = program + ".json"
	}
	return artifact, nil
}

var _ ContractCompiler = (*CompileAnchor)(nil)
