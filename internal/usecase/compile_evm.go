package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// CompileEVM compiles a Solidity source file with solc
type CompileEVM struct {
	tool       config.Tool
	runner     ProcessRunner
	workspaces WorkspaceProvider
	op         operation
}

// NewCompileEVM creates a new Solidity compiler
func NewCompileEVM(cfg *config.RuntimeConfig, runner ProcessRunner, workspaces WorkspaceProvider, metrics MetricsRecorder, progress ProgressSink, log *slog.Logger) *CompileEVM {
	return &CompileEVM{
		tool:       cfg.Toolchain.Solc,
		runner:     runner,
		workspaces: workspaces,
		op:         newOperation(domain.ChainEVM, OpCompile, log.With("component", "CompileEVM"), metrics, progress),
	}
}

// Compile returns the bytecode (.bin) and ABI (.abi) of the contract named
// after the source file, or of the only contract it declares.
func (c *CompileEVM) Compile(ctx context.Context, source *domain.FileHandle) domain.Result[*domain.CompiledArtifact] {
	return guard(ctx, c.op, func(ctx context.Context, log *slog.Logger) domain.Result[*domain.CompiledArtifact] {
		c.op.stage(ctx, StageValidating, "%s", specificationName(source))
		data, err := readFile(source, solidityRule)
		if err != nil {
			return domain.FailWith[*domain.CompiledArtifact](failureFrom(log, "failed to read source", err))
		}

		ws, err := c.workspaces.Acquire("compile-evm")
		if err != nil {
			return domain.FailWith[*domain.CompiledArtifact](infraFailure(log, "failed to create workspace", err))
		}
		defer ws.Release()

		sourcePath := ws.Path(filepath.Base(source.Name))
		if err := os.WriteFile(sourcePath, data, 0644); err != nil {
			return domain.FailWith[*domain.CompiledArtifact](infraFailure(log, "failed to stage source", err))
		}
		outDir := ws.Path("out")

		c.op.stage(ctx, StageCompiling, "solc %s", source.Name)
		if _, f := execTool(ctx, c.runner, log, Command{
			Name:    c.tool.Path,
			Args:    []string{"--abi", "--bin", "--optimize", "-o", outDir, sourcePath},
			Dir:     ws.Dir(),
			Timeout: c.tool.Timeout,
		}); f != nil {
			return domain.FailWith[*domain.CompiledArtifact](f)
		}

		c.op.stage(ctx, StageCollecting, "%s", outDir)
		artifact, err := collectEVMArtifacts(outDir, source.Stem())
		if err != nil {
			return domain.FailWith[*domain.CompiledArtifact](failureFrom(log, "failed to collect artifacts", err))
		}
		return domain.Ok(artifact)
	})
}

func collectEVMArtifacts(outDir, stem string) (*domain.CompiledArtifact, error) {
	bins, err := findFiles(outDir, true, hasExt(".bin"))
	if err != nil {
		return nil, err
	}
	binPath, err := selectArtifact("bytecode", bins, stem)
	if err != nil {
		return nil, err
	}

	contract := fileStem(binPath)
	abiPath := filepath.Join(filepath.Dir(binPath), contract+".abi")
	if info, err := os.Stat(abiPath); err != nil || info.Size() == 0 {
		return nil, fmt.Errorf("%w: no ABI for %s", domain.ErrArtifactNotFound, contract)
	}

	bytecode, abi, err := readArtifacts(binPath, abiPath)
	if err != nil {
		return nil, err
	}

	return &domain.CompiledArtifact{
		Bytecode:     bytecode,
		BytecodeName: contract + ".bin",
		Schema:       abi,
		SchemaName:   contract + ".abi",
		ContentType:  domain.ContentTypeOctet,
	}, nil
}

var _ ContractCompiler = (*CompileEVM)(nil)
