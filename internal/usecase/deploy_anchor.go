package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// DeployAnchor deploys a program module with the solana CLI
type DeployAnchor struct {
	cfg        config.SolanaConfig
	solana     config.Tool
	keygen     config.Tool
	node       *NodeSpec
	nodes      nodeGuard
	runner     ProcessRunner
	workspaces WorkspaceProvider
	op         operation
}

// NewDeployAnchor creates a new Anchor program deployer
func NewDeployAnchor(
	cfg *config.RuntimeConfig,
	runner ProcessRunner,
	workspaces WorkspaceProvider,
	probe EndpointProbe,
	launcher NodeLauncher,
	metrics MetricsRecorder,
	progress ProgressSink,
	log *slog.Logger,
) *DeployAnchor {
	return &DeployAnchor{
		cfg:        cfg.Solana,
		solana:     cfg.Toolchain.Solana,
		keygen:     cfg.Toolchain.SolanaKeygen,
		node:       nodeSpecFor(cfg, domain.ChainRust),
		nodes:      nodeGuard{probe: probe, launcher: launcher},
		runner:     runner,
		workspaces: workspaces,
		op:         newOperation(domain.ChainRust, OpDeploy, log.With("component", "DeployAnchor"), metrics, progress),
	}
}

// Deploy publishes a .so under a freshly generated program id. The payer
// keypair is the optional companion file, else the configured keypair,
// which is created when missing.
func (d *DeployAnchor) Deploy(ctx context.Context, compiled *domain.FileHandle, payer *domain.FileHandle) domain.Result[*domain.DeploymentResult] {
	return guard(ctx, d.op, func(ctx context.Context, log *slog.Logger) domain.Result[*domain.DeploymentResult] {
		d.op.stage(ctx, StageValidating, "%s", specificationName(compiled))
		if err := validateFile(compiled, programRule); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "invalid program", err))
		}
		if payer != nil {
			if err := validateFile(payer, keypairRule); err != nil {
				return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "invalid keypair", err))
			}
		}
		if err := d.cfg.Validate(); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "invalid configuration", err))
		}

		ws, err := d.workspaces.Acquire("deploy-rust")
		if err != nil {
			return domain.FailWith[*domain.DeploymentResult](infraFailure(log, "failed to create workspace", err))
		}
		defer ws.Release()

		d.op.stage(ctx, StageStaging, "%s", compiled.Name)
		programPath := ws.Path(filepath.Base(compiled.Name))
		if err := stageFile(compiled, programRule, programPath); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "failed to stage program", err))
		}

		payerPath := d.cfg.KeypairPath
		if payer != nil {
			payerPath = ws.Path("payer-keypair.json")
			if err := stageFile(payer, keypairRule, payerPath); err != nil {
				return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "failed to stage keypair", err))
			}
		} else if f := d.ensurePayer(ctx, log); f != nil {
			return domain.FailWith[*domain.DeploymentResult](f)
		}
		if f := d.checkPayer(ctx, log, payerPath, payer != nil); f != nil {
			return domain.FailWith[*domain.DeploymentResult](f)
		}

		endpoint, err := ParseEndpoint(d.cfg.RPCURL)
		if err != nil {
			return domain.FailWith[*domain.DeploymentResult](infraFailure(log, "invalid RPC endpoint", err))
		}
		d.op.stage(ctx, StageNode, "%s", endpoint.Address())
		if _, err := d.nodes.ensure(ctx, log, endpoint, d.node); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "node unreachable", err))
		}

		programKeypair := ws.Path("program-keypair.json")
		if _, f := execTool(ctx, d.runner, log, Command{
			Name:    d.keygen.Path,
			Args:    []string{"new", "-o", programKeypair, "--no-bip39-passphrase", "--force"},
			Dir:     ws.Dir(),
			Timeout: d.keygen.Timeout,
		}); f != nil {
			return domain.FailWith[*domain.DeploymentResult](asInfrastructure(f, "failed to generate program keypair"))
		}

		d.op.stage(ctx, StageDeploying, "%s", compiled.Name)
		res, f := execTool(ctx, d.runner, log, Command{
			Name:    d.solana.Path,
			Args:    []string{"program", "deploy", programPath, "--program-id", programKeypair, "--keypair", payerPath, "--url", d.cfg.RPCURL},
			Dir:     ws.Dir(),
			Timeout: d.solana.Timeout,
		})
		if f != nil {
			return domain.FailWith[*domain.DeploymentResult](f)
		}

		programID := markerValue(res.Stdout, MarkerProgramID)
		if programID == "" {
			log.Error("deploy output has no program id", "stdout", res.Stdout)
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "", domain.ErrMarkerNotFound))
		}

		return domain.Ok(&domain.DeploymentResult{
			Chain:         domain.ChainRust,
			Address:       programID,
			Success:       true,
			TransactionID: markerValue(res.Stdout, MarkerSignature),
		})
	})
}

// ensurePayer creates the configured payer keypair when it does not exist
func (d *DeployAnchor) ensurePayer(ctx context.Context, log *slog.Logger) *domain.Failure {
	if _, err := os.Stat(d.cfg.KeypairPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(d.cfg.KeypairPath), 0700); err != nil {
		return infraFailure(log, "failed to create deployer account", err)
	}

	log.Info("creating deployer keypair", "path", d.cfg.KeypairPath)
	if _, f := execTool(ctx, d.runner, log, Command{
		Name:    d.keygen.Path,
		Args:    []string{"new", "-o", d.cfg.KeypairPath, "--no-bip39-passphrase"},
		Timeout: d.keygen.Timeout,
	}); f != nil {
		return asInfrastructure(f, "failed to create deployer account")
	}
	return nil
}

// checkPayer compares the payer's address with solana.public_key when one
// is configured.
func (d *DeployAnchor) checkPayer(ctx context.Context, log *slog.Logger, payerPath string, uploaded bool) *domain.Failure {
	if d.cfg.PublicKey == "" {
		return nil
	}
	res, f := execTool(ctx, d.runner, log, Command{
		Name:    d.keygen.Path,
		Args:    []string{"pubkey", payerPath},
		Timeout: d.keygen.Timeout,
	})
	if f != nil {
		if uploaded && f.Kind == domain.KindExternalTool {
			return &domain.Failure{Kind: domain.KindValidation, Message: "keypair: " + f.Message}
		}
		return asInfrastructure(f, "failed to read payer address")
	}

	address := strings.TrimSpace(res.Stdout)
	if address == d.cfg.PublicKey {
		return nil
	}
	log.Warn("payer does not match configured public key", "payer", address, "expected", d.cfg.PublicKey)
	if uploaded {
		return failureFrom(log, "", domain.NewValidationError("keypair", "payer %s does not match solana.public_key %s", address, d.cfg.PublicKey))
	}
	return failureFrom(log, "invalid configuration", &domain.ConfigError{
		Chain:  domain.ChainRust,
		Key:    "solana.public_key",
		Reason: fmt.Sprintf("does not match the address %s of %s", address, d.cfg.KeypairPath),
	})
}

// stageFile copies a validated upload into the workspace
func stageFile(f *domain.FileHandle, rule fileRule, dest string) error {
	data, err := readFile(f, rule)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(dest), err)
	}
	return nil
}

// asInfrastructure reclassifies tool diagnostics from account and profile
// setup, which the caller's input cannot fix. Cancellation is kept.
func asInfrastructure(f *domain.Failure, summary string) *domain.Failure {
	if f.Kind == domain.KindCancelled || f.Kind == domain.KindInfrastructure {
		return f
	}
	return &domain.Failure{Kind: domain.KindInfrastructure, Message: fmt.Sprintf("%s: %s", summary, f.Message)}
}

var _ ContractDeployer = (*DeployAnchor)(nil)
