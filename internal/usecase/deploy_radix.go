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

// DeployRadix publishes a Scrypto package to the resim simulator
type DeployRadix struct {
	cfg        config.RadixConfig
	resim      config.Tool
	dataDir    string
	runner     ProcessRunner
	workspaces WorkspaceProvider
	op         operation
}

// NewDeployRadix creates a new Scrypto package deployer
func NewDeployRadix(cfg *config.RuntimeConfig, runner ProcessRunner, workspaces WorkspaceProvider, metrics MetricsRecorder, progress ProgressSink, log *slog.Logger) *DeployRadix {
	return &DeployRadix{
		cfg:        cfg.Radix,
		resim:      cfg.Toolchain.Resim,
		dataDir:    filepath.Join(cfg.DataDir, "radix"),
		runner:     runner,
		workspaces: workspaces,
		op:         newOperation(domain.ChainRadix, OpDeploy, log.With("component", "DeployRadix"), metrics, progress),
	}
}

// Deploy publishes a .wasm together with its .rpd package definition and
// returns the new package address. Package publishes have no transaction id.
func (d *DeployRadix) Deploy(ctx context.Context, compiled *domain.FileHandle, schema *domain.FileHandle) domain.Result[*domain.DeploymentResult] {
	return guard(ctx, d.op, func(ctx context.Context, log *slog.Logger) domain.Result[*domain.DeploymentResult] {
		d.op.stage(ctx, StageValidating, "%s", specificationName(compiled))
		if err := validateFile(compiled, wasmRule); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "invalid package", err))
		}
		if err := validateFile(schema, rpdRule); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "invalid schema", err))
		}
		if err := d.cfg.Validate(); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "invalid configuration", err))
		}

		ws, err := d.workspaces.Acquire("deploy-radix")
		if err != nil {
			return domain.FailWith[*domain.DeploymentResult](infraFailure(log, "failed to create workspace", err))
		}
		defer ws.Release()

		// resim expects the definition beside the module under the same stem
		d.op.stage(ctx, StageStaging, "%s", compiled.Name)
		stem := compiled.Stem()
		wasmPath := ws.Path(stem + ".wasm")
		if err := stageFile(compiled, wasmRule, wasmPath); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "failed to stage package", err))
		}
		if err := stageFile(schema, rpdRule, ws.Path(stem+".rpd")); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "failed to stage schema", err))
		}

		env, err := d.profileEnv()
		if err != nil {
			return domain.FailWith[*domain.DeploymentResult](infraFailure(log, "failed to prepare simulator profile", err))
		}

		d.op.stage(ctx, StageNode, "profile %s", d.cfg.Profile)
		if f := d.ensureAccount(ctx, log, ws.Dir(), env); f != nil {
			return domain.FailWith[*domain.DeploymentResult](f)
		}

		d.op.stage(ctx, StageDeploying, "%s", compiled.Name)
		res, f := execTool(ctx, d.runner, log, Command{
			Name:    d.resim.Path,
			Args:    []string{"publish", wasmPath},
			Dir:     ws.Dir(),
			Env:     env,
			Timeout: d.resim.Timeout,
		})
		if f != nil {
			return domain.FailWith[*domain.DeploymentResult](f)
		}

		address := markerValue(res.Stdout, MarkerNewPackage)
		if address == "" {
			log.Error("publish output has no package address", "stdout", res.Stdout)
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "", domain.ErrMarkerNotFound))
		}

		return domain.Ok(&domain.DeploymentResult{
			Chain:   domain.ChainRadix,
			Address: address,
			Success: true,
		})
	})
}

// profileEnv points resim at the per-profile simulator ledger
func (d *DeployRadix) profileEnv() ([]string, error) {
	dir := filepath.Join(d.dataDir, d.cfg.Profile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return []string{"DATA_DIR=" + dir}, nil
}

// ensureAccount checks the profile has a default account, creating one
// when auto funding is enabled. New simulator accounts are pre-funded.
func (d *DeployRadix) ensureAccount(ctx context.Context, log *slog.Logger, dir string, env []string) *domain.Failure {
	args := []string{"show"}
	if d.cfg.AccountAddress != "" {
		args = append(args, d.cfg.AccountAddress)
	}

	res, err := d.runner.Run(ctx, Command{Name: d.resim.Path, Args: args, Dir: dir, Env: env, Timeout: d.resim.Timeout})
	if err != nil {
		return failureFrom(log, "failed to launch resim", err)
	}
	if res.Success {
		return nil
	}
	if res.Cancelled {
		return toolFailure(log, "resim", res)
	}
	if !d.cfg.AutoFund {
		log.Error("simulator account missing", "profile", d.cfg.Profile, "stderr", res.Stderr)
		return &domain.Failure{
			Kind:    domain.KindInfrastructure,
			Message: fmt.Sprintf("no simulator account for profile %q and auto funding is disabled", d.cfg.Profile),
		}
	}

	log.Info("creating simulator account", "profile", d.cfg.Profile)
	if _, f := execTool(ctx, d.runner, log, Command{
		Name:    d.resim.Path,
		Args:    []string{"new-account"},
		Dir:     dir,
		Env:     env,
		Timeout: d.resim.Timeout,
	}); f != nil {
		return asInfrastructure(f, "failed to create simulator account")
	}
	return nil
}

var _ ContractDeployer = (*DeployRadix)(nil)
