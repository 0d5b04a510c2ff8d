package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// DeployEVM submits a contract creation to the configured EVM endpoint
type DeployEVM struct {
	cfg    config.EVMConfig
	node   *NodeSpec
	nodes  nodeGuard
	client EVMClient
	op     operation
}

// NewDeployEVM creates a new EVM deployer
func NewDeployEVM(cfg *config.RuntimeConfig, probe EndpointProbe, launcher NodeLauncher, client EVMClient, metrics MetricsRecorder, progress ProgressSink, log *slog.Logger) *DeployEVM {
	return &DeployEVM{
		cfg:    cfg.EVM,
		node:   nodeSpecFor(cfg, domain.ChainEVM),
		nodes:  nodeGuard{probe: probe, launcher: launcher},
		client: client,
		op:     newOperation(domain.ChainEVM, OpDeploy, log.With("component", "DeployEVM"), metrics, progress),
	}
}

// Deploy sends bytecode (.bin) with its ABI. Success reflects the receipt
// status, so a reverted creation is returned with Success=false.
func (d *DeployEVM) Deploy(ctx context.Context, compiled *domain.FileHandle, abi *domain.FileHandle) domain.Result[*domain.DeploymentResult] {
	return guard(ctx, d.op, func(ctx context.Context, log *slog.Logger) domain.Result[*domain.DeploymentResult] {
		d.op.stage(ctx, StageValidating, "%s", specificationName(compiled))
		if err := validateFile(compiled, evmBytecodeRule); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "invalid bytecode", err))
		}
		if err := validateFile(abi, evmABIRule); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "invalid ABI", err))
		}
		if err := d.cfg.Validate(); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "invalid configuration", err))
		}

		bytecode, err := readFile(compiled, evmBytecodeRule)
		if err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "failed to read bytecode", err))
		}
		abiJSON, err := readFile(abi, evmABIRule)
		if err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "failed to read ABI", err))
		}

		req := EVMDeployRequest{
			RPCURL:     d.cfg.RPCURL,
			PrivateKey: d.cfg.PrivateKey,
			GasLimit:   d.cfg.GasLimit,
			ABI:        abiJSON,
			Bytecode:   bytecode,
		}
		if err := d.client.Prepare(req); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "invalid contract", err))
		}

		endpoint, err := ParseEndpoint(d.cfg.RPCURL)
		if err != nil {
			return domain.FailWith[*domain.DeploymentResult](infraFailure(log, "invalid RPC endpoint", err))
		}
		d.op.stage(ctx, StageNode, "%s", endpoint.Address())
		if _, err := d.nodes.ensure(ctx, log, endpoint, d.node); err != nil {
			return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "node unreachable", err))
		}

		d.op.stage(ctx, StageDeploying, "%s", compiled.Name)
		result, err := d.client.DeployContract(ctx, req)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return domain.FailWith[*domain.DeploymentResult](failureFrom(log, "operation cancelled", err))
			}
			log.Error("deployment transaction failed", "error", err)
			return domain.Failf[*domain.DeploymentResult](domain.KindInfrastructure, "deployment failed: %v", err)
		}

		if !result.Success {
			log.Warn("creation transaction reverted", "tx", result.TransactionID)
		}
		return domain.Ok(result)
	})
}

var _ ContractDeployer = (*DeployEVM)(nil)
