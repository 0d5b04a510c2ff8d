package blockchain

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/scgen/internal/domain"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// Deployer submits contract creation transactions over JSON-RPC
type Deployer struct {
	log *slog.Logger
}

// NewDeployer creates a new EVM deployer
func NewDeployer(log *slog.Logger) *Deployer {
	return &Deployer{log: log.With("component", "EVMClient")}
}

// Prepare checks the ABI and bytecode without touching the network.
// Problems are reported as *domain.ValidationError.
func (d *Deployer) Prepare(req usecase.EVMDeployRequest) error {
	if _, err := parseABI(req.ABI); err != nil {
		return err
	}
	_, err := decodeBytecode(req.Bytecode)
	return err
}

// DeployContract signs and sends a creation transaction, then waits for its
// receipt. A mined but reverted creation is reported with Success=false.
func (d *Deployer) DeployContract(ctx context.Context, req usecase.EVMDeployRequest) (*domain.DeploymentResult, error) {
	parsedABI, err := parseABI(req.ABI)
	if err != nil {
		return nil, err
	}
	bytecode, err := decodeBytecode(req.Bytecode)
	if err != nil {
		return nil, err
	}
	key, err := parsePrivateKey(req.PrivateKey)
	if err != nil {
		return nil, err
	}

	client, err := ethclient.DialContext(ctx, req.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	opts.GasLimit = req.GasLimit

	d.log.Debug("sending creation transaction",
		"chain_id", chainID,
		"from", opts.From.Hex(),
		"gas_limit", req.GasLimit,
		"bytecode_size", len(bytecode))

	address, tx, _, err := bind.DeployContract(opts, parsedABI, bytecode, client)
	if err != nil {
		return nil, fmt.Errorf("failed to send creation transaction: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for receipt of %s: %w", tx.Hash().Hex(), err)
	}

	success := receipt.Status == types.ReceiptStatusSuccessful
	if receipt.ContractAddress != (common.Address{}) {
		address = receipt.ContractAddress
	}

	d.log.Info("creation transaction mined",
		"tx", tx.Hash().Hex(),
		"address", address.Hex(),
		"block", receipt.BlockNumber,
		"status", receipt.Status)

	return &domain.DeploymentResult{
		Chain:         domain.ChainEVM,
		Address:       address.Hex(),
		Success:       success,
		TransactionID: tx.Hash().Hex(),
	}, nil
}

func parseABI(data []byte) (abi.ABI, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		// A contract without an ABI file can still be created
		return abi.ABI{}, nil
	}
	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return abi.ABI{}, domain.NewValidationError("abi", "invalid contract ABI: %v", err)
	}
	if len(parsed.Constructor.Inputs) > 0 {
		return abi.ABI{}, domain.NewValidationError("abi", "constructor takes %d arguments, only argument-free constructors can be deployed", len(parsed.Constructor.Inputs))
	}
	return parsed, nil
}

// decodeBytecode accepts solc .bin output, which is hex text with or
// without a 0x prefix.
func decodeBytecode(data []byte) ([]byte, error) {
	text := strings.TrimSpace(string(data))
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	if text == "" {
		return nil, domain.NewValidationError("bytecode", "bytecode is empty")
	}
	if len(text)%2 != 0 {
		return nil, domain.NewValidationError("bytecode", "bytecode has odd length")
	}
	if strings.Contains(text, "__") {
		return nil, domain.NewValidationError("bytecode", "bytecode contains unlinked library placeholders")
	}
	if !isHex(text) {
		return nil, domain.NewValidationError("bytecode", "bytecode is not valid hex")
	}
	return common.FromHex(text), nil
}

func parsePrivateKey(value string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(value), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

var _ usecase.EVMClient = (*Deployer)(nil)
