package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/scgen/internal/adapters/blockchain"
	"github.com/trebuchet-org/scgen/internal/domain"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

const (
	evmAddress = "127.0.0.1:8545"
	solAddress = "127.0.0.1:8899"
	testABI    = `[{"type":"function","name":"release","inputs":[],"outputs":[]}]`
)

type evmDeployFixture struct {
	h        *harness
	probe    *MockProbe
	launcher *MockLauncher
	client   *MockEVMClient
}

func newEVMDeployFixture(t *testing.T) *evmDeployFixture {
	f := &evmDeployFixture{
		h:        newHarness(t),
		probe:    new(MockProbe),
		launcher: new(MockLauncher),
		client:   new(MockEVMClient),
	}
	f.client.On("Prepare", mock.Anything).Return(nil).Maybe()
	t.Cleanup(func() {
		f.probe.AssertExpectations(t)
		f.launcher.AssertExpectations(t)
		f.client.AssertExpectations(t)
	})
	return f
}

func (f *evmDeployFixture) deployer() *usecase.DeployEVM {
	return usecase.NewDeployEVM(f.h.cfg, f.probe, f.launcher, f.client, nil, nil, f.h.log)
}

func (f *evmDeployFixture) deploy() domain.Result[*domain.DeploymentResult] {
	return f.deployer().Deploy(context.Background(),
		domain.NewFileFromBytes("Token.bin", []byte("0x6080")),
		domain.NewFileFromBytes("Token.abi", []byte(testABI)))
}

func TestDeployEVM(t *testing.T) {
	t.Run("deploys to a reachable node", func(t *testing.T) {
		f := newEVMDeployFixture(t)
		f.probe.On("Reachable", mock.Anything, evmAddress).Return(true).Once()
		f.client.On("DeployContract", mock.Anything, mock.MatchedBy(func(req usecase.EVMDeployRequest) bool {
			return req.RPCURL == f.h.cfg.EVM.RPCURL &&
				req.PrivateKey == testPrivateKey &&
				req.GasLimit == 3_000_000 &&
				string(req.Bytecode) == "0x6080" &&
				string(req.ABI) == testABI
		})).Return(&domain.DeploymentResult{
			Chain:         domain.ChainEVM,
			Address:       "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			Success:       true,
			TransactionID: "0xabc",
		}, nil).Once()

		result := f.deploy()
		require.True(t, result.IsSuccess(), "unexpected failure: %v", result.Failure())
		assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", result.Value().Address)
		assert.True(t, result.Value().Success)
		f.launcher.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
	})

	t.Run("reverted creation is not an error", func(t *testing.T) {
		f := newEVMDeployFixture(t)
		f.probe.On("Reachable", mock.Anything, evmAddress).Return(true).Once()
		f.client.On("DeployContract", mock.Anything, mock.Anything).Return(&domain.DeploymentResult{
			Chain:         domain.ChainEVM,
			Success:       false,
			TransactionID: "0xdead",
		}, nil).Once()

		result := f.deploy()
		require.True(t, result.IsSuccess())
		assert.False(t, result.Value().Success)
		assert.Equal(t, "0xdead", result.Value().TransactionID)
	})

	t.Run("starts a local node when the endpoint is down", func(t *testing.T) {
		f := newEVMDeployFixture(t)
		f.probe.On("Reachable", mock.Anything, evmAddress).Return(false).Once()
		f.launcher.On("Start", mock.Anything, mock.MatchedBy(func(spec usecase.NodeSpec) bool {
			return spec.Chain == domain.ChainEVM && spec.Command == "anvil" && spec.Port == 8545
		})).Return(&usecase.NodeInfo{Chain: domain.ChainEVM, PID: 42, Port: 8545}, nil).Once()
		f.probe.On("Reachable", mock.Anything, evmAddress).Return(true).Once()
		f.client.On("DeployContract", mock.Anything, mock.Anything).
			Return(&domain.DeploymentResult{Chain: domain.ChainEVM, Address: "0x01", Success: true}, nil).Once()

		result := f.deploy()
		require.True(t, result.IsSuccess(), "unexpected failure: %v", result.Failure())
	})

	t.Run("fails when no node can be started", func(t *testing.T) {
		f := newEVMDeployFixture(t)
		f.probe.On("Reachable", mock.Anything, evmAddress).Return(false).Twice()
		f.launcher.On("Start", mock.Anything, mock.Anything).Return(nil, errors.New("exec: \"anvil\": executable file not found in $PATH")).Once()

		result := f.deploy()
		assert.Equal(t, domain.KindInfrastructure, result.Kind())
		assert.Equal(t, domain.ErrNodeUnreachable.Error(), result.Failure().Message)
		f.client.AssertNotCalled(t, "DeployContract", mock.Anything, mock.Anything)
	})

	t.Run("never starts a node for a remote endpoint", func(t *testing.T) {
		f := newEVMDeployFixture(t)
		f.h.cfg.EVM.RPCURL = "https://rpc.example.org"
		f.probe.On("Reachable", mock.Anything, "rpc.example.org:443").Return(false).Once()

		result := f.deploy()
		assert.Equal(t, domain.KindInfrastructure, result.Kind())
		f.launcher.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
	})

	t.Run("client errors are infrastructure failures", func(t *testing.T) {
		f := newEVMDeployFixture(t)
		f.probe.On("Reachable", mock.Anything, evmAddress).Return(true).Once()
		f.client.On("DeployContract", mock.Anything, mock.Anything).Return(nil, errors.New("insufficient funds for gas")).Once()

		result := f.deploy()
		assert.Equal(t, domain.KindInfrastructure, result.Kind())
		assert.Equal(t, "deployment failed: insufficient funds for gas", result.Failure().Message)
	})

	t.Run("bad configuration is reported before touching the network", func(t *testing.T) {
		f := newEVMDeployFixture(t)
		f.h.cfg.EVM.PrivateKey = "not-a-key"

		result := f.deploy()
		assert.Equal(t, domain.KindInfrastructure, result.Kind())
		assert.Contains(t, result.Failure().Message, "evm.private_key")
		f.probe.AssertNotCalled(t, "Reachable", mock.Anything, mock.Anything)
	})

	t.Run("requires the abi", func(t *testing.T) {
		f := newEVMDeployFixture(t)

		result := f.deployer().Deploy(context.Background(), domain.NewFileFromBytes("Token.bin", []byte("6080")), nil)
		assert.Equal(t, domain.KindValidation, result.Kind())
		assert.Contains(t, result.Failure().Message, "abi")
	})

	t.Run("rejects source files", func(t *testing.T) {
		f := newEVMDeployFixture(t)

		result := f.deployer().Deploy(context.Background(),
			domain.NewFileFromBytes("Token.sol", []byte(tokenSource)),
			domain.NewFileFromBytes("Token.abi", []byte(testABI)))
		assert.Equal(t, domain.KindValidation, result.Kind())
	})
}

func TestDeployEVMRejectsMalformedContracts(t *testing.T) {
	tests := []struct {
		name     string
		bytecode string
		abi      string
		message  string
	}{
		{name: "malformed abi", bytecode: "0x6080", abi: `{"type":`, message: "abi: invalid contract ABI"},
		{name: "non-hex bytecode", bytecode: "0x60zz", abi: testABI, message: "bytecode: bytecode is not valid hex"},
		{name: "constructor with arguments", bytecode: "0x6080", abi: `[{"type":"constructor","inputs":[{"name":"supply","type":"uint256"}]}]`, message: "abi: constructor takes 1 arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			probe := new(MockProbe)
			launcher := new(MockLauncher)
			deployer := usecase.NewDeployEVM(h.cfg, probe, launcher, blockchain.NewDeployer(h.log), nil, nil, h.log)

			result := deployer.Deploy(context.Background(),
				domain.NewFileFromBytes("Token.bin", []byte(tt.bytecode)),
				domain.NewFileFromBytes("Token.abi", []byte(tt.abi)))

			assert.Equal(t, domain.KindValidation, result.Kind())
			assert.Contains(t, result.Failure().Message, tt.message)
			probe.AssertNotCalled(t, "Reachable", mock.Anything, mock.Anything)
			launcher.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
		})
	}
}

// solanaTools installs fake solana-keygen and solana binaries. deployOut is
// printed by "solana program deploy".
func (h *harness) solanaTools(t *testing.T, deployOut string, argsFile string) {
	h.tool(t, "solana-keygen", `if [ "$1" = pubkey ]; then
  [ -f "$2" ] || { echo "Error: No such file or directory" >&2; exit 1; }
  echo "`+testSolanaKey+`"
  exit 0
fi
[ "$1" = new ] || exit 9
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; fi
  shift
done
mkdir -p "$(dirname "$out")"
printf '[1,2,3]' > "$out"
echo "Wrote new keypair to $out"`)
	outFile := filepath.Join(t.TempDir(), "deploy.out")
	require.NoError(t, os.WriteFile(outFile, []byte(deployOut+"\n"), 0644))
	h.tool(t, "solana", fmt.Sprintf("echo \"$@\" > %q\ncat %q", argsFile, outFile))
}

func TestDeployAnchor(t *testing.T) {
	ctx := context.Background()
	program := func() *domain.FileHandle { return domain.NewFileFromBytes("my_vault_.so", []byte("ELF")) }

	newDeployer := func(h *harness, probe *MockProbe) *usecase.DeployAnchor {
		return usecase.NewDeployAnchor(h.cfg, h.runner, h.workspaces, probe, new(MockLauncher), nil, nil, h.log)
	}

	t.Run("returns the program id and signature", func(t *testing.T) {
		h := newHarness(t)
		argsFile := filepath.Join(t.TempDir(), "args")
		h.solanaTools(t, "Program Id: 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin\n\nSignature: 5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnb", argsFile)
		probe := new(MockProbe)
		probe.On("Reachable", mock.Anything, solAddress).Return(true).Once()

		result := newDeployer(h, probe).Deploy(ctx, program(), nil)
		require.True(t, result.IsSuccess(), "unexpected failure: %v", result.Failure())
		assert.Equal(t, &domain.DeploymentResult{
			Chain:         domain.ChainRust,
			Address:       "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
			Success:       true,
			TransactionID: "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnb",
		}, result.Value())

		// the configured payer was created and used
		assert.FileExists(t, h.cfg.Solana.KeypairPath)
		args, err := os.ReadFile(argsFile)
		require.NoError(t, err)
		assert.Contains(t, string(args), "program deploy")
		assert.Contains(t, string(args), "--keypair "+h.cfg.Solana.KeypairPath)
		assert.Contains(t, string(args), "--url "+h.cfg.Solana.RPCURL)
		h.requireNoWorkspaces(t)
		probe.AssertExpectations(t)
	})

	t.Run("uses an uploaded payer keypair", func(t *testing.T) {
		h := newHarness(t)
		argsFile := filepath.Join(t.TempDir(), "args")
		h.solanaTools(t, "Program Id: 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", argsFile)
		probe := new(MockProbe)
		probe.On("Reachable", mock.Anything, solAddress).Return(true).Once()

		result := newDeployer(h, probe).Deploy(ctx, program(), domain.NewFileFromBytes("payer.json", []byte("[9,9,9]")))
		require.True(t, result.IsSuccess(), "unexpected failure: %v", result.Failure())
		assert.Empty(t, result.Value().TransactionID)
		assert.NoFileExists(t, h.cfg.Solana.KeypairPath)

		args, err := os.ReadFile(argsFile)
		require.NoError(t, err)
		assert.Contains(t, string(args), "payer-keypair.json")
	})

	t.Run("payer must match the configured public key", func(t *testing.T) {
		h := newHarness(t)
		h.solanaTools(t, "Program Id: 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", filepath.Join(t.TempDir(), "args"))
		h.cfg.Solana.PublicKey = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

		result := newDeployer(h, new(MockProbe)).Deploy(ctx, program(), nil)
		assert.Equal(t, domain.KindInfrastructure, result.Kind())
		assert.Contains(t, result.Failure().Message, "solana.public_key")

		uploaded := newDeployer(h, new(MockProbe)).Deploy(ctx, program(), domain.NewFileFromBytes("payer.json", []byte("[9,9,9]")))
		assert.Equal(t, domain.KindValidation, uploaded.Kind())
		assert.Contains(t, uploaded.Failure().Message, "does not match solana.public_key")
		h.requireNoWorkspaces(t)
	})

	t.Run("public key check is skipped when unset", func(t *testing.T) {
		h := newHarness(t)
		h.solanaTools(t, "Program Id: 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", filepath.Join(t.TempDir(), "args"))
		h.tool(t, "solana-keygen", `[ "$1" = pubkey ] && exit 7
printf '[1,2,3]' > "$3"`)
		h.cfg.Solana.PublicKey = ""
		probe := new(MockProbe)
		probe.On("Reachable", mock.Anything, solAddress).Return(true).Once()

		result := newDeployer(h, probe).Deploy(ctx, program(), nil)
		require.True(t, result.IsSuccess(), "unexpected failure: %v", result.Failure())
	})

	t.Run("missing program id marker", func(t *testing.T) {
		h := newHarness(t)
		h.solanaTools(t, "Deploy complete", filepath.Join(t.TempDir(), "args"))
		probe := new(MockProbe)
		probe.On("Reachable", mock.Anything, solAddress).Return(true).Once()

		result := newDeployer(h, probe).Deploy(ctx, program(), nil)
		assert.Equal(t, domain.KindInfrastructure, result.Kind())
		assert.Equal(t, domain.ErrMarkerNotFound.Error(), result.Failure().Message)
	})

	t.Run("deploy diagnostics are returned verbatim", func(t *testing.T) {
		h := newHarness(t)
		h.solanaTools(t, "", filepath.Join(t.TempDir(), "args"))
		h.tool(t, "solana", `echo "Error: Account has insufficient funds for spend" >&2; exit 1`)
		probe := new(MockProbe)
		probe.On("Reachable", mock.Anything, solAddress).Return(true).Once()

		result := newDeployer(h, probe).Deploy(ctx, program(), nil)
		assert.Equal(t, domain.KindExternalTool, result.Kind())
		assert.Equal(t, "Error: Account has insufficient funds for spend", result.Failure().Message)
		h.requireNoWorkspaces(t)
	})

	t.Run("unreachable validator", func(t *testing.T) {
		h := newHarness(t)
		h.solanaTools(t, "", filepath.Join(t.TempDir(), "args"))
		probe := new(MockProbe)
		probe.On("Reachable", mock.Anything, solAddress).Return(false).Once()

		result := newDeployer(h, probe).Deploy(ctx, program(), nil)
		assert.Equal(t, domain.KindInfrastructure, result.Kind())
		assert.Equal(t, domain.ErrNodeUnreachable.Error(), result.Failure().Message)
	})

	t.Run("rejects a wasm module", func(t *testing.T) {
		h := newHarness(t)

		result := newDeployer(h, new(MockProbe)).Deploy(ctx, domain.NewFileFromBytes("pkg.wasm", []byte("x")), nil)
		assert.Equal(t, domain.KindValidation, result.Kind())
	})
}

// resimTool installs a fake resim keeping its account under $DATA_DIR
func (h *harness) resimTool(t *testing.T, publishOut string) {
	h.tool(t, "resim", fmt.Sprintf(`case "$1" in
show)
  [ -f "$DATA_DIR/account" ] || { echo "Error: no default account configured" >&2; exit 1; }
  echo "Component Address: account_sim1default" ;;
new-account)
  touch "$DATA_DIR/account"
  echo "A new account has been created!" ;;
publish)
  [ -f "${2%%.wasm}.rpd" ] || { echo "Error: missing package definition" >&2; exit 1; }
  printf '%%s\n' %q ;;
*)
  exit 9 ;;
esac`, publishOut))
}

func TestDeployRadix(t *testing.T) {
	ctx := context.Background()
	wasm := func() *domain.FileHandle { return domain.NewFileFromBytes("my_vault.wasm", []byte("\x00asm")) }
	rpd := func() *domain.FileHandle { return domain.NewFileFromBytes("schema.rpd", []byte("rpd")) }

	newDeployer := func(h *harness) *usecase.DeployRadix {
		return usecase.NewDeployRadix(h.cfg, h.runner, h.workspaces, nil, nil, h.log)
	}

	t.Run("creates an account and publishes", func(t *testing.T) {
		h := newHarness(t)
		h.resimTool(t, "Success! New Package: package_sim1pkgaddress")

		result := newDeployer(h).Deploy(ctx, wasm(), rpd())
		require.True(t, result.IsSuccess(), "unexpected failure: %v", result.Failure())
		assert.Equal(t, &domain.DeploymentResult{
			Chain:   domain.ChainRadix,
			Address: "package_sim1pkgaddress",
			Success: true,
		}, result.Value())
		assert.FileExists(t, filepath.Join(h.cfg.DataDir, "radix", "default", "account"))
		h.requireNoWorkspaces(t)
	})

	t.Run("profiles keep separate ledgers", func(t *testing.T) {
		h := newHarness(t)
		h.resimTool(t, "Success! New Package: package_sim1pkgaddress")
		h.cfg.Radix.Profile = "staging"

		result := newDeployer(h).Deploy(ctx, wasm(), rpd())
		require.True(t, result.IsSuccess(), "unexpected failure: %v", result.Failure())
		assert.FileExists(t, filepath.Join(h.cfg.DataDir, "radix", "staging", "account"))
		assert.NoDirExists(t, filepath.Join(h.cfg.DataDir, "radix", "default"))
	})

	t.Run("missing account without auto funding", func(t *testing.T) {
		h := newHarness(t)
		h.resimTool(t, "Success! New Package: package_sim1pkgaddress")
		h.cfg.Radix.AutoFund = false

		result := newDeployer(h).Deploy(ctx, wasm(), rpd())
		assert.Equal(t, domain.KindInfrastructure, result.Kind())
		assert.Contains(t, result.Failure().Message, "auto funding is disabled")
	})

	t.Run("missing package address", func(t *testing.T) {
		h := newHarness(t)
		h.resimTool(t, "Transaction committed")

		result := newDeployer(h).Deploy(ctx, wasm(), rpd())
		assert.Equal(t, domain.KindInfrastructure, result.Kind())
		assert.Equal(t, domain.ErrMarkerNotFound.Error(), result.Failure().Message)
	})

	t.Run("simulator is required", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.Radix.UseSimulator = false

		result := newDeployer(h).Deploy(ctx, wasm(), rpd())
		assert.Equal(t, domain.KindInfrastructure, result.Kind())
		assert.Contains(t, result.Failure().Message, "radix.use_simulator")
	})

	validation := []struct {
		name    string
		module  *domain.FileHandle
		schema  *domain.FileHandle
		message string
	}{
		{name: "missing schema", module: wasm(), schema: nil, message: "schema"},
		{name: "wrong module extension", module: domain.NewFileFromBytes("my_vault.so", []byte("x")), schema: rpd(), message: "package"},
		{name: "wrong schema extension", module: wasm(), schema: domain.NewFileFromBytes("schema.json", []byte("{}")), message: "schema"},
		{name: "empty module", module: domain.NewFileFromBytes("my_vault.wasm", nil), schema: rpd(), message: "empty"},
	}
	for _, tt := range validation {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			result := newDeployer(h).Deploy(ctx, tt.module, tt.schema)
			assert.Equal(t, domain.KindValidation, result.Kind())
			assert.True(t, strings.Contains(result.Failure().Message, tt.message), result.Failure().Message)
			h.requireNoWorkspaces(t)
		})
	}
}
