package usecase_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/scgen/internal/adapters/process"
	tmpl "github.com/trebuchet-org/scgen/internal/adapters/template"
	"github.com/trebuchet-org/scgen/internal/adapters/workspace"
	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// testSolanaKey is the system program id, a valid base58 public key
const testSolanaKey = "11111111111111111111111111111111"

const testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// harness wires real adapters over temporary directories. Toolchains are
// shell scripts written into binDir.
type harness struct {
	cfg        *config.RuntimeConfig
	log        *slog.Logger
	runner     *process.Runner
	workspaces *workspace.Manager
	archiver   *workspace.Zip
	cache      *workspace.Cache
	renderer   *tmpl.Renderer
	scaffolds  *tmpl.Scaffolds
	manifests  *tmpl.Manifest
	binDir     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()

	cfg := &config.RuntimeConfig{
		DataDir:       filepath.Join(root, "data"),
		WorkspaceRoot: filepath.Join(root, "workspaces"),
		ProbeTimeout:  200 * time.Millisecond,
		Toolchain: config.ToolchainConfig{
			DefaultTimeout: 30 * time.Second,
		},
		EVM: config.EVMConfig{
			RPCURL:        "http://127.0.0.1:8545",
			PrivateKey:    testPrivateKey,
			GasLimit:      3_000_000,
			NodeCommand:   "anvil",
			AutoStartNode: true,
		},
		Solana: config.SolanaConfig{
			RPCURL:      "http://127.0.0.1:8899",
			PublicKey:   testSolanaKey,
			KeypairPath: filepath.Join(root, "solana", "id.json"),
		},
		Radix: config.RadixConfig{
			UseSimulator: true,
			Profile:      "default",
			AutoFund:     true,
		},
	}
	require.NoError(t, os.MkdirAll(cfg.WorkspaceRoot, 0755))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := tmpl.NewRenderer(cfg, log)
	require.NoError(t, err)

	h := &harness{
		cfg:        cfg,
		log:        log,
		runner:     process.NewRunner(cfg, log, nil),
		workspaces: workspace.NewManager(cfg, log),
		archiver:   workspace.NewZip(),
		cache:      workspace.NewCache(cfg, log),
		renderer:   renderer,
		scaffolds:  tmpl.NewScaffolds(),
		manifests:  tmpl.NewManifest(),
		binDir:     filepath.Join(root, "bin"),
	}
	require.NoError(t, os.MkdirAll(h.binDir, 0755))

	h.cfg.Toolchain.Solc = config.Tool{Path: filepath.Join(h.binDir, "solc")}
	h.cfg.Toolchain.Anchor = config.Tool{Path: filepath.Join(h.binDir, "anchor")}
	h.cfg.Toolchain.Scrypto = config.Tool{Path: filepath.Join(h.binDir, "scrypto")}
	h.cfg.Toolchain.Solana = config.Tool{Path: filepath.Join(h.binDir, "solana")}
	h.cfg.Toolchain.SolanaKeygen = config.Tool{Path: filepath.Join(h.binDir, "solana-keygen")}
	h.cfg.Toolchain.Resim = config.Tool{Path: filepath.Join(h.binDir, "resim")}
	return h
}

// tool installs a fake toolchain binary
func (h *harness) tool(t *testing.T, name, body string) {
	t.Helper()
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(h.binDir, name), []byte(script), 0755))
}

// requireNoWorkspaces asserts every workspace was released
func (h *harness) requireNoWorkspaces(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(h.cfg.WorkspaceRoot)
	require.NoError(t, err)
	require.Empty(t, entries, "workspace directories left behind")
}

// packDir zips a directory tree built from files
func (h *harness) packDir(t *testing.T, name string, files map[string]string) *domain.FileHandle {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	data, err := h.archiver.Pack(dir)
	require.NoError(t, err)
	return domain.NewFileFromBytes(name, data)
}

// unzip returns the text content of every file in an archive
func unzip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		files[f.Name] = string(content)
	}
	return files
}

// unreadableFile declares a size but fails the test if it is ever opened
func unreadableFile(t *testing.T, name string, size int64) *domain.FileHandle {
	return domain.NewFileFromReader(name, size, func() (io.ReadCloser, error) {
		t.Errorf("%s must not be read", name)
		return io.NopCloser(bytes.NewReader(nil)), nil
	})
}

// MockProbe is a mock implementation of EndpointProbe
type MockProbe struct {
	mock.Mock
}

func (m *MockProbe) Reachable(ctx context.Context, address string) bool {
	return m.Called(ctx, address).Bool(0)
}

// MockLauncher is a mock implementation of NodeLauncher
type MockLauncher struct {
	mock.Mock
}

func (m *MockLauncher) Start(ctx context.Context, spec usecase.NodeSpec) (*usecase.NodeInfo, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.NodeInfo), args.Error(1)
}

// MockEVMClient is a mock implementation of EVMClient
type MockEVMClient struct {
	mock.Mock
}

func (m *MockEVMClient) Prepare(req usecase.EVMDeployRequest) error {
	return m.Called(req).Error(0)
}

func (m *MockEVMClient) DeployContract(ctx context.Context, req usecase.EVMDeployRequest) (*domain.DeploymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeploymentResult), args.Error(1)
}

// recordingMetrics captures operation outcomes
type recordingMetrics struct {
	outcomes []string
}

func (r *recordingMetrics) ObserveOperation(chain domain.ChainTarget, operation, outcome string, duration time.Duration) {
	r.outcomes = append(r.outcomes, string(chain)+"/"+operation+"/"+outcome)
}
