package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/scgen/internal/domain"
)

type cliHarness struct {
	dir    string
	config string
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "scgen.toml")
	content := fmt.Sprintf(`data_dir = %q

[workspace]
root = %q
`, filepath.Join(dir, "data"), filepath.Join(dir, "ws"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ws"), 0755))
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0644))
	return &cliHarness{dir: dir, config: cfg}
}

func (h *cliHarness) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (h *cliHarness) run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	args = append(args, "--config", h.config)
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersionCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "scgen version")
}

func TestGenerateCommand(t *testing.T) {
	t.Run("writes the rendered source", func(t *testing.T) {
		h := newCLIHarness(t)
		spec := h.write(t, "escrow.json", `{"name": "Escrow"}`)
		out := filepath.Join(h.dir, "out")

		code, stdout, stderr := h.run("generate", spec, "--chain", "solidity", "-o", out)

		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "Escrow.sol")
		content, err := os.ReadFile(filepath.Join(out, "Escrow.sol"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "contract Escrow")
	})

	t.Run("json output", func(t *testing.T) {
		h := newCLIHarness(t)
		spec := h.write(t, "escrow.json", `{"name": "Escrow"}`)

		code, stdout, _ := h.run("generate", spec, "--chain", "evm", "-o", filepath.Join(h.dir, "out"), "--json")

		require.Equal(t, 0, code)
		var env struct {
			Success   bool   `json:"success"`
			Operation string `json:"operation"`
			Chain     string `json:"chain"`
			Data      struct {
				ContentType string `json:"contentType"`
				File        struct {
					Name string `json:"name"`
				} `json:"file"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &env))
		assert.True(t, env.Success)
		assert.Equal(t, "generate", env.Operation)
		assert.Equal(t, "evm", env.Chain)
		assert.Equal(t, "Escrow.sol", env.Data.File.Name)
		assert.Equal(t, domain.ContentTypeText, env.Data.ContentType)
	})

	t.Run("malformed specification", func(t *testing.T) {
		h := newCLIHarness(t)
		spec := h.write(t, "broken.json", `{"name": `)

		code, stdout, stderr := h.run("generate", spec, "--chain", "evm", "-o", filepath.Join(h.dir, "out"))

		assert.Equal(t, ExitBadInput, code)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "generate failed")
		assert.NoFileExists(t, filepath.Join(h.dir, "out", "Contract.sol"))
	})

	t.Run("missing input file", func(t *testing.T) {
		h := newCLIHarness(t)

		code, _, stderr := h.run("generate", filepath.Join(h.dir, "nope.json"), "--chain", "evm")

		assert.Equal(t, ExitBadInput, code)
		assert.Contains(t, stderr, "Specification: failed to stat")
	})
}

func TestChainResolution(t *testing.T) {
	t.Run("unknown chain suggests aliases", func(t *testing.T) {
		h := newCLIHarness(t)
		spec := h.write(t, "escrow.json", `{"name": "Escrow"}`)

		code, _, stderr := h.run("generate", spec, "--chain", "solan")

		assert.Equal(t, ExitBadInput, code)
		assert.Contains(t, stderr, `Chain "solan" not supported`)
		assert.Contains(t, stderr, "did you mean solana")
	})

	t.Run("missing chain without a terminal", func(t *testing.T) {
		h := newCLIHarness(t)
		spec := h.write(t, "escrow.json", `{"name": "Escrow"}`)

		code, _, stderr := h.run("generate", spec, "--non-interactive")

		assert.Equal(t, ExitBadInput, code)
		assert.Contains(t, stderr, "--chain is required in non-interactive mode")
	})
}

func TestCompileValidationFailure(t *testing.T) {
	h := newCLIHarness(t)
	source := h.write(t, "Escrow.txt", "contract Escrow {}")

	code, stdout, _ := h.run("compile", source, "--chain", "evm", "--output", "json")

	assert.Equal(t, ExitBadInput, code)
	var env struct {
		Success bool `json:"success"`
		Error   struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "validation", env.Error.Kind)
	assert.Contains(t, env.Error.Message, `unsupported file extension ".txt"`)
}

func TestInvalidOutputFormat(t *testing.T) {
	h := newCLIHarness(t)

	code, _, stderr := h.run("chains", "--output", "xml")

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, `unsupported output format "xml"`)
}

func TestChainsCommand(t *testing.T) {
	h := newCLIHarness(t)

	code, stdout, _ := h.run("chains", "--output", "json")

	require.Equal(t, 0, code)
	var env struct {
		Data []struct {
			Chain   string   `json:"chain"`
			Aliases []string `json:"aliases"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &env))
	require.Len(t, env.Data, 3)
	assert.Equal(t, "evm", env.Data[0].Chain)
	assert.ElementsMatch(t, []string{"eth", "ethereum", "solidity"}, env.Data[0].Aliases)
	assert.Equal(t, "radix", env.Data[2].Chain)
	assert.Equal(t, []string{"scrypto"}, env.Data[2].Aliases)
}

func TestCompanionPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "Escrow.bin")
	wasm := filepath.Join(dir, "gumball.wasm")
	for _, name := range []string{"Escrow.abi", "gumball.rpd"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	assert.Equal(t, filepath.Join(dir, "Escrow.abi"), companionPath(domain.ChainEVM, bin))
	assert.Equal(t, filepath.Join(dir, "gumball.rpd"), companionPath(domain.ChainRadix, wasm))
	assert.Equal(t, "custom.abi", companionPath(domain.ChainEVM, bin, "custom.abi", "", ""))
	assert.Empty(t, companionPath(domain.ChainRust, filepath.Join(dir, "prog.so")))
	assert.Empty(t, companionPath(domain.ChainEVM, filepath.Join(dir, "Other.bin")))
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		kind domain.ErrorKind
		want int
	}{
		{domain.KindValidation, ExitBadInput},
		{domain.KindNotSupported, ExitBadInput},
		{domain.KindExternalTool, ExitToolFailure},
		{domain.KindInfrastructure, ExitInfrastructure},
		{domain.KindCancelled, ExitCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.kind))
		})
	}

	var stderr bytes.Buffer
	assert.Equal(t, 0, exitCode(nil, &stderr))
	assert.Equal(t, ExitReverted, exitCode(&ExitError{Code: ExitReverted}, &stderr))
	assert.Empty(t, stderr.String())
	assert.Equal(t, ExitFailure, exitCode(fmt.Errorf("boom"), &stderr))
	assert.Equal(t, "Error: boom\n", stderr.String())
}

func TestParseChains(t *testing.T) {
	chains, err := parseChains([]string{"anvil"}, domain.AllChains())
	assert.Nil(t, chains)
	assert.Error(t, err)

	chains, err = parseChains([]string{"eth", "evm", "solana"}, domain.AllChains())
	require.NoError(t, err)
	assert.Equal(t, []domain.ChainTarget{domain.ChainEVM, domain.ChainRust}, chains)

	chains, err = parseChains(nil, domain.AllChains())
	require.NoError(t, err)
	assert.Equal(t, domain.AllChains(), chains)
}
