package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/scgen/internal/cli/render"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		chain   string
		abi     string
		schema  string
		keypair string
	)

	cmd := &cobra.Command{
		Use:   "deploy <artifact>",
		Short: "Deploy a compiled contract",
		Long: `Deploy compiled bytecode to the configured chain endpoint.

  evm    <Name>.bin with its ABI (--abi, or <Name>.abi next to the bytecode)
  rust   <program>.so, optionally paid for by --keypair (defaults to solana.keypair_path)
  radix  <package>.wasm with its schema (--schema, or <package>.rpd next to the wasm)

Local nodes (anvil, solana-test-validator) are started on demand when the
configured endpoint is a local address that does not answer.

Examples:
  scgen deploy out/Escrow.bin --chain evm
  scgen deploy my_vault_.so --chain rust --keypair payer.json
  scgen deploy gumball.wasm --chain radix --schema gumball.rpd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := newPipelineRun(cmd, "deploy")
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if failure := run.resolveChain(ctx, chain); failure != nil {
				return run.fail(failure)
			}
			deployer, err := run.app.Contracts.GetDeployer(run.chain)
			if err != nil {
				return run.fail(notSupported(err))
			}

			compiled, failure := run.input("artifact", args[0])
			if failure != nil {
				return run.fail(failure)
			}

			var companion *domain.FileHandle
			if path := companionPath(run.chain, args[0], abi, schema, keypair); path != "" {
				if companion, failure = run.input("companion", path); failure != nil {
					return run.fail(failure)
				}
			}

			result := deployer.Deploy(ctx, compiled, companion)
			if !result.IsSuccess() {
				return run.fail(result.Failure())
			}
			deployment := result.Value()

			view := render.NewDeploymentView(deployment)
			if err := render.NewDeploymentRenderer(cmd.OutOrStdout(), run.format).Render(view); err != nil {
				return err
			}
			if !deployment.Success {
				return &ExitError{Code: ExitReverted}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&chain, "chain", "c", "", "Target chain (evm, rust, radix or an alias)")
	cmd.Flags().StringVar(&abi, "abi", "", "ABI file for an evm deployment")
	cmd.Flags().StringVar(&schema, "schema", "", "Package schema (.rpd) for a radix deployment")
	cmd.Flags().StringVar(&keypair, "keypair", "", "Payer keypair for a rust deployment")
	cmd.MarkFlagsMutuallyExclusive("abi", "schema", "keypair")

	return cmd
}

// companionPath picks the explicit companion file, or the conventional
// sibling of the artifact when one exists.
func companionPath(chain domain.ChainTarget, artifact string, explicit ...string) string {
	for _, path := range explicit {
		if path != "" {
			return path
		}
	}

	var ext string
	switch chain {
	case domain.ChainEVM:
		ext = ".abi"
	case domain.ChainRadix:
		ext = ".rpd"
	default:
		return ""
	}

	sibling := strings.TrimSuffix(artifact, filepath.Ext(artifact)) + ext
	if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
		return sibling
	}
	return ""
}
