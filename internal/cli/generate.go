package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/scgen/internal/cli/render"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var (
		chain  string
		outDir string
	)

	cmd := &cobra.Command{
		Use:     "generate <spec.json>",
		Aliases: []string{"gen"},
		Short:   "Generate contract source from a JSON specification",
		Long: `Render a contract specification into source code for a chain.

EVM specifications produce a single Solidity file named after the contract.
Anchor and Scrypto specifications produce a zip archive of a complete,
buildable project that can be passed straight to 'scgen compile'.

Examples:
  scgen generate escrow.json --chain evm
  scgen generate vault.json --chain anchor -o build/
  scgen generate gumball.json --chain scrypto --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := newPipelineRun(cmd, "generate")
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if failure := run.resolveChain(ctx, chain); failure != nil {
				return run.fail(failure)
			}
			generator, err := run.app.Contracts.GetGenerator(run.chain)
			if err != nil {
				return run.fail(notSupported(err))
			}

			spec, failure := run.input("specification", args[0])
			if failure != nil {
				return run.fail(failure)
			}

			result := generator.Generate(ctx, spec)
			if !result.IsSuccess() {
				return run.fail(result.Failure())
			}
			artifact := result.Value()

			written, err := writeOutput(outDir, artifact.FileName, artifact.Content)
			if err != nil {
				return err
			}

			return render.NewArtifactRenderer(cmd.OutOrStdout(), run.format).RenderGenerated(&render.GeneratedView{
				Chain:       run.chain,
				ContentType: artifact.ContentType,
				File:        written,
			})
		},
	}

	cmd.Flags().StringVarP(&chain, "chain", "c", "", "Target chain (evm, rust, radix or an alias)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory the generated artifact is written to")

	return cmd
}
