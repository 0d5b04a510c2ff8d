package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/scgen/internal/cli/render"
)

// NewCompileCmd creates the compile command
func NewCompileCmd() *cobra.Command {
	var (
		chain  string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "compile <source>",
		Short: "Compile contract source with the chain's toolchain",
		Long: `Compile a Solidity file (evm) or a zipped Anchor/Scrypto project
(rust, radix) and write the bytecode plus its ABI or schema.

Compiler diagnostics are printed verbatim and the command exits with
status 3 so scripts can tell them apart from environment problems (4).

Examples:
  scgen compile Escrow.sol --chain evm -o out/
  scgen compile my_vault_.zip --chain rust
  scgen compile scrypto_gumball.zip --chain radix`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := newPipelineRun(cmd, "compile")
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if failure := run.resolveChain(ctx, chain); failure != nil {
				return run.fail(failure)
			}
			compiler, err := run.app.Contracts.GetCompiler(run.chain)
			if err != nil {
				return run.fail(notSupported(err))
			}

			source, failure := run.input("source", args[0])
			if failure != nil {
				return run.fail(failure)
			}

			result := compiler.Compile(ctx, source)
			if !result.IsSuccess() {
				return run.fail(result.Failure())
			}
			compiled := result.Value()

			view := &render.CompiledView{Chain: run.chain, ContentType: compiled.ContentType}
			if view.Bytecode, err = writeOutput(outDir, compiled.BytecodeName, compiled.Bytecode); err != nil {
				return err
			}
			if compiled.HasSchema() {
				schema, err := writeOutput(outDir, compiled.SchemaName, compiled.Schema)
				if err != nil {
					return err
				}
				view.Schema = &schema
			}

			return render.NewArtifactRenderer(cmd.OutOrStdout(), run.format).RenderCompiled(view)
		},
	}

	cmd.Flags().StringVarP(&chain, "chain", "c", "", "Target chain (evm, rust, radix or an alias)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory the compiled artifacts are written to")

	return cmd
}
