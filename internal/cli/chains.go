package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/scgen/internal/cli/render"
	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// NewChainsCmd creates the chains command
func NewChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List supported chains, their aliases and toolchains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			chains := lo.Map(a.Contracts.Chains(), func(chain domain.ChainTarget, _ int) render.ChainView {
				return render.ChainView{
					Chain:     chain,
					Name:      chain.DisplayName(),
					Aliases:   chainAliases(chain),
					Toolchain: toolchainFor(a.Config, chain),
				}
			})
			return render.NewChainsRenderer(cmd.OutOrStdout(), outputFormat(a)).Render(chains)
		},
	}
}

func chainAliases(chain domain.ChainTarget) []string {
	return lo.Filter(domain.ChainAliases(), func(name string, _ int) bool {
		target, err := domain.ParseChain(name)
		return err == nil && target == chain && name != string(chain)
	})
}

func toolchainFor(cfg *config.RuntimeConfig, chain domain.ChainTarget) []string {
	tc := cfg.Toolchain
	switch chain {
	case domain.ChainEVM:
		return []string{tc.Solc.Path, cfg.EVM.NodeCommand}
	case domain.ChainRust:
		return []string{tc.Anchor.Path, tc.Solana.Path, tc.SolanaKeygen.Path, cfg.Solana.ValidatorCommand}
	case domain.ChainRadix:
		return []string{tc.Scrypto.Path, tc.Resim.Path}
	default:
		return nil
	}
}
