package cli

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/scgen/internal/app"
	"github.com/trebuchet-org/scgen/internal/cli/render"
	"github.com/trebuchet-org/scgen/internal/domain"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// NewNodeCmd creates the node command group
func NewNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage local development nodes",
		Long: `Start, inspect and stop the local nodes used for deployments.

The evm chain runs anvil and the rust chain runs solana-test-validator,
each on the port of its configured RPC URL. Radix deployments use the resim
simulator and need no node. Nodes keep running after the command exits;
their pid and log files live under the data directory.`,
	}

	cmd.AddCommand(newNodeStartCmd())
	cmd.AddCommand(newNodeStatusCmd())
	cmd.AddCommand(newNodeStopCmd())

	return cmd
}

func newNodeStartCmd() *cobra.Command {
	var chains []string

	cmd := &cobra.Command{
		Use:   "start [chain...]",
		Short: "Start local nodes that are not already answering",
		Long: `Start a local node for each selected chain. A chain whose endpoint
already accepts connections is reported and left alone, so the command
is safe to run repeatedly. Without arguments an interactive picker is
shown, or every node chain is started in non-interactive mode.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			selected, err := selectNodeChains(a, append(chains, args...), "Select nodes to start", true)
			if err != nil {
				return err
			}
			reports, err := a.Nodes.Start(cmd.Context(), selected)
			if err != nil {
				return wrapContextError(cmd.Context(), err)
			}
			return render.NewNodesRenderer(cmd.OutOrStdout(), outputFormat(a)).Render("start", reports)
		},
	}

	cmd.Flags().StringSliceVarP(&chains, "chain", "c", nil, "Chains to start (repeatable)")
	return cmd
}

func newNodeStatusCmd() *cobra.Command {
	var chains []string

	cmd := &cobra.Command{
		Use:   "status [chain...]",
		Short: "Show local node status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			selected, err := parseChains(append(chains, args...), domain.AllChains())
			if err != nil {
				return err
			}
			reports, err := a.Nodes.Status(cmd.Context(), selected)
			if err != nil {
				return wrapContextError(cmd.Context(), err)
			}
			return render.NewNodesRenderer(cmd.OutOrStdout(), outputFormat(a)).Render("status", reports)
		},
	}

	cmd.Flags().StringSliceVarP(&chains, "chain", "c", nil, "Chains to inspect (repeatable)")
	return cmd
}

func newNodeStopCmd() *cobra.Command {
	var chains []string

	cmd := &cobra.Command{
		Use:   "stop [chain...]",
		Short: "Stop local nodes started by scgen",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			selected, err := selectNodeChains(a, append(chains, args...), "Select nodes to stop", false)
			if err != nil {
				return err
			}
			reports, err := a.Nodes.Stop(cmd.Context(), selected)
			if err != nil {
				return wrapContextError(cmd.Context(), err)
			}
			return render.NewNodesRenderer(cmd.OutOrStdout(), outputFormat(a)).Render("stop", reports)
		},
	}

	cmd.Flags().StringSliceVarP(&chains, "chain", "c", nil, "Chains to stop (repeatable)")
	return cmd
}

// selectNodeChains resolves named chains, or asks when none were named
func selectNodeChains(a *app.App, names []string, title string, prompt bool) ([]domain.ChainTarget, error) {
	if len(names) > 0 || !prompt || a.Config.NonInteractive {
		return parseChains(names, usecase.NodeChains())
	}
	return SelectChains(usecase.NodeChains(), title)
}

// parseChains resolves names, deduplicated in order. No names selects all.
func parseChains(names []string, all []domain.ChainTarget) ([]domain.ChainTarget, error) {
	if len(names) == 0 {
		return all, nil
	}
	chains := make([]domain.ChainTarget, 0, len(names))
	for _, name := range names {
		chain, err := domain.ParseChain(name)
		if err != nil {
			return nil, err
		}
		chains = append(chains, chain)
	}
	return lo.Uniq(chains), nil
}

func wrapContextError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return &ExitError{Code: ExitCancelled, Err: fmt.Errorf("cancelled: %w", err)}
	}
	return err
}
