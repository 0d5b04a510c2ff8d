package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// ManageNodes starts, inspects and stops local development nodes
type ManageNodes struct {
	cfg      *config.RuntimeConfig
	probe    EndpointProbe
	nodes    NodeManager
	progress ProgressSink
	log      *slog.Logger
}

// NewManageNodes creates a new node management use case
func NewManageNodes(cfg *config.RuntimeConfig, probe EndpointProbe, nodes NodeManager, progress ProgressSink, log *slog.Logger) *ManageNodes {
	if progress == nil {
		progress = NopProgress{}
	}
	return &ManageNodes{
		cfg:      cfg,
		probe:    probe,
		nodes:    nodes,
		progress: progress,
		log:      log.With("component", "ManageNodes"),
	}
}

// NodeReport describes one chain's local node
type NodeReport struct {
	Chain     domain.ChainTarget `json:"chain" yaml:"chain"`
	Endpoint  string             `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Reachable bool               `json:"reachable" yaml:"reachable"`
	Started   bool               `json:"started" yaml:"started"`
	Tracked   bool               `json:"tracked" yaml:"tracked"`
	PID       int                `json:"pid,omitempty" yaml:"pid,omitempty"`
	LogFile   string             `json:"logFile,omitempty" yaml:"logFile,omitempty"`
	Message   string             `json:"message,omitempty" yaml:"message,omitempty"`
}

// NodeChains lists the chains that run a node
func NodeChains() []domain.ChainTarget {
	return []domain.ChainTarget{domain.ChainEVM, domain.ChainRust}
}

// Start brings up a node for each chain whose endpoint is not answering.
// Reachable endpoints are reported and never restarted.
func (m *ManageNodes) Start(ctx context.Context, chains []domain.ChainTarget) ([]*NodeReport, error) {
	reports := make([]*NodeReport, 0, len(chains))
	for _, chain := range chains {
		report, err := m.start(ctx, chain)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (m *ManageNodes) start(ctx context.Context, chain domain.ChainTarget) (*NodeReport, error) {
	report, endpoint, err := m.inspect(ctx, chain)
	if err != nil || report.Reachable || endpoint == nil {
		return report, err
	}
	if !endpoint.Local() {
		report.Message = "remote endpoint is unreachable"
		return report, nil
	}

	spec := nodeSpecFor(m.cfg, chain)
	if spec == nil {
		spec = m.manualSpec(chain)
	}
	spec.Port = endpoint.Port

	m.progress.OnProgress(ctx, ProgressEvent{Stage: StageNode, Chain: chain, Message: spec.Command, Spinner: true})
	info, err := m.nodes.Start(ctx, *spec)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m.log.Warn("failed to start node", "chain", chain, "error", err)
		report.Message = err.Error()
		return report, nil
	}

	report.Started = true
	report.Tracked = true
	report.PID = info.PID
	report.LogFile = info.LogFile
	report.Reachable = m.probe.Reachable(ctx, endpoint.Address())
	if !report.Reachable {
		report.Message = fmt.Sprintf("started but not answering yet, see %s", info.LogFile)
	}
	return report, nil
}

// Status probes each chain's endpoint and reads its tracked node
func (m *ManageNodes) Status(ctx context.Context, chains []domain.ChainTarget) ([]*NodeReport, error) {
	reports := make([]*NodeReport, 0, len(chains))
	for _, chain := range chains {
		report, _, err := m.inspect(ctx, chain)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Stop terminates tracked nodes
func (m *ManageNodes) Stop(ctx context.Context, chains []domain.ChainTarget) ([]*NodeReport, error) {
	reports := make([]*NodeReport, 0, len(chains))
	for _, chain := range chains {
		if chain == domain.ChainRadix {
			reports = append(reports, simulatorReport())
			continue
		}
		if err := m.nodes.Stop(ctx, chain); err != nil {
			return reports, fmt.Errorf("failed to stop %s node: %w", chain, err)
		}
		reports = append(reports, &NodeReport{Chain: chain, Message: "stopped"})
	}
	return reports, nil
}

func (m *ManageNodes) inspect(ctx context.Context, chain domain.ChainTarget) (*NodeReport, *Endpoint, error) {
	if chain == domain.ChainRadix {
		return simulatorReport(), nil, nil
	}

	endpoint, err := ParseEndpoint(rpcURLFor(m.cfg, chain))
	if err != nil {
		return nil, nil, err
	}
	report := &NodeReport{
		Chain:     chain,
		Endpoint:  endpoint.URL,
		Reachable: m.probe.Reachable(ctx, endpoint.Address()),
	}

	status, err := m.nodes.Status(ctx, chain)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s node status: %w", chain, err)
	}
	if status.Running {
		report.Tracked = true
		report.PID = status.PID
		report.LogFile = status.LogFile
	}
	return report, &endpoint, nil
}

// manualSpec is used when automatic starts are disabled but the user asked
// for a node explicitly.
func (m *ManageNodes) manualSpec(chain domain.ChainTarget) *NodeSpec {
	enabled := *m.cfg
	enabled.EVM.AutoStartNode = true
	enabled.Solana.UseLocalValidator = true
	if enabled.EVM.NodeCommand == "" {
		enabled.EVM.NodeCommand = "anvil"
	}
	if enabled.Solana.ValidatorCommand == "" {
		enabled.Solana.ValidatorCommand = "solana-test-validator"
	}
	return nodeSpecFor(&enabled, chain)
}

func simulatorReport() *NodeReport {
	return &NodeReport{
		Chain:     domain.ChainRadix,
		Reachable: true,
		Message:   "resim simulator runs in-process, no node required",
	}
}
