package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// Endpoint is a parsed chain RPC address
type Endpoint struct {
	URL  string
	Host string
	Port int
}

// Address returns host:port for dialing
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Local reports whether a node for this endpoint could be started here
func (e Endpoint) Local() bool {
	if e.Host == "localhost" {
		return true
	}
	ip := net.ParseIP(e.Host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}

// ParseEndpoint extracts host and port from an RPC URL, defaulting the
// port from the scheme.
func ParseEndpoint(rawURL string) (Endpoint, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid RPC URL %q: %w", rawURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return Endpoint{}, fmt.Errorf("invalid RPC URL %q: missing host", rawURL)
	}

	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return Endpoint{}, fmt.Errorf("invalid RPC URL %q: bad port", rawURL)
		}
	}
	return Endpoint{URL: rawURL, Host: host, Port: port}, nil
}

// nodeSpecFor describes the local node that can serve chain, or returns
// nil when automatic starts are disabled or the chain has no node.
func nodeSpecFor(cfg *config.RuntimeConfig, chain domain.ChainTarget) *NodeSpec {
	switch chain {
	case domain.ChainEVM:
		if !cfg.EVM.AutoStartNode || cfg.EVM.NodeCommand == "" {
			return nil
		}
		return &NodeSpec{Chain: chain, Command: cfg.EVM.NodeCommand, Settle: cfg.EVM.NodeSettle}
	case domain.ChainRust:
		if !cfg.Solana.UseLocalValidator || cfg.Solana.ValidatorCommand == "" {
			return nil
		}
		return &NodeSpec{
			Chain:     chain,
			Command:   cfg.Solana.ValidatorCommand,
			Settle:    cfg.Solana.NodeSettle,
			LedgerDir: filepath.Join(cfg.DataDir, "solana-ledger"),
		}
	default:
		return nil
	}
}

// rpcURLFor returns the configured RPC URL of chain, empty for the simulator
func rpcURLFor(cfg *config.RuntimeConfig, chain domain.ChainTarget) string {
	switch chain {
	case domain.ChainEVM:
		return cfg.EVM.RPCURL
	case domain.ChainRust:
		return cfg.Solana.RPCURL
	default:
		return ""
	}
}

// nodeGuard makes sure an endpoint answers before anything is submitted to it
type nodeGuard struct {
	probe    EndpointProbe
	launcher NodeLauncher
}

// ensure probes the endpoint and, when spec is set and the endpoint is
// local, starts a node once and probes again. Starting is best effort:
// another caller may have started the node in the meantime, which the
// second probe accepts.
func (n nodeGuard) ensure(ctx context.Context, log *slog.Logger, endpoint Endpoint, spec *NodeSpec) (*NodeInfo, error) {
	addr := endpoint.Address()
	if n.probe.Reachable(ctx, addr) {
		return nil, nil
	}
	if spec == nil || !endpoint.Local() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeUnreachable, addr)
	}

	nodeSpec := *spec
	nodeSpec.Port = endpoint.Port
	log.Info("endpoint unreachable, starting local node", "address", addr, "command", nodeSpec.Command)

	info, err := n.launcher.Start(ctx, nodeSpec)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		log.Warn("local node failed to start", "command", nodeSpec.Command, "error", err)
	}

	if !n.probe.Reachable(ctx, addr) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeUnreachable, addr)
	}
	return info, nil
}
