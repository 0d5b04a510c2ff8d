package network

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// Probe checks TCP reachability of chain endpoints
type Probe struct {
	timeout time.Duration
	log     *slog.Logger
}

// NewProbe creates a new reachability probe
func NewProbe(cfg *config.RuntimeConfig, log *slog.Logger) *Probe {
	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Probe{
		timeout: timeout,
		log:     log.With("component", "EndpointProbe"),
	}
}

// Reachable reports whether address (host:port) accepts a TCP connection
// within the probe timeout.
func (p *Probe) Reachable(ctx context.Context, address string) bool {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		p.log.Debug("endpoint unreachable", "address", address, "error", err)
		return false
	}
	_ = conn.Close()
	return true
}

var _ usecase.EndpointProbe = (*Probe)(nil)
