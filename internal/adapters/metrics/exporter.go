package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/trebuchet-org/scgen/internal/config"
)

// Registry is the process-wide registry the CLI exports from
type Registry struct {
	*prometheus.Registry
	path string
}

// NewRegistry creates an empty registry bound to the configured export path
func NewRegistry(cfg *config.RuntimeConfig) *Registry {
	return &Registry{Registry: prometheus.NewRegistry(), path: cfg.MetricsFile}
}

// Registerer exposes the registry to NewRecorder
func (r *Registry) Registerer() prometheus.Registerer {
	return r.Registry
}

// Export writes the registry in the text exposition format. It is a no-op
// when no metrics file is configured.
func (r *Registry) Export() error {
	if r.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.path, r.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
