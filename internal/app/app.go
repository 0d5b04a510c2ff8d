package app

import (
	"log/slog"

	"github.com/trebuchet-org/scgen/internal/adapters/metrics"
	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Selector usecase.ChainSelector
	Metrics  *metrics.Registry

	// Use cases
	Contracts *usecase.ContractServiceFactory
	Nodes     *usecase.ManageNodes
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	selector usecase.ChainSelector,
	registry *metrics.Registry,
	contracts *usecase.ContractServiceFactory,
	nodes *usecase.ManageNodes,
) (*App, error) {
	return &App{
		Config:    cfg,
		Log:       log,
		Selector:  selector,
		Metrics:   registry,
		Contracts: contracts,
		Nodes:     nodes,
	}, nil
}
