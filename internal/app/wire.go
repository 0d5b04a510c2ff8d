//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/scgen/internal/adapters"
	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/logging"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewGenerateEVM,
		usecase.NewCompileEVM,
		usecase.NewDeployEVM,
		usecase.NewGenerateAnchor,
		usecase.NewCompileAnchor,
		usecase.NewDeployAnchor,
		usecase.NewGenerateRadix,
		usecase.NewCompileRadix,
		usecase.NewDeployRadix,
		usecase.NewContractServiceFactory,
		usecase.NewManageNodes,

		// App
		NewApp,
	)
	return nil, nil
}
