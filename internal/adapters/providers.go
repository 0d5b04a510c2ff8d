package adapters

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/trebuchet-org/scgen/internal/adapters/blockchain"
	"github.com/trebuchet-org/scgen/internal/adapters/devnode"
	"github.com/trebuchet-org/scgen/internal/adapters/interactive"
	"github.com/trebuchet-org/scgen/internal/adapters/metrics"
	"github.com/trebuchet-org/scgen/internal/adapters/network"
	"github.com/trebuchet-org/scgen/internal/adapters/process"
	"github.com/trebuchet-org/scgen/internal/adapters/template"
	"github.com/trebuchet-org/scgen/internal/adapters/workspace"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// ProvideRegisterer exposes the application registry to collectors
func ProvideRegisterer(r *metrics.Registry) prometheus.Registerer {
	return r.Registerer()
}

// ProcessSet provides toolchain process execution
var ProcessSet = wire.NewSet(
	process.NewRunner,
	wire.Bind(new(usecase.ProcessRunner), new(*process.Runner)),
	wire.Bind(new(process.RunObserver), new(*metrics.Recorder)),
)

// WorkspaceSet provides scratch directories, archives and the build cache
var WorkspaceSet = wire.NewSet(
	workspace.NewManager,
	wire.Bind(new(usecase.WorkspaceProvider), new(*workspace.Manager)),

	workspace.NewZip,
	wire.Bind(new(usecase.Archiver), new(*workspace.Zip)),

	workspace.NewCache,
	wire.Bind(new(usecase.BuildCache), new(*workspace.Cache)),
)

// TemplateSet provides contract rendering and project scaffolds
var TemplateSet = wire.NewSet(
	template.NewRenderer,
	wire.Bind(new(usecase.TemplateRenderer), new(*template.Renderer)),

	template.NewScaffolds,
	wire.Bind(new(usecase.ScaffoldProvider), new(*template.Scaffolds)),

	template.NewManifest,
	wire.Bind(new(usecase.ManifestEditor), new(*template.Manifest)),
)

// NodeSet provides endpoint probing and local node management
var NodeSet = wire.NewSet(
	network.NewProbe,
	wire.Bind(new(usecase.EndpointProbe), new(*network.Probe)),

	devnode.NewManager,
	wire.Bind(new(usecase.NodeManager), new(*devnode.Manager)),
	wire.Bind(new(usecase.NodeLauncher), new(*devnode.Manager)),
)

// BlockchainSet provides go-ethereum based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewDeployer,
	wire.Bind(new(usecase.EVMClient), new(*blockchain.Deployer)),
)

// MetricsSet provides prometheus collectors
var MetricsSet = wire.NewSet(
	metrics.NewRegistry,
	ProvideRegisterer,
	metrics.NewRecorder,
	wire.Bind(new(usecase.MetricsRecorder), new(*metrics.Recorder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ChainSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ProcessSet,
	WorkspaceSet,
	TemplateSet,
	NodeSet,
	BlockchainSet,
	MetricsSet,
	InteractiveSet,
)
