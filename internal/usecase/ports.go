package usecase

import (
	"context"
	"time"

	"github.com/trebuchet-org/scgen/internal/domain"
)

// Chain operation contracts. Every method reports through domain.Result and
// never returns a bare error.

// ContractGenerator renders a contract specification into source or a project archive
type ContractGenerator interface {
	Generate(ctx context.Context, specification *domain.FileHandle) domain.Result[*domain.GeneratedArtifact]
}

// ContractCompiler turns source or a packaged project into deployable artifacts
type ContractCompiler interface {
	Compile(ctx context.Context, source *domain.FileHandle) domain.Result[*domain.CompiledArtifact]
}

// ContractDeployer submits compiled artifacts to a chain
type ContractDeployer interface {
	Deploy(ctx context.Context, compiled *domain.FileHandle, companion *domain.FileHandle) domain.Result[*domain.DeploymentResult]
}

// Command describes one external process invocation
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Env     []string // appended to the current environment
	Timeout time.Duration
}

// ProcessRunner executes external toolchain commands.
// A non-nil error means the process could not be launched at all.
type ProcessRunner interface {
	Run(ctx context.Context, cmd Command) (*domain.ProcessExecutionResult, error)
	LookPath(file string) (string, error)
}

// Workspace is a uniquely named scratch directory owned by one operation
type Workspace interface {
	Dir() string
	Path(elem ...string) string
	Release()
}

// WorkspaceProvider hands out fresh workspaces
type WorkspaceProvider interface {
	Acquire(purpose string) (Workspace, error)
}

// Archiver packs and unpacks project archives
type Archiver interface {
	Extract(archive *domain.FileHandle, dest string) error
	Pack(dir string) ([]byte, error)
}

// TemplateRenderer renders a specification model with a named template
type TemplateRenderer interface {
	Render(name string, model map[string]any) (string, error)
}

// ScaffoldProvider copies pre-baked project scaffolds
type ScaffoldProvider interface {
	CopyScaffold(name string, dest string) error
}

// ManifestEditor rewrites project manifests (Cargo.toml, Anchor.toml)
type ManifestEditor interface {
	SetCargoPackage(path string, edit CargoEdit) error
	SetAnchorProgram(path string, program string, programID string) error
}

// CargoEdit lists the fields rewritten in a Cargo.toml
type CargoEdit struct {
	PackageName  string
	LibName      string
	Dependencies map[string]any
}

// EndpointProbe checks whether a node accepts TCP connections
type EndpointProbe interface {
	Reachable(ctx context.Context, address string) bool
}

// NodeSpec describes a local development node
type NodeSpec struct {
	Chain     domain.ChainTarget
	Command   string
	Port      int
	Settle    time.Duration
	LedgerDir string
}

// NodeInfo describes a started node
type NodeInfo struct {
	Chain   domain.ChainTarget
	Command string
	PID     int
	Port    int
	LogFile string
}

// NodeStatus reports a node tracked by its pid file
type NodeStatus struct {
	Chain   domain.ChainTarget
	Running bool
	PID     int
	LogFile string
}

// NodeLauncher starts local development nodes detached from the request
type NodeLauncher interface {
	Start(ctx context.Context, spec NodeSpec) (*NodeInfo, error)
}

// NodeManager extends NodeLauncher with lifecycle queries for the CLI
type NodeManager interface {
	NodeLauncher
	Status(ctx context.Context, chain domain.ChainTarget) (*NodeStatus, error)
	Stop(ctx context.Context, chain domain.ChainTarget) error
}

// EVMDeployRequest carries everything needed to submit a contract creation
type EVMDeployRequest struct {
	RPCURL     string
	PrivateKey string
	GasLimit   uint64
	ABI        []byte
	Bytecode   []byte
}

// EVMClient submits contract creations and waits for receipts. Prepare
// rejects malformed ABI or bytecode offline.
type EVMClient interface {
	Prepare(req EVMDeployRequest) error
	DeployContract(ctx context.Context, req EVMDeployRequest) (*domain.DeploymentResult, error)
}

// MetricsRecorder records operation outcomes
type MetricsRecorder interface {
	ObserveOperation(chain domain.ChainTarget, operation string, outcome string, duration time.Duration)
}

// NopMetrics discards observations
type NopMetrics struct{}

func (NopMetrics) ObserveOperation(domain.ChainTarget, string, string, time.Duration) {}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   ExecutionStage
	Chain   domain.ChainTarget
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// ExecutionStage names a step of a pipeline operation
type ExecutionStage string

const (
	StageValidating ExecutionStage = "Validating"
	StageRendering  ExecutionStage = "Rendering"
	StageStaging    ExecutionStage = "Staging"
	StageCompiling  ExecutionStage = "Compiling"
	StageCollecting ExecutionStage = "Collecting"
	StageNode       ExecutionStage = "Node"
	StageDeploying  ExecutionStage = "Deploying"
	StageCompleted  ExecutionStage = "Completed"
)

// ChainSelector asks the user to pick a chain target
type ChainSelector interface {
	SelectChain(ctx context.Context, prompt string) (domain.ChainTarget, error)
	SuggestChain(input string) []string
}

// BuildCache persists build output directories between workspaces
type BuildCache interface {
	// Restore copies the cached entry into dest, reporting whether one existed
	Restore(name, dest string) (bool, error)
	Save(name, src string) error
}

// Embedded template and scaffold names
const (
	TemplateSolidity = "solidity"
	TemplateAnchor   = "anchor"
	TemplateScrypto  = "scrypto"

	ScaffoldAnchor = "anchor"
	ScaffoldRadix  = "radix"
)

// Operation names used in logs and metrics
const (
	OpGenerate = "generate"
	OpCompile  = "compile"
	OpDeploy   = "deploy"
)
