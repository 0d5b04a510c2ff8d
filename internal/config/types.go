package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into adapters and use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	DataDir       string
	WorkspaceRoot string
	TemplatesDir  string // empty uses the embedded template set

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Output         string // text, json or yaml
	Timeout        time.Duration
	ProbeTimeout   time.Duration
	MetricsFile    string // empty disables the textfile export

	Toolchain ToolchainConfig
	EVM       EVMConfig
	Solana    SolanaConfig
	Radix     RadixConfig
}

// Tool is an external binary and the timeout applied to each invocation
type Tool struct {
	Path    string
	Timeout time.Duration
}

// ToolchainConfig locates the native toolchains driven by the pipeline
type ToolchainConfig struct {
	Solc         Tool
	Anchor       Tool
	Scrypto      Tool
	Solana       Tool
	SolanaKeygen Tool
	Resim        Tool

	// AnchorBuildCache reuses the cargo target directory across builds
	AnchorBuildCache bool

	// DefaultTimeout applies when a tool has no timeout of its own
	DefaultTimeout time.Duration
}

// EVMConfig holds deployment settings for the EVM chain
type EVMConfig struct {
	RPCURL        string
	PrivateKey    string
	GasLimit      uint64
	NodeCommand   string
	NodeSettle    time.Duration
	AutoStartNode bool
}

// SolanaConfig holds deployment settings for the Anchor chain
type SolanaConfig struct {
	RPCURL            string
	PublicKey         string
	KeypairPath       string
	UseLocalValidator bool
	ValidatorCommand  string
	NodeSettle        time.Duration
}

// RadixConfig holds deployment settings for the Radix chain
type RadixConfig struct {
	UseSimulator   bool
	Profile        string
	AutoFund       bool
	AccountAddress string
}
