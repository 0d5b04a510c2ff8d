package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*RuntimeConfig, error) {
	dataDir, err := expandHome(v.GetString("data_dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	keypairPath, err := expandHome(v.GetString("solana.keypair_path"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve solana keypair path: %w", err)
	}

	output := strings.ToLower(v.GetString("output"))
	if v.GetBool("json") {
		output = "json"
	}

	cfg := &RuntimeConfig{
		DataDir:        dataDir,
		WorkspaceRoot:  v.GetString("workspace.root"),
		TemplatesDir:   v.GetString("templates.dir"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           output == "json",
		Output:         output,
		Timeout:        v.GetDuration("timeout"),
		ProbeTimeout:   v.GetDuration("probe_timeout"),
		MetricsFile:    v.GetString("metrics_file"),
		Toolchain: ToolchainConfig{
			Solc:           toolFrom(v, "solc"),
			Anchor:         toolFrom(v, "anchor"),
			Scrypto:        toolFrom(v, "scrypto"),
			Solana:         toolFrom(v, "solana"),
			SolanaKeygen:   toolFrom(v, "solana_keygen"),
			Resim:          toolFrom(v, "resim"),
			DefaultTimeout: v.GetDuration("toolchain.default_timeout"),

			AnchorBuildCache: v.GetBool("toolchain.anchor_build_cache"),
		},
		EVM: EVMConfig{
			RPCURL:        v.GetString("evm.rpc_url"),
			PrivateKey:    v.GetString("evm.private_key"),
			GasLimit:      v.GetUint64("evm.gas_limit"),
			NodeCommand:   v.GetString("evm.node_command"),
			NodeSettle:    v.GetDuration("evm.node_settle"),
			AutoStartNode: v.GetBool("evm.auto_start_node"),
		},
		Solana: SolanaConfig{
			RPCURL:            v.GetString("solana.rpc_url"),
			PublicKey:         v.GetString("solana.public_key"),
			KeypairPath:       keypairPath,
			UseLocalValidator: v.GetBool("solana.use_local_validator"),
			ValidatorCommand:  v.GetString("solana.validator_command"),
			NodeSettle:        v.GetDuration("solana.node_settle"),
		},
		Radix: RadixConfig{
			UseSimulator:   v.GetBool("radix.use_simulator"),
			Profile:        v.GetString("radix.profile"),
			AutoFund:       v.GetBool("radix.auto_fund"),
			AccountAddress: v.GetString("radix.account_address"),
		},
	}

	if cfg.WorkspaceRoot == "" {
		cfg.WorkspaceRoot = os.TempDir()
	}

	return cfg, nil
}

func toolFrom(v *viper.Viper, name string) Tool {
	return Tool{
		Path:    v.GetString("toolchain." + name),
		Timeout: v.GetDuration("toolchain." + name + "_timeout"),
	}
}

// SetupViper creates and configures a viper instance.
// configFile overrides the search for scgen.toml; cmd may be nil.
func SetupViper(configFile string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// .env values must be visible before AutomaticEnv reads the environment
	loadEnvFiles(".")

	// Set up config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("scgen")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".scgen"))
		}
	}

	// Set up environment variables
	v.SetEnvPrefix("SCGEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setDefaults(v)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		bindFlags(v, cmd.Flags())
	}

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "~/.scgen")
	v.SetDefault("workspace.root", "")
	v.SetDefault("templates.dir", "")
	v.SetDefault("timeout", "0s")
	v.SetDefault("probe_timeout", "3s")
	v.SetDefault("metrics_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("output", "text")

	v.SetDefault("toolchain.default_timeout", "15m")
	v.SetDefault("toolchain.solc", "solc")
	v.SetDefault("toolchain.solc_timeout", "2m")
	v.SetDefault("toolchain.anchor", "anchor")
	v.SetDefault("toolchain.anchor_timeout", "15m")
	v.SetDefault("toolchain.anchor_build_cache", true)
	v.SetDefault("toolchain.scrypto", "scrypto")
	v.SetDefault("toolchain.scrypto_timeout", "5m")
	v.SetDefault("toolchain.solana", "solana")
	v.SetDefault("toolchain.solana_timeout", "10m")
	v.SetDefault("toolchain.solana_keygen", "solana-keygen")
	v.SetDefault("toolchain.solana_keygen_timeout", "1m")
	v.SetDefault("toolchain.resim", "resim")
	v.SetDefault("toolchain.resim_timeout", "5m")

	v.SetDefault("evm.rpc_url", "http://127.0.0.1:8545")
	v.SetDefault("evm.private_key", "")
	v.SetDefault("evm.gas_limit", 3000000)
	v.SetDefault("evm.node_command", "anvil")
	v.SetDefault("evm.node_settle", "1s")
	v.SetDefault("evm.auto_start_node", true)

	v.SetDefault("solana.rpc_url", "http://127.0.0.1:8899")
	v.SetDefault("solana.public_key", "")
	v.SetDefault("solana.keypair_path", "~/.config/solana/id.json")
	v.SetDefault("solana.use_local_validator", true)
	v.SetDefault("solana.validator_command", "solana-test-validator")
	v.SetDefault("solana.node_settle", "6s")

	v.SetDefault("radix.use_simulator", true)
	v.SetDefault("radix.profile", "default")
	v.SetDefault("radix.auto_fund", true)
	v.SetDefault("radix.account_address", "")
}

// bindFlags binds changed command flags, mapping kebab-case names onto config keys
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
