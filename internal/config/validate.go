package config

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/trebuchet-org/scgen/internal/domain"
)

// MinGasLimit is the intrinsic gas of a plain transfer
const MinGasLimit uint64 = 21000

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var (
	privateKeyPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	profilePattern    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Validate checks the EVM deployment settings
func (c EVMConfig) Validate() error {
	if err := validateRPCURL(domain.ChainEVM, "evm.rpc_url", c.RPCURL); err != nil {
		return err
	}
	if !privateKeyPattern.MatchString(c.PrivateKey) {
		return &domain.ConfigError{Chain: domain.ChainEVM, Key: "evm.private_key", Reason: "must be 0x followed by 64 hex characters"}
	}
	if c.GasLimit < MinGasLimit {
		return &domain.ConfigError{Chain: domain.ChainEVM, Key: "evm.gas_limit", Reason: "must be at least 21000"}
	}
	return nil
}

// Validate checks the Anchor deployment settings
func (c SolanaConfig) Validate() error {
	if err := validateRPCURL(domain.ChainRust, "solana.rpc_url", c.RPCURL); err != nil {
		return err
	}
	if c.PublicKey != "" && !isBase58Key(c.PublicKey) {
		return &domain.ConfigError{Chain: domain.ChainRust, Key: "solana.public_key", Reason: "must be a base58 encoded public key"}
	}
	if strings.TrimSpace(c.KeypairPath) == "" {
		return &domain.ConfigError{Chain: domain.ChainRust, Key: "solana.keypair_path", Reason: "must not be empty"}
	}
	return nil
}

// Validate checks the Radix deployment settings
func (c RadixConfig) Validate() error {
	if !c.UseSimulator {
		return &domain.ConfigError{Chain: domain.ChainRadix, Key: "radix.use_simulator", Reason: "only simulator deployment is supported"}
	}
	if !profilePattern.MatchString(c.Profile) {
		return &domain.ConfigError{Chain: domain.ChainRadix, Key: "radix.profile", Reason: "must contain only letters, digits, '_' or '-'"}
	}
	return nil
}

func validateRPCURL(chain domain.ChainTarget, key, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return &domain.ConfigError{Chain: chain, Key: key, Reason: "must not be empty"}
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return &domain.ConfigError{Chain: chain, Key: key, Reason: "must be an absolute URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &domain.ConfigError{Chain: chain, Key: key, Reason: "scheme must be http or https"}
	}
	return nil
}

func isBase58Key(s string) bool {
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(base58Alphabet, r) {
			return false
		}
	}
	return true
}
