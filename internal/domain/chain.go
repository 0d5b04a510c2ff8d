package domain

import (
	"sort"
	"strings"
)

// ChainTarget selects which generator, compiler and deployer handle a request
type ChainTarget string

const (
	ChainEVM   ChainTarget = "evm"
	ChainRust  ChainTarget = "rust"
	ChainRadix ChainTarget = "radix"
)

// chainAliases maps user-facing names (chain, language, toolchain) to targets
var chainAliases = map[string]ChainTarget{
	"evm":      ChainEVM,
	"ethereum": ChainEVM,
	"eth":      ChainEVM,
	"solidity": ChainEVM,
	"rust":     ChainRust,
	"solana":   ChainRust,
	"anchor":   ChainRust,
	"radix":    ChainRadix,
	"scrypto":  ChainRadix,
}

// AllChains returns every supported chain in display order
func AllChains() []ChainTarget {
	return []ChainTarget{ChainEVM, ChainRust, ChainRadix}
}

// ChainAliases returns every accepted chain name, sorted
func ChainAliases() []string {
	names := make([]string, 0, len(chainAliases))
	for name := range chainAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseChain resolves a chain or language name to a ChainTarget
func ParseChain(value string) (ChainTarget, error) {
	if chain, ok := chainAliases[strings.ToLower(strings.TrimSpace(value))]; ok {
		return chain, nil
	}
	return "", &UnsupportedChainError{Value: value}
}

func (c ChainTarget) String() string {
	return string(c)
}

// Valid reports whether c is one of the supported chains
func (c ChainTarget) Valid() bool {
	switch c {
	case ChainEVM, ChainRust, ChainRadix:
		return true
	}
	return false
}

// DisplayName returns a human readable label including the contract language
func (c ChainTarget) DisplayName() string {
	switch c {
	case ChainEVM:
		return "EVM (Solidity)"
	case ChainRust:
		return "Solana (Anchor)"
	case ChainRadix:
		return "Radix (Scrypto)"
	default:
		return string(c)
	}
}
