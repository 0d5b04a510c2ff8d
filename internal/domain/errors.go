package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline operations
var (
	// ErrUnsupportedChain is returned when a chain selector is not recognized
	ErrUnsupportedChain = errors.New("chain not supported")

	// ErrArtifactNotFound is returned when a reported-successful build left no output
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrAmbiguousArtifact is returned when several outputs match and none is preferred
	ErrAmbiguousArtifact = errors.New("ambiguous artifacts")

	// ErrNodeUnreachable is returned when a chain endpoint cannot be reached or started
	ErrNodeUnreachable = errors.New("node unreachable")

	// ErrMarkerNotFound is returned when deploy output lacks the address marker
	ErrMarkerNotFound = errors.New("deployment address not found")
)

// UnsupportedChainError names the rejected selector
type UnsupportedChainError struct {
	Value string
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("chain %q not supported", e.Value)
}

func (e *UnsupportedChainError) Unwrap() error {
	return ErrUnsupportedChain
}

// ValidationError describes a rejected input file or document
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for field
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConfigError describes malformed chain-level configuration
type ConfigError struct {
	Chain  ChainTarget
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s configuration %s: %s", e.Chain, e.Key, e.Reason)
}
