package cli

import (
	"fmt"

	"github.com/trebuchet-org/scgen/internal/domain"
)

// Process exit codes
const (
	ExitFailure        = 1
	ExitBadInput       = 2
	ExitToolFailure    = 3
	ExitInfrastructure = 4
	ExitReverted       = 5
	ExitCancelled      = 130
)

// ExitError ends the command with a specific exit code. Err is nil when
// the failure has already been rendered.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps a failure kind to the process exit code
func exitCodeFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindNotSupported:
		return ExitBadInput
	case domain.KindExternalTool:
		return ExitToolFailure
	case domain.KindInfrastructure:
		return ExitInfrastructure
	case domain.KindCancelled:
		return ExitCancelled
	default:
		return ExitFailure
	}
}
