package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// FailureRenderer renders failed pipeline results
type FailureRenderer struct {
	out    io.Writer
	format Format
}

// NewFailureRenderer creates a renderer writing to out. Text output is
// meant for stderr, structured output for stdout.
func NewFailureRenderer(out io.Writer, format Format) *FailureRenderer {
	return &FailureRenderer{out: out, format: format}
}

// Render writes a failure for operation on chain
func (r *FailureRenderer) Render(operation string, chain domain.ChainTarget, failure *domain.Failure) error {
	if r.format.Structured() {
		return WriteStructured(r.out, r.format, Envelope{
			Success:   false,
			Operation: operation,
			Chain:     string(chain),
			Error:     &ErrorBody{Kind: failure.Kind.String(), Message: failure.Message},
		})
	}

	fmt.Fprintln(r.out, FormatError(failure.Message))
	fmt.Fprintln(r.out, color.New(color.Faint).Sprintf("   %s failed (%s)", operation, hint(failure.Kind)))
	return nil
}

func hint(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindValidation:
		return "check the input file"
	case domain.KindExternalTool:
		return "the toolchain rejected the input"
	case domain.KindInfrastructure:
		return "environment problem, rerun with --debug for details"
	case domain.KindCancelled:
		return "cancelled"
	case domain.KindNotSupported:
		return "unsupported chain, see scgen chains"
	default:
		return kind.String()
	}
}
