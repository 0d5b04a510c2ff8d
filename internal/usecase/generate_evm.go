package usecase

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/scgen/internal/domain"
)

// GenerateEVM renders a Solidity source file from a specification
type GenerateEVM struct {
	renderer TemplateRenderer
	op       operation
}

// NewGenerateEVM creates a new Solidity generator
func NewGenerateEVM(renderer TemplateRenderer, metrics MetricsRecorder, progress ProgressSink, log *slog.Logger) *GenerateEVM {
	return &GenerateEVM{
		renderer: renderer,
		op:       newOperation(domain.ChainEVM, OpGenerate, log.With("component", "GenerateEVM"), metrics, progress),
	}
}

// Generate returns <name>.sol, where name is the declared contract name
func (g *GenerateEVM) Generate(ctx context.Context, specification *domain.FileHandle) domain.Result[*domain.GeneratedArtifact] {
	return guard(ctx, g.op, func(ctx context.Context, log *slog.Logger) domain.Result[*domain.GeneratedArtifact] {
		g.op.stage(ctx, StageValidating, "%s", specificationName(specification))
		model, err := readSpecification(specification)
		if err != nil {
			return domain.FailWith[*domain.GeneratedArtifact](failureFrom(log, "failed to read specification", err))
		}

		name := stringField(model, "name")
		if name == "" {
			name = "Contract"
			model["name"] = name
		}

		g.op.stage(ctx, StageRendering, "%s", name)
		source, err := g.renderer.Render(TemplateSolidity, model)
		if err != nil {
			return domain.FailWith[*domain.GeneratedArtifact](infraFailure(log, "template rendering failed", err))
		}

		return domain.Ok(&domain.GeneratedArtifact{
			Content:     []byte(source),
			FileName:    solidityFileName(name),
			ContentType: domain.ContentTypeText,
		})
	})
}

func specificationName(f *domain.FileHandle) string {
	if f == nil {
		return ""
	}
	return f.Name
}

var _ ContractGenerator = (*GenerateEVM)(nil)
