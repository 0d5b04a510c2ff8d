package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/scgen/internal/domain"
)

// ScryptoVersion is pinned in generated Cargo manifests
const ScryptoVersion = "1.3.0"

// GenerateRadix renders a Scrypto blueprint into a buildable package archive
type GenerateRadix struct {
	kit projectKit
	op  operation
}

// NewGenerateRadix creates a new Scrypto package generator
func NewGenerateRadix(
	renderer TemplateRenderer,
	scaffolds ScaffoldProvider,
	manifests ManifestEditor,
	archiver Archiver,
	workspaces WorkspaceProvider,
	metrics MetricsRecorder,
	progress ProgressSink,
	log *slog.Logger,
) *GenerateRadix {
	return &GenerateRadix{
		kit: projectKit{
			renderer:   renderer,
			scaffolds:  scaffolds,
			manifests:  manifests,
			archiver:   archiver,
			workspaces: workspaces,
		},
		op: newOperation(domain.ChainRadix, OpGenerate, log.With("component", "GenerateRadix"), metrics, progress),
	}
}

// Generate returns <slug>.zip holding a Scrypto package
func (g *GenerateRadix) Generate(ctx context.Context, specification *domain.FileHandle) domain.Result[*domain.GeneratedArtifact] {
	return guard(ctx, g.op, func(ctx context.Context, log *slog.Logger) domain.Result[*domain.GeneratedArtifact] {
		g.op.stage(ctx, StageValidating, "%s", specificationName(specification))
		model, err := readSpecification(specification)
		if err != nil {
			return domain.FailWith[*domain.GeneratedArtifact](failureFrom(log, "failed to read specification", err))
		}

		mergeTemplateData(model)
		addScryptoSbor(model)
		slug := SanitizeProjectName(stringField(model, "name"), "scrypto_", "scrypto_contract")

		g.op.stage(ctx, StageRendering, "%s", slug)
		source, err := g.kit.renderer.Render(TemplateScrypto, model)
		if err != nil {
			return domain.FailWith[*domain.GeneratedArtifact](infraFailure(log, "template rendering failed", err))
		}

		g.op.stage(ctx, StageStaging, "%s", slug)
		artifact, err := g.kit.buildProject(ctx, "generate-radix", ScaffoldRadix, slug, func(ws Workspace) error {
			if err := writeSource(ws.Path("src", "lib.rs"), source); err != nil {
				return err
			}
			if err := g.kit.manifests.SetCargoPackage(ws.Path("Cargo.toml"), CargoEdit{
				PackageName: slug,
				Dependencies: map[string]any{
					"scrypto": map[string]any{"version": ScryptoVersion},
				},
			}); err != nil {
				return fmt.Errorf("failed to rewrite Cargo.toml: %w", err)
			}
			return nil
		})
		if err != nil {
			return domain.FailWith[*domain.GeneratedArtifact](failureFrom(log, "failed to build project", err))
		}

		log.Debug("generated scrypto package", "package", slug, "size", len(artifact.Content))
		return domain.Ok(artifact)
	})
}

var _ ContractGenerator = (*GenerateRadix)(nil)
