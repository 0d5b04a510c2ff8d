package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/trebuchet-org/scgen/internal/domain"
)

// PlaceholderProgramID is declared when a specification names no program id
const PlaceholderProgramID = "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS"

// GenerateAnchor renders an Anchor program into a buildable workspace archive
type GenerateAnchor struct {
	kit projectKit
	op  operation
}

// NewGenerateAnchor creates a new Anchor project generator
func NewGenerateAnchor(
	renderer TemplateRenderer,
	scaffolds ScaffoldProvider,
	manifests ManifestEditor,
	archiver Archiver,
	workspaces WorkspaceProvider,
	metrics MetricsRecorder,
	progress ProgressSink,
	log *slog.Logger,
) *GenerateAnchor {
	return &GenerateAnchor{
		kit: projectKit{
			renderer:   renderer,
			scaffolds:  scaffolds,
			manifests:  manifests,
			archiver:   archiver,
			workspaces: workspaces,
		},
		op: newOperation(domain.ChainRust, OpGenerate, log.With("component", "GenerateAnchor"), metrics, progress),
	}
}

// Generate returns <slug>.zip holding an Anchor workspace whose single
// program is named after the declared contract name.
func (g *GenerateAnchor) Generate(ctx context.Context, specification *domain.FileHandle) domain.Result[*domain.GeneratedArtifact] {
	return guard(ctx, g.op, func(ctx context.Context, log *slog.Logger) domain.Result[*domain.GeneratedArtifact] {
		g.op.stage(ctx, StageValidating, "%s", specificationName(specification))
		model, err := readSpecification(specification)
		if err != nil {
			return domain.FailWith[*domain.GeneratedArtifact](failureFrom(log, "failed to read specification", err))
		}

		slug := ProgramName(stringField(model, "name", "programName"))
		programID := stringField(model, "programId")
		if programID == "" {
			programID = PlaceholderProgramID
		}
		model["programName"] = slug
		model["programId"] = programID

		g.op.stage(ctx, StageRendering, "%s", slug)
		source, err := g.kit.renderer.Render(TemplateAnchor, model)
		if err != nil {
			return domain.FailWith[*domain.GeneratedArtifact](infraFailure(log, "template rendering failed", err))
		}

		g.op.stage(ctx, StageStaging, "%s", slug)
		artifact, err := g.kit.buildProject(ctx, "generate-rust", ScaffoldAnchor, slug, func(ws Workspace) error {
			programDir := ws.Path("programs", slug)
			if err := os.Rename(ws.Path("programs", "program"), programDir); err != nil {
				return fmt.Errorf("failed to rename program directory: %w", err)
			}
			if err := writeSource(ws.Path("programs", slug, "src", "lib.rs"), source); err != nil {
				return err
			}
			if err := g.kit.manifests.SetCargoPackage(ws.Path("programs", slug, "Cargo.toml"), CargoEdit{
				PackageName: slug,
				LibName:     slug,
			}); err != nil {
				return fmt.Errorf("failed to rewrite program manifest: %w", err)
			}
			if err := g.kit.manifests.SetAnchorProgram(ws.Path("Anchor.toml"), slug, programID); err != nil {
				return fmt.Errorf("failed to rewrite Anchor.toml: %w", err)
			}
			return nil
		})
		if err != nil {
			return domain.FailWith[*domain.GeneratedArtifact](failureFrom(log, "failed to build project", err))
		}

		log.Debug("generated anchor project", "program", slug, "program_id", programID, "size", len(artifact.Content))
		return domain.Ok(artifact)
	})
}

var _ ContractGenerator = (*GenerateAnchor)(nil)
