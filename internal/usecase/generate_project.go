package usecase

import (
	"context"
	"fmt"
	"os"

	"github.com/trebuchet-org/scgen/internal/domain"
)

// projectKit bundles the collaborators shared by project-based generators
type projectKit struct {
	renderer   TemplateRenderer
	scaffolds  ScaffoldProvider
	manifests  ManifestEditor
	archiver   Archiver
	workspaces WorkspaceProvider
}

// buildProject copies a scaffold into a fresh workspace, lets edit inject
// sources and rewrite manifests, then packs the workspace as <slug>.zip.
// The workspace is removed on return.
func (k projectKit) buildProject(ctx context.Context, purpose, scaffold, slug string, edit func(ws Workspace) error) (*domain.GeneratedArtifact, error) {
	ws, err := k.workspaces.Acquire(purpose)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer ws.Release()

	if err := k.scaffolds.CopyScaffold(scaffold, ws.Dir()); err != nil {
		return nil, fmt.Errorf("failed to copy %s scaffold: %w", scaffold, err)
	}
	if err := edit(ws); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	archive, err := k.archiver.Pack(ws.Dir())
	if err != nil {
		return nil, fmt.Errorf("failed to package project: %w", err)
	}

	return &domain.GeneratedArtifact{
		Content:     archive,
		FileName:    slug + ".zip",
		ContentType: domain.ContentTypeZip,
	}, nil
}

func writeSource(path, source string) error {
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
