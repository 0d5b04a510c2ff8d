package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/scgen/internal/app"
	"github.com/trebuchet-org/scgen/internal/cli/render"
	"github.com/trebuchet-org/scgen/internal/domain"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// pipelineRun carries the state shared by generate, compile and deploy
type pipelineRun struct {
	cmd       *cobra.Command
	app       *app.App
	format    render.Format
	operation string
	chain     domain.ChainTarget
}

func newPipelineRun(cmd *cobra.Command, operation string) (*pipelineRun, error) {
	a, err := getApp(cmd)
	if err != nil {
		return nil, err
	}
	return &pipelineRun{
		cmd:       cmd,
		app:       a,
		format:    outputFormat(a),
		operation: operation,
	}, nil
}

// resolveChain parses --chain, prompting when it is absent. Unknown names
// become a not-supported failure carrying close matches.
func (p *pipelineRun) resolveChain(ctx context.Context, value string) *domain.Failure {
	if strings.TrimSpace(value) == "" {
		chain, err := p.app.Selector.SelectChain(ctx, fmt.Sprintf("Select chain to %s for", p.operation))
		if err != nil {
			return &domain.Failure{Kind: domain.KindValidation, Message: err.Error()}
		}
		p.chain = chain
		return nil
	}

	chain, err := domain.ParseChain(value)
	if err != nil {
		message := err.Error()
		if suggestions := p.app.Selector.SuggestChain(value); len(suggestions) > 0 {
			message = fmt.Sprintf("%s, did you mean %s?", message, strings.Join(suggestions, " or "))
		}
		return &domain.Failure{Kind: domain.KindNotSupported, Message: message}
	}
	p.chain = chain
	return nil
}

// fail renders a failure and ends the command with the matching exit code
func (p *pipelineRun) fail(failure *domain.Failure) error {
	out := p.cmd.ErrOrStderr()
	if p.format.Structured() {
		out = p.cmd.OutOrStdout()
	}
	if err := render.NewFailureRenderer(out, p.format).Render(p.operation, p.chain, failure); err != nil {
		return err
	}
	return &ExitError{Code: exitCodeFor(failure.Kind)}
}

// input opens a local file, reporting problems as validation failures
func (p *pipelineRun) input(field, path string) (*domain.FileHandle, *domain.Failure) {
	file, err := openInput(path)
	if err != nil {
		return nil, &domain.Failure{Kind: domain.KindValidation, Message: fmt.Sprintf("%s: %v", field, err)}
	}
	return file, nil
}

func notSupported(err error) *domain.Failure {
	return usecase.NotSupported[struct{}](err).Failure()
}

var inputContentTypes = map[string]string{
	".json": domain.ContentTypeJSON,
	".zip":  domain.ContentTypeZip,
	".wasm": domain.ContentTypeWasm,
	".sol":  domain.ContentTypeText,
	".abi":  domain.ContentTypeJSON,
	".rpd":  domain.ContentTypeOctet,
}

func openInput(path string) (*domain.FileHandle, error) {
	file, err := domain.NewFileFromPath(path)
	if err != nil {
		return nil, err
	}
	file.ContentType = domain.ContentTypeOctet
	if ct, ok := inputContentTypes[file.Ext()]; ok {
		file.ContentType = ct
	}
	return file, nil
}

// writeOutput saves an artifact payload under dir
func writeOutput(dir, name string, content []byte) (render.WrittenFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return render.WrittenFile{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return render.WrittenFile{}, fmt.Errorf("failed to write %s: %w", name, err)
	}
	return render.WrittenFile{Name: name, Path: path, Size: int64(len(content))}, nil
}
