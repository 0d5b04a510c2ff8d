package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// WrittenFile is an artifact payload saved to disk
type WrittenFile struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
}

// GeneratedView is the rendered outcome of a generate command
type GeneratedView struct {
	Chain       domain.ChainTarget `json:"-" yaml:"-"`
	ContentType string             `json:"contentType" yaml:"contentType"`
	File        WrittenFile        `json:"file" yaml:"file"`
}

// CompiledView is the rendered outcome of a compile command
type CompiledView struct {
	Chain       domain.ChainTarget `json:"-" yaml:"-"`
	ContentType string             `json:"contentType" yaml:"contentType"`
	Bytecode    WrittenFile        `json:"bytecode" yaml:"bytecode"`
	Schema      *WrittenFile       `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ArtifactRenderer renders generate and compile outcomes
type ArtifactRenderer struct {
	out    io.Writer
	format Format
}

// NewArtifactRenderer creates a new artifact renderer
func NewArtifactRenderer(out io.Writer, format Format) *ArtifactRenderer {
	return &ArtifactRenderer{out: out, format: format}
}

// RenderGenerated renders a generated source file or project archive
func (r *ArtifactRenderer) RenderGenerated(view *GeneratedView) error {
	if r.format.Structured() {
		return WriteStructured(r.out, r.format, Envelope{
			Success:   true,
			Operation: "generate",
			Chain:     string(view.Chain),
			Data:      view,
		})
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Generated %s contract", view.Chain.DisplayName())))
	fmt.Fprintln(r.out)
	r.file("File", view.File)
	fmt.Fprintf(r.out, "  %s %s\n", label("Content type"), view.ContentType)
	return nil
}

// RenderCompiled renders compiled bytecode and its companion schema
func (r *ArtifactRenderer) RenderCompiled(view *CompiledView) error {
	if r.format.Structured() {
		return WriteStructured(r.out, r.format, Envelope{
			Success:   true,
			Operation: "compile",
			Chain:     string(view.Chain),
			Data:      view,
		})
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Compiled %s contract", view.Chain.DisplayName())))
	fmt.Fprintln(r.out)
	r.file("Bytecode", view.Bytecode)
	if view.Schema != nil {
		r.file("Schema", *view.Schema)
	} else {
		fmt.Fprintf(r.out, "  %s %s\n", label("Schema"), color.New(color.Faint).Sprint("none"))
	}
	fmt.Fprintf(r.out, "  %s %s\n", label("Content type"), view.ContentType)
	return nil
}

func (r *ArtifactRenderer) file(name string, f WrittenFile) {
	fmt.Fprintf(r.out, "  %s %s %s\n",
		label(name),
		color.New(color.FgCyan).Sprint(f.Path),
		color.New(color.Faint).Sprintf("(%s)", FormatSize(f.Size)),
	)
}
