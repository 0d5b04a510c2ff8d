package template

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"text/template"

	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Template names for each chain
const (
	SolidityTemplate = usecase.TemplateSolidity
	AnchorTemplate   = usecase.TemplateAnchor
	ScryptoTemplate  = usecase.TemplateScrypto
)

// TemplateError is returned when a template is missing, does not compile,
// fails to execute or renders nothing.
type TemplateError struct {
	Name   string
	Reason string
	Err    error
}

func (e *TemplateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template %s: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("template %s: %s", e.Name, e.Reason)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// Renderer renders contract specifications with compiled text templates.
// Templates are compiled once on first use and shared by concurrent renders.
type Renderer struct {
	fsys  fs.FS
	funcs template.FuncMap
	log   *slog.Logger

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewRenderer creates a renderer over the configured template directory,
// or the embedded templates when none is configured.
func NewRenderer(cfg *config.RuntimeConfig, log *slog.Logger) (*Renderer, error) {
	var fsys fs.FS
	if cfg.TemplatesDir != "" {
		fsys = os.DirFS(cfg.TemplatesDir)
	} else {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded templates: %w", err)
		}
		fsys = sub
	}
	return NewRendererFS(fsys, log), nil
}

// NewRendererFS creates a renderer reading <name>.tmpl files from fsys
func NewRendererFS(fsys fs.FS, log *slog.Logger) *Renderer {
	return &Renderer{
		fsys:  fsys,
		funcs: helperFuncs(),
		log:   log.With("component", "TemplateRenderer"),
		cache: make(map[string]*template.Template),
	}
}

// Render cleans the model and executes the named template against it
func (r *Renderer) Render(name string, model map[string]any) (string, error) {
	tmpl, err := r.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, CleanModel(model)); err != nil {
		return "", &TemplateError{Name: name, Reason: "failed to execute", Err: err}
	}

	out := buf.String()
	if strings.TrimSpace(out) == "" {
		return "", &TemplateError{Name: name, Reason: "rendered empty output"}
	}

	r.log.Debug("rendered template", "template", name, "bytes", len(out))
	return out, nil
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.cache[name]; ok {
		return tmpl, nil
	}

	source, err := fs.ReadFile(r.fsys, name+".tmpl")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TemplateError{Name: name, Reason: "not found"}
		}
		return nil, &TemplateError{Name: name, Reason: "failed to read", Err: err}
	}

	tmpl, err = template.New(name).Funcs(r.funcs).Parse(string(source))
	if err != nil {
		return nil, &TemplateError{Name: name, Reason: "failed to compile", Err: err}
	}

	r.cache[name] = tmpl
	return tmpl, nil
}

var _ usecase.TemplateRenderer = (*Renderer)(nil)
