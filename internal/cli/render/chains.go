package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// ChainView describes one supported chain
type ChainView struct {
	Chain     domain.ChainTarget `json:"chain" yaml:"chain"`
	Name      string             `json:"name" yaml:"name"`
	Aliases   []string           `json:"aliases" yaml:"aliases"`
	Toolchain []string           `json:"toolchain" yaml:"toolchain"`
}

// ChainsRenderer renders the supported chain table
type ChainsRenderer struct {
	out    io.Writer
	format Format
}

// NewChainsRenderer creates a new chains renderer
func NewChainsRenderer(out io.Writer, format Format) *ChainsRenderer {
	return &ChainsRenderer{out: out, format: format}
}

func (r *ChainsRenderer) Render(chains []ChainView) error {
	if r.format.Structured() {
		return WriteStructured(r.out, r.format, Envelope{
			Success:   true,
			Operation: "chains",
			Data:      chains,
		})
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"CHAIN", "NAME", "ALIASES", "TOOLCHAIN"})
	for _, c := range chains {
		t.AppendRow(table.Row{
			color.New(color.FgCyan, color.Bold).Sprint(c.Chain),
			c.Name,
			strings.Join(c.Aliases, ", "),
			strings.Join(c.Toolchain, ", "),
		})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[[]ChainView] = (*ChainsRenderer)(nil)
