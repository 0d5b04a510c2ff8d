package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// NodesRenderer renders local node reports
type NodesRenderer struct {
	out    io.Writer
	format Format
}

// NewNodesRenderer creates a new nodes renderer
func NewNodesRenderer(out io.Writer, format Format) *NodesRenderer {
	return &NodesRenderer{out: out, format: format}
}

// Render writes one row per chain
func (r *NodesRenderer) Render(action string, reports []*usecase.NodeReport) error {
	if r.format.Structured() {
		return WriteStructured(r.out, r.format, Envelope{
			Success:   true,
			Operation: "node " + action,
			Data:      reports,
		})
	}

	if len(reports) == 0 {
		fmt.Fprintln(r.out, "No chains selected")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"CHAIN", "ENDPOINT", "STATUS", "PID", "NOTES"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, WidthMax: 60},
	})

	for _, report := range reports {
		pid := ""
		if report.PID > 0 {
			pid = strconv.Itoa(report.PID)
		}
		notes := report.Message
		if notes == "" && report.LogFile != "" {
			notes = report.LogFile
		}
		t.AppendRow(table.Row{
			report.Chain.DisplayName(),
			report.Endpoint,
			nodeStatus(report),
			pid,
			notes,
		})
	}

	fmt.Fprintln(r.out, t.Render())
	return nil
}

func nodeStatus(report *usecase.NodeReport) string {
	switch {
	case report.Message == "stopped":
		return color.New(color.Faint).Sprint("stopped")
	case report.Started && report.Reachable:
		return color.New(color.FgGreen, color.Bold).Sprint("started")
	case report.Reachable:
		return color.New(color.FgGreen).Sprint("running")
	case report.Started:
		return color.New(color.FgYellow).Sprint("starting")
	default:
		return color.New(color.FgRed).Sprint("down")
	}
}
