package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// SpinnerSink renders pipeline stages behind a terminal spinner
type SpinnerSink struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinner.Spinner
	stages  []stageInfo
}

type stageInfo struct {
	Stage     usecase.ExecutionStage
	StartTime time.Time
	EndTime   time.Time
	Message   string
}

// NewSpinnerSink creates a spinner sink writing to out (normally stderr)
func NewSpinnerSink(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{out: out, spinner: s}
}

// OnProgress records the stage and updates the spinner line
func (p *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if n := len(p.stages); n == 0 || p.stages[n-1].Stage != event.Stage {
		if n > 0 {
			p.stages[n-1].EndTime = now
		}
		p.stages = append(p.stages, stageInfo{Stage: event.Stage, StartTime: now})
	}
	p.stages[len(p.stages)-1].Message = event.Message

	if event.Stage == usecase.StageCompleted {
		p.spinner.Stop()
		return
	}

	p.spinner.Suffix = " " + p.display()
	if event.Spinner {
		if !p.spinner.Active() {
			p.spinner.Start()
		}
	} else if p.spinner.Active() {
		p.spinner.Stop()
	}
}

// Info prints an info message above the spinner
func (p *SpinnerSink) Info(message string) {
	p.printLine(color.New(color.FgCyan), message)
}

// Error prints an error message above the spinner
func (p *SpinnerSink) Error(message string) {
	p.printLine(color.New(color.FgRed), message)
}

// Stop halts the spinner if it is still running
func (p *SpinnerSink) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spinner.Stop()
}

func (p *SpinnerSink) printLine(c *color.Color, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	wasActive := p.spinner.Active()
	if wasActive {
		p.spinner.Stop()
	}
	c.Fprintln(p.out, message)
	if wasActive {
		p.spinner.Start()
	}
}

// display renders "✓ Validating (2ms) → ● Compiling solc (3s)"
func (p *SpinnerSink) display() string {
	parts := make([]string, 0, len(p.stages))
	for i, stage := range p.stages {
		running := i == len(p.stages)-1

		icon, stageColor := "✓", color.New(color.FgGreen)
		var duration time.Duration
		if running {
			icon, stageColor = "●", color.New(color.FgYellow)
			duration = time.Since(stage.StartTime).Round(time.Second)
		} else {
			duration = stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond)
		}

		label := string(stage.Stage)
		if running && stage.Message != "" {
			label = fmt.Sprintf("%s %s", label, stage.Message)
		}
		parts = append(parts, fmt.Sprintf("%s %s (%s)", icon, stageColor.Sprint(label), duration))
	}
	return strings.Join(parts, " → ")
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
