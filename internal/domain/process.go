package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProcessExecutionResult captures one run of an external command
type ProcessExecutionResult struct {
	Command   string
	Args      []string
	ExitCode  int
	Stdout    string
	Stderr    string
	Success   bool
	Duration  time.Duration
	PID       int
	StartTime time.Time
	TimedOut  bool
	Cancelled bool
}

// ErrorMessage summarizes a failed run for logs and error payloads
func (r *ProcessExecutionResult) ErrorMessage() string {
	switch {
	case r.Cancelled:
		return "Process cancelled"
	case r.TimedOut:
		return fmt.Sprintf("Process timed out after %s", r.Duration.Round(time.Millisecond))
	case strings.TrimSpace(r.Stderr) != "":
		return fmt.Sprintf("Exit code: %d - %s", r.ExitCode, strings.TrimSpace(r.Stderr))
	case r.ExitCode != 0:
		return fmt.Sprintf("Exit code: %d", r.ExitCode)
	default:
		return "Unknown error"
	}
}

// CombinedOutput joins stdout and stderr
func (r *ProcessExecutionResult) CombinedOutput() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}
