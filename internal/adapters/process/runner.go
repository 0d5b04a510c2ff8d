package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// waitDelay bounds how long Wait blocks on output pipes held open by
// grandchildren after the process group was killed.
const waitDelay = 2 * time.Second

// RunObserver receives one observation per finished process
type RunObserver interface {
	ObserveProcess(tool string, outcome string)
}

// Runner executes toolchain commands with captured output, a timeout and
// process-group cancellation.
type Runner struct {
	log            *slog.Logger
	defaultTimeout time.Duration
	observer       RunObserver
}

// NewRunner creates a new process runner
func NewRunner(cfg *config.RuntimeConfig, log *slog.Logger, observer RunObserver) *Runner {
	timeout := cfg.Toolchain.DefaultTimeout
	if timeout <= 0 {
		timeout = 15 * time.Minute
	}
	return &Runner{
		log:            log.With("component", "ProcessRunner"),
		defaultTimeout: timeout,
		observer:       observer,
	}
}

// Run launches the command and waits for it to exit, time out or be cancelled.
// The returned error is reserved for launch failures.
func (r *Runner) Run(ctx context.Context, c usecase.Command) (*domain.ProcessExecutionResult, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	r.log.Debug("starting process", "command", c.Name, "args", c.Args, "dir", c.Dir, "timeout", timeout)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		r.observe(c.Name, "launch_failed")
		return nil, fmt.Errorf("failed to start %s: %w", c.Name, err)
	}

	result := &domain.ProcessExecutionResult{
		Command:   c.Name,
		Args:      c.Args,
		PID:       cmd.Process.Pid,
		StartTime: start,
	}

	waitErr := cmd.Wait()
	result.Duration = time.Since(start)
	result.ExitCode = exitCode(cmd)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	exited := waitErr == nil || (errors.Is(waitErr, exec.ErrWaitDelay) && result.ExitCode == 0)
	switch {
	case !exited && ctx.Err() != nil:
		result.Cancelled = true
		result.Stdout = ""
		result.Stderr = ""
	case !exited && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
	}
	result.Success = exited && result.ExitCode == 0

	outcome := outcomeOf(result)
	r.observe(c.Name, outcome)
	r.log.Debug("process finished",
		"command", c.Name,
		"pid", result.PID,
		"exit_code", result.ExitCode,
		"outcome", outcome,
		"duration", result.Duration,
	)

	return result, nil
}

// LookPath resolves an executable on PATH
func (r *Runner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (r *Runner) observe(command, outcome string) {
	if r.observer != nil {
		r.observer.ObserveProcess(filepath.Base(command), outcome)
	}
}

func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}

func outcomeOf(result *domain.ProcessExecutionResult) string {
	switch {
	case result.Cancelled:
		return "cancelled"
	case result.TimedOut:
		return "timeout"
	case result.Success:
		return "ok"
	default:
		return "failed"
	}
}

var _ usecase.ProcessRunner = (*Runner)(nil)
