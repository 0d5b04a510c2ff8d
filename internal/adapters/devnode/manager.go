package devnode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/domain"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// stopGrace is how long Stop waits after SIGTERM before killing the node
const stopGrace = 5 * time.Second

// Manager starts and tracks local development nodes. Each chain has one
// node, tracked by a pid file and a log file under <data_dir>/nodes.
type Manager struct {
	dir string
	log *slog.Logger
}

// NewManager creates a new local node manager
func NewManager(cfg *config.RuntimeConfig, log *slog.Logger) *Manager {
	return &Manager{
		dir: filepath.Join(cfg.DataDir, "nodes"),
		log: log.With("component", "NodeManager"),
	}
}

// Start spawns the node detached from ctx, then waits for the settle delay.
// A node that fails because the port is taken is not an error here; callers
// re-probe the endpoint afterwards.
func (m *Manager) Start(ctx context.Context, spec usecase.NodeSpec) (*usecase.NodeInfo, error) {
	if spec.Command == "" {
		return nil, fmt.Errorf("no node command configured for %s", spec.Chain)
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create node dir: %w", err)
	}

	args := buildNodeArgs(spec)
	logPath := m.logFile(spec.Chain)

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	// Not CommandContext: the node must outlive the request that started it
	cmd := exec.Command(spec.Command, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	detach(cmd)

	m.log.Info("starting local node", "chain", spec.Chain, "command", spec.Command, "args", args, "log", logPath)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", spec.Command, err)
	}

	pid := cmd.Process.Pid
	if err := m.writePidFile(spec.Chain, pid); err != nil {
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("failed to write PID file: %w", err)
	}

	// Reap the child when it exits
	go func() { _ = cmd.Wait() }()

	if spec.Settle > 0 {
		timer := time.NewTimer(spec.Settle)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &usecase.NodeInfo{
		Chain:   spec.Chain,
		Command: spec.Command,
		PID:     pid,
		Port:    spec.Port,
		LogFile: logPath,
	}, nil
}

// Status reports whether the tracked node process is alive
func (m *Manager) Status(ctx context.Context, chain domain.ChainTarget) (*usecase.NodeStatus, error) {
	status := &usecase.NodeStatus{Chain: chain, LogFile: m.logFile(chain)}

	pid, err := m.readPidFile(chain)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return status, nil
		}
		return nil, err
	}

	status.PID = pid
	status.Running = processAlive(pid)
	return status, nil
}

// Stop terminates the tracked node, escalating to SIGKILL after a grace period
func (m *Manager) Stop(ctx context.Context, chain domain.ChainTarget) error {
	pid, err := m.readPidFile(chain)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if processAlive(pid) {
		m.log.Info("stopping local node", "chain", chain, "pid", pid)
		if err := terminate(pid); err != nil {
			return fmt.Errorf("failed to signal node: %w", err)
		}

		deadline := time.Now().Add(stopGrace)
		for processAlive(pid) && time.Now().Before(deadline) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
		}
		if processAlive(pid) {
			kill(pid)
		}
	}

	if err := os.Remove(m.pidFile(chain)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// buildNodeArgs returns the command-line arguments for a local node
func buildNodeArgs(spec usecase.NodeSpec) []string {
	port := strconv.Itoa(spec.Port)

	switch spec.Chain {
	case domain.ChainRust:
		args := []string{"--rpc-port", port}
		if spec.LedgerDir != "" {
			args = append(args, "--ledger", spec.LedgerDir)
		}
		return args
	default:
		if strings.Contains(filepath.Base(spec.Command), "ganache") {
			return []string{"--deterministic", "--port", port}
		}
		return []string{"--port", port, "--host", "127.0.0.1"}
	}
}

func (m *Manager) pidFile(chain domain.ChainTarget) string {
	return filepath.Join(m.dir, fmt.Sprintf("%s.pid", chain))
}

func (m *Manager) logFile(chain domain.ChainTarget) string {
	return filepath.Join(m.dir, fmt.Sprintf("%s.log", chain))
}

func (m *Manager) writePidFile(chain domain.ChainTarget, pid int) error {
	return os.WriteFile(m.pidFile(chain), []byte(strconv.Itoa(pid)), 0644)
}

func (m *Manager) readPidFile(chain domain.ChainTarget) (int, error) {
	data, err := os.ReadFile(m.pidFile(chain))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file %s: %w", m.pidFile(chain), err)
	}
	return pid, nil
}

var _ usecase.NodeManager = (*Manager)(nil)
