package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/trebuchet-org/scgen/internal/domain"
)

// operation carries what every chain operation needs besides its collaborators
type operation struct {
	chain    domain.ChainTarget
	name     string
	log      *slog.Logger
	metrics  MetricsRecorder
	progress ProgressSink
}

func newOperation(chain domain.ChainTarget, name string, log *slog.Logger, metrics MetricsRecorder, progress ProgressSink) operation {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if progress == nil {
		progress = NopProgress{}
	}
	return operation{chain: chain, name: name, log: log, metrics: metrics, progress: progress}
}

// guard runs body as one public operation. It attaches a correlation id,
// recovers panics into Infrastructure failures, reports caller cancellation
// as KindCancelled and records the outcome.
func guard[T any](ctx context.Context, op operation, body func(ctx context.Context, log *slog.Logger) domain.Result[T]) (result domain.Result[T]) {
	id, ok := domain.CorrelationID(ctx)
	if !ok {
		id = uuid.NewString()
		ctx = domain.WithCorrelationID(ctx, id)
	}
	log := op.log.With("correlation_id", id, "chain", op.chain, "operation", op.name)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("operation panicked", "panic", r, "stack", string(debug.Stack()))
			result = domain.Failf[T](domain.KindInfrastructure, "internal error during %s", op.name)
		}
		if !result.IsSuccess() && result.Kind() != domain.KindCancelled && errors.Is(ctx.Err(), context.Canceled) {
			result = domain.Fail[T](domain.KindCancelled, "operation cancelled")
		}

		duration := time.Since(start)
		outcome := "success"
		if f := result.Failure(); f != nil {
			outcome = f.Kind.String()
			switch f.Kind {
			case domain.KindInfrastructure:
				log.Error("operation failed", "kind", f.Kind, "message", f.Message, "duration", duration)
			case domain.KindCancelled:
				log.Info("operation cancelled", "duration", duration)
			default:
				log.Warn("operation rejected", "kind", f.Kind, "message", f.Message, "duration", duration)
			}
		} else {
			log.Info("operation completed", "duration", duration)
			op.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Chain: op.chain})
		}
		op.metrics.ObserveOperation(op.chain, op.name, outcome, duration)
	}()

	log.Debug("operation started")
	return body(ctx, log)
}

// stage reports progress for the current operation
func (op operation) stage(ctx context.Context, stage ExecutionStage, format string, args ...any) {
	op.progress.OnProgress(ctx, ProgressEvent{
		Stage:   stage,
		Chain:   op.chain,
		Message: fmt.Sprintf(format, args...),
		Spinner: stage == StageCompiling || stage == StageDeploying || stage == StageNode,
	})
}

// infraFailure logs err in full and returns a failure carrying only summary
func infraFailure(log *slog.Logger, summary string, err error) *domain.Failure {
	if err != nil {
		log.Error(summary, "error", err)
	} else {
		log.Error(summary)
	}
	return &domain.Failure{Kind: domain.KindInfrastructure, Message: summary}
}

// failureFrom classifies an internal error. Validation and configuration
// errors keep their message; pipeline sentinels surface their own text;
// anything else is reduced to summary.
func failureFrom(log *slog.Logger, summary string, err error) *domain.Failure {
	var validationErr *domain.ValidationError
	var configErr *domain.ConfigError

	switch {
	case errors.As(err, &validationErr):
		return &domain.Failure{Kind: domain.KindValidation, Message: validationErr.Error()}
	case errors.Is(err, context.Canceled):
		return &domain.Failure{Kind: domain.KindCancelled, Message: "operation cancelled"}
	case errors.As(err, &configErr):
		log.Error(summary, "error", err)
		return &domain.Failure{Kind: domain.KindInfrastructure, Message: configErr.Error()}
	}

	for _, sentinel := range []error{
		domain.ErrArtifactNotFound,
		domain.ErrAmbiguousArtifact,
		domain.ErrNodeUnreachable,
		domain.ErrMarkerNotFound,
	} {
		if errors.Is(err, sentinel) {
			return infraFailure(log, sentinel.Error(), err)
		}
	}
	return infraFailure(log, summary, err)
}

// toolFailure maps an unsuccessful process run. Diagnostics on stderr are
// the caller's problem and are returned verbatim.
func toolFailure(log *slog.Logger, tool string, res *domain.ProcessExecutionResult) *domain.Failure {
	switch {
	case res.Cancelled:
		return &domain.Failure{Kind: domain.KindCancelled, Message: "operation cancelled"}
	case res.TimedOut:
		return infraFailure(log, fmt.Sprintf("%s %s", tool, strings.ToLower(res.ErrorMessage())), nil)
	case strings.TrimSpace(res.Stderr) != "":
		log.Debug("tool reported diagnostics", "tool", tool, "exit_code", res.ExitCode)
		return &domain.Failure{Kind: domain.KindExternalTool, Message: strings.TrimSpace(res.Stderr)}
	default:
		log.Error("tool failed without diagnostics", "tool", tool, "exit_code", res.ExitCode, "stdout", res.Stdout)
		return &domain.Failure{Kind: domain.KindInfrastructure, Message: fmt.Sprintf("%s failed: %s", tool, res.ErrorMessage())}
	}
}

// execTool runs a command and folds launch errors and unsuccessful exits
// into a failure.
func execTool(ctx context.Context, runner ProcessRunner, log *slog.Logger, cmd Command) (*domain.ProcessExecutionResult, *domain.Failure) {
	tool := toolName(cmd.Name)
	log.Debug("running tool", "tool", tool, "args", cmd.Args, "dir", cmd.Dir)

	res, err := runner.Run(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return nil, failureFrom(log, "operation cancelled", ctx.Err())
		}
		return nil, infraFailure(log, fmt.Sprintf("failed to launch %s", tool), err)
	}
	if !res.Success {
		return res, toolFailure(log, tool, res)
	}
	log.Debug("tool finished", "tool", tool, "duration", res.Duration)
	return res, nil
}

func toolName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
