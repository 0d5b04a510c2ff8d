package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/trebuchet-org/scgen/internal/domain"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// Recorder holds the pipeline's Prometheus metrics
type Recorder struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	ProcessRunsTotal  *prometheus.CounterVec
}

// NewRecorder creates the pipeline metrics and registers them with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scgen_operations_total",
				Help: "Total number of pipeline operations by outcome",
			},
			[]string{"chain", "operation", "outcome"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "scgen_operation_duration_seconds",
				Help: "Pipeline operation duration in seconds",
				// Native builds run for minutes
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 900},
			},
			[]string{"chain", "operation"},
		),
		ProcessRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scgen_process_runs_total",
				Help: "Total number of external tool invocations by outcome",
			},
			[]string{"tool", "outcome"},
		),
	}

	reg.MustRegister(r.OperationsTotal, r.OperationDuration, r.ProcessRunsTotal)
	return r
}

// ObserveOperation records one finished chain operation
func (r *Recorder) ObserveOperation(chain domain.ChainTarget, operation, outcome string, duration time.Duration) {
	r.OperationsTotal.WithLabelValues(string(chain), operation, outcome).Inc()
	r.OperationDuration.WithLabelValues(string(chain), operation).Observe(duration.Seconds())
}

// ObserveProcess records one external tool invocation
func (r *Recorder) ObserveProcess(tool, outcome string) {
	r.ProcessRunsTotal.WithLabelValues(tool, outcome).Inc()
}

var _ usecase.MetricsRecorder = (*Recorder)(nil)
