// Package metrics exposes Prometheus counters for sequence engine outcomes.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/thenoetrevino/tramo/internal/sequence"
)

const namespace = "tramo"

// Result label values
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultRejected = "rejected"
	ResultCorrupt  = "corrupt"
	ResultError    = "error"
)

// Recorder implements sequence.Recorder on top of Prometheus counters
type Recorder struct {
	operations *prometheus.CounterVec
	degraded   *prometheus.CounterVec
}

var _ sequence.Recorder = (*Recorder)(nil)

// NewRecorder registers the sequence counters with reg. A nil registerer
// gets a private registry so callers that do not scrape still work.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	operations := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sequence",
		Name:      "operations_total",
		Help:      "Sequence mutations by node kind, operation and result",
	}, []string{"kind", "op", "result"})

	degraded := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sequence",
		Name:      "degraded_lists_total",
		Help:      "Reads that found a broken chain, by node kind and reason",
	}, []string{"kind", "reason"})

	return &Recorder{operations: operations, degraded: degraded}
}

// ObserveOperation counts one engine mutation
func (r *Recorder) ObserveOperation(kind, op string, err error) {
	r.operations.WithLabelValues(kind, op, Result(err)).Inc()
}

// ObserveDegraded counts one read of a broken chain
func (r *Recorder) ObserveDegraded(kind, reason string) {
	r.degraded.WithLabelValues(kind, reason).Inc()
}

// Result maps an engine error to its label value
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, sequence.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, sequence.ErrCorruptChain), errors.Is(err, sequence.ErrAmbiguous):
		return ResultCorrupt
	case errors.Is(err, sequence.ErrSelfReference), errors.Is(err, sequence.ErrInvalidNode):
		return ResultRejected
	default:
		return ResultError
	}
}
