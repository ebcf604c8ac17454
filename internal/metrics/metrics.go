// Package metrics counts the effects dispatched by the portal screens.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "docflow"

// Recorder holds the portal counters on a private registry. A nil *Recorder
// is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	bulkActions        *prometheus.CounterVec
	recordsDeleted     *prometheus.CounterVec
	recordsCreated     *prometheus.CounterVec
	reviewDecisions    *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
}

// New constructs a Recorder with its counters registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		bulkActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_actions_total",
			Help:      "Bulk actions dispatched, by screen and action.",
		}, []string{"screen", "action"}),
		recordsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_deleted_total",
			Help:      "Records removed from a screen's store.",
		}, []string{"screen"}),
		recordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Records created through a screen's form.",
		}, []string{"screen"}),
		reviewDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_decisions_total",
			Help:      "Review decisions submitted, by outcome.",
		}, []string{"outcome"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Form submissions blocked by validation, by form.",
		}, []string{"form"}),
	}
	r.registry.MustRegister(
		r.bulkActions,
		r.recordsDeleted,
		r.recordsCreated,
		r.reviewDecisions,
		r.validationFailures,
	)
	return r
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// BulkAction counts one dispatched bulk action.
func (r *Recorder) BulkAction(screen, action string) {
	if r == nil {
		return
	}
	r.bulkActions.WithLabelValues(screen, action).Inc()
}

// RecordsDeleted adds n deleted records for screen.
func (r *Recorder) RecordsDeleted(screen string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.recordsDeleted.WithLabelValues(screen).Add(float64(n))
}

// RecordCreated counts one created record for screen.
func (r *Recorder) RecordCreated(screen string) {
	if r == nil {
		return
	}
	r.recordsCreated.WithLabelValues(screen).Inc()
}

// ReviewDecision counts one submitted review decision.
func (r *Recorder) ReviewDecision(outcome string) {
	if r == nil {
		return
	}
	r.reviewDecisions.WithLabelValues(outcome).Inc()
}

// ValidationFailure counts one blocked form submission.
func (r *Recorder) ValidationFailure(form string) {
	if r == nil {
		return
	}
	r.validationFailures.WithLabelValues(form).Inc()
}

// WriteText writes every gathered metric family in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	if r == nil {
		return nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
