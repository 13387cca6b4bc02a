// Package metrics exposes ingestion and ledger counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "leltar"

// Recorder methods are safe to call on a nil receiver so that callers such
// as the CLI can run without a registry.
type Recorder struct {
	uploads         *prometheus.CounterVec
	rowsIngested    *prometheus.CounterVec
	rowsDropped     *prometheus.CounterVec
	rowsClamped     prometheus.Counter
	catalogCreated  prometheus.Counter
	catalogConflict prometheus.Counter
	transfers       *prometheus.CounterVec
	partialFailures *prometheus.CounterVec
	gatherer        prometheus.Gatherer
}

func NewRecorder(reg *prometheus.Registry) *Recorder {
	r := &Recorder{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Month uploads by input format and result.",
		}, []string{"format", "result"}),
		rowsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_rows_ingested_total",
			Help:      "Snapshot rows written by uploads, per warehouse.",
		}, []string{"warehouse"}),
		rowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_rows_dropped_total",
			Help:      "Malformed CSV rows skipped during parsing.",
		}, []string{"format"}),
		rowsClamped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_negative_theoretical_clamped_total",
			Help:      "Negative theoretical values clamped to zero.",
		}),
		catalogCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_products_created_total",
			Help:      "Products created by the catalog resolver.",
		}),
		catalogConflict: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_create_conflicts_total",
			Help:      "Product creations that hit the unique name constraint.",
		}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_operations_total",
			Help:      "Transfer ledger operations by kind and result.",
		}, []string{"operation", "result"}),
		partialFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partial_failures_total",
			Help:      "Write sequences that stopped after some statements succeeded.",
		}, []string{"operation"}),
		gatherer: reg,
	}

	reg.MustRegister(
		r.uploads,
		r.rowsIngested,
		r.rowsDropped,
		r.rowsClamped,
		r.catalogCreated,
		r.catalogConflict,
		r.transfers,
		r.partialFailures,
	)

	return r
}

func (r *Recorder) Upload(format string, err error) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(format, result(err)).Inc()
}

func (r *Recorder) RowsIngested(warehouse string, n int) {
	if r == nil {
		return
	}
	r.rowsIngested.WithLabelValues(warehouse).Add(float64(n))
}

func (r *Recorder) RowsDropped(format string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.rowsDropped.WithLabelValues(format).Add(float64(n))
}

func (r *Recorder) RowsClamped(n int) {
	if r == nil || n == 0 {
		return
	}
	r.rowsClamped.Add(float64(n))
}

func (r *Recorder) ProductsCreated(n int) {
	if r == nil || n == 0 {
		return
	}
	r.catalogCreated.Add(float64(n))
}

func (r *Recorder) CatalogConflict() {
	if r == nil {
		return
	}
	r.catalogConflict.Inc()
}

func (r *Recorder) Transfer(operation string, err error) {
	if r == nil {
		return
	}
	r.transfers.WithLabelValues(operation, result(err)).Inc()
}

func (r *Recorder) PartialFailure(operation string) {
	if r == nil {
		return
	}
	r.partialFailures.WithLabelValues(operation).Inc()
}

func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
