// Package metrics records import pipeline activity for Prometheus.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gig-manager/backend/internal/importer"
)

// Recorder holds the import collectors. It implements importer.Observer.
type Recorder struct {
	rowsParsed    *prometheus.CounterVec
	parseErrors   *prometheus.CounterVec
	rowsCommitted *prometheus.CounterVec
	batches       *prometheus.CounterVec
	batchRows     *prometheus.HistogramVec
	reg           prometheus.Registerer
}

var defaultRecorder = sync.OnceValue(func() *Recorder {
	return New(prometheus.DefaultRegisterer)
})

// Default returns the recorder registered with the default Prometheus registry.
func Default() *Recorder {
	return defaultRecorder()
}

// New creates a recorder whose collectors are registered with reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		rowsParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "import",
			Name:      "rows_parsed_total",
			Help:      "Total number of uploaded rows by validation outcome.",
		}, []string{"type", "outcome"}),
		parseErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "import",
			Name:      "parse_errors_total",
			Help:      "Total number of uploads rejected before validation.",
		}, []string{"type"}),
		rowsCommitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "import",
			Name:      "rows_committed_total",
			Help:      "Total number of commit attempts by result.",
		}, []string{"type", "result"}),
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "import",
			Name:      "batches_total",
			Help:      "Total number of commit batches run.",
		}, []string{"type"}),
		batchRows: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "import",
			Name:      "batch_rows",
			Help:      "Rows attempted per commit batch.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"type"}),
		reg: reg,
	}
}

// ObserveParsed records the validation outcome of a freshly uploaded file.
func (r *Recorder) ObserveParsed(t importer.ImportType, s importer.Summary) {
	r.rowsParsed.WithLabelValues(string(t), "valid").Add(float64(s.Valid))
	r.rowsParsed.WithLabelValues(string(t), "invalid").Add(float64(s.Invalid))
}

// ObserveParseError records an upload rejected as a whole.
func (r *Recorder) ObserveParseError(t importer.ImportType) {
	r.parseErrors.WithLabelValues(string(t)).Inc()
}

// TrackSessions exports the number of live import sessions through count.
func (r *Recorder) TrackSessions(count func() int) error {
	return r.reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "import",
		Name:      "sessions_active",
		Help:      "Current number of in-memory import sessions.",
	}, func() float64 { return float64(count()) }))
}

// RowCommitted implements importer.Observer.
func (r *Recorder) RowCommitted(_ string, t importer.ImportType, _ int, _ string) {
	r.rowsCommitted.WithLabelValues(string(t), "success").Inc()
}

// RowFailed implements importer.Observer.
func (r *Recorder) RowFailed(_ string, t importer.ImportType, _ int, _ error) {
	r.rowsCommitted.WithLabelValues(string(t), "failure").Inc()
}

// BatchCompleted implements importer.Observer.
func (r *Recorder) BatchCompleted(_ string, t importer.ImportType, result importer.CommitResult) {
	r.batches.WithLabelValues(string(t)).Inc()
	r.batchRows.WithLabelValues(string(t)).Observe(float64(result.SuccessCount + len(result.Errors)))
}
