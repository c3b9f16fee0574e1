package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "doclinks"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry     *prom.Registry
	runDuration  prom.Histogram
	runOutcomes  *prom.CounterVec
	filesChecked prom.Gauge
	references   prom.Counter
	diagnostics  *prom.CounterVec
	fileErrors   prom.Counter
}

// NewPrometheusRecorder constructs metrics and registers them with reg, or
// with a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of link check runs",
			Buckets:   prom.DefBuckets,
		}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Check runs by outcome",
		}, []string{"outcome"}),
		filesChecked: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "files_checked",
			Help:      "Documents parsed in the last run",
		}),
		references: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "references_total",
			Help:      "Link occurrences resolved to local targets",
		}),
		diagnostics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Unresolved link occurrences by rule",
		}, []string{"rule"}),
		fileErrors: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "file_errors_total",
			Help:      "Documents that could not be read or parsed",
		}),
	}
	reg.MustRegister(pr.runDuration, pr.runOutcomes, pr.filesChecked, pr.references, pr.diagnostics, pr.fileErrors)
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

// WriteTextfile writes all gathered metrics to path in the text exposition
// format, atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome Outcome) {
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetFilesChecked(n int) { p.filesChecked.Set(float64(n)) }

func (p *PrometheusRecorder) AddReferences(n int) { p.references.Add(float64(n)) }

func (p *PrometheusRecorder) IncDiagnostic(rule string) {
	p.diagnostics.WithLabelValues(rule).Inc()
}

func (p *PrometheusRecorder) AddFileErrors(n int) { p.fileErrors.Add(float64(n)) }
