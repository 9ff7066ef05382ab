// Package metrics defines the Prometheus collectors for the query pipeline
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry        *prometheus.Registry
	QueriesTotal    *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
	CorpusDocuments prometheus.Gauge
	Vocabulary      prometheus.Gauge
	SentencePool    prometheus.Histogram
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "questions_queries_total",
				Help: "Total queries by outcome (answered, failed).",
			},
			[]string{"outcome"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "questions_stage_duration_seconds",
				Help:    "Time spent reaching each pipeline stage.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"stage"},
		),
		CorpusDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "questions_corpus_documents",
				Help: "Documents in the loaded corpus.",
			},
		),
		Vocabulary: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "questions_corpus_vocabulary_terms",
				Help: "Distinct terms in the document IDF table.",
			},
		),
		SentencePool: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "questions_sentence_pool_size",
				Help:    "Sentences ranked per query.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
	m.registry.MustRegister(
		m.QueriesTotal,
		m.StageDuration,
		m.CorpusDocuments,
		m.Vocabulary,
		m.SentencePool,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) ObserveQuery(outcome string) {
	m.QueriesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetCorpus(documents, terms int) {
	m.CorpusDocuments.Set(float64(documents))
	m.Vocabulary.Set(float64(terms))
}

func (m *Metrics) ObserveSentencePool(size int) {
	m.SentencePool.Observe(float64(size))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
