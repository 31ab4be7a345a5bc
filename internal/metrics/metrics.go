// Package metrics provides Prometheus metrics for the ingestion and answer pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for GRASP
type Metrics struct {
	IngestionsTotal   *prometheus.CounterVec
	IngestionDuration *prometheus.HistogramVec
	ChunksIndexed     *prometheus.CounterVec
	QuestionsTotal    *prometheus.CounterVec
	QuestionDuration  *prometheus.HistogramVec
	ProviderCalls     *prometheus.CounterVec
	ProviderDuration  *prometheus.HistogramVec
	ActiveEngines     prometheus.Gauge
	FeedbackTotal     prometheus.Counter
}

// New creates all metrics and registers them with reg.
// A nil reg keeps the metrics unregistered, which is handy in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		IngestionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grasp_ingestions_total",
				Help: "Total number of source ingestions",
			},
			[]string{"source", "status"},
		),
		IngestionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grasp_ingestion_duration_seconds",
				Help:    "Duration of source ingestion in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"source"},
		),
		ChunksIndexed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grasp_chunks_indexed_total",
				Help: "Total number of chunks embedded and indexed",
			},
			[]string{"source"},
		),
		QuestionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grasp_questions_total",
				Help: "Total number of answered questions",
			},
			[]string{"source", "status"},
		),
		QuestionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grasp_question_duration_seconds",
				Help:    "Duration of retrieval plus generation in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		ProviderCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grasp_provider_calls_total",
				Help: "Total number of calls to external providers",
			},
			[]string{"provider", "status"},
		),
		ProviderDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grasp_provider_call_duration_seconds",
				Help:    "Duration of external provider calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		ActiveEngines: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "grasp_active_engines",
				Help: "Number of query engines currently ready",
			},
		),
		FeedbackTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "grasp_feedback_total",
				Help: "Total number of feedback submissions",
			},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordIngestion records one Configure call.
func (m *Metrics) RecordIngestion(source string, chunks int, duration time.Duration, err error) {
	m.IngestionsTotal.WithLabelValues(source, status(err)).Inc()
	m.IngestionDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err == nil {
		m.ChunksIndexed.WithLabelValues(source).Add(float64(chunks))
	}
}

// RecordQuestion records one answered (or failed) question.
func (m *Metrics) RecordQuestion(source string, duration time.Duration, err error) {
	m.QuestionsTotal.WithLabelValues(source, status(err)).Inc()
	m.QuestionDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordProviderCall records a call to an embedding, language-model or speech provider.
func (m *Metrics) RecordProviderCall(provider string, duration time.Duration, err error) {
	m.ProviderCalls.WithLabelValues(provider, status(err)).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(duration.Seconds())
}
