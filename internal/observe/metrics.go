// Package observe provides application-wide observability primitives for
// Parlo: OpenTelemetry metrics, tracing helpers, structured logging, and HTTP
// middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Parlo metrics.
const meterName = "github.com/parlo-app/parlo"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Counters ---

	// CaptureSessions counts started speech-capture sessions.
	CaptureSessions metric.Int64Counter

	// CaptureErrors counts surfaced capture errors. Use with attribute:
	//   attribute.String("kind", ...)
	CaptureErrors metric.Int64Counter

	// Utterances counts scheduled playback utterances. Use with attribute:
	//   attribute.String("gender", ...)
	Utterances metric.Int64Counter

	// --- Score distributions ---

	// SentenceAccuracy tracks sentence-mode accuracy results (0–100).
	SentenceAccuracy metric.Float64Histogram

	// WordPronunciation tracks vocabulary-mode pronunciation scores (0–100).
	WordPronunciation metric.Float64Histogram

	// --- Gauges ---

	// ActiveConnections tracks the number of live practice WebSocket sessions.
	ActiveConnections metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// scoreBuckets defines histogram bucket boundaries for 0–100 score values.
var scoreBuckets = []float64{
	10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 100,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Counters.
	if met.CaptureSessions, err = m.Int64Counter("parlo.capture.sessions",
		metric.WithDescription("Total speech-capture sessions started."),
	); err != nil {
		return nil, err
	}
	if met.CaptureErrors, err = m.Int64Counter("parlo.capture.errors",
		metric.WithDescription("Total surfaced capture errors by kind."),
	); err != nil {
		return nil, err
	}
	if met.Utterances, err = m.Int64Counter("parlo.playback.utterances",
		metric.WithDescription("Total scheduled playback utterances by voice gender."),
	); err != nil {
		return nil, err
	}

	// Score distributions.
	if met.SentenceAccuracy, err = m.Float64Histogram("parlo.score.sentence_accuracy",
		metric.WithDescription("Distribution of sentence-mode accuracy results."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	); err != nil {
		return nil, err
	}
	if met.WordPronunciation, err = m.Float64Histogram("parlo.score.word_pronunciation",
		metric.WithDescription("Distribution of vocabulary-mode pronunciation scores."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveConnections, err = m.Int64UpDownCounter("parlo.active_connections",
		metric.WithDescription("Number of live practice WebSocket sessions."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("parlo.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordCaptureSession records one started capture session.
func (m *Metrics) RecordCaptureSession(ctx context.Context) {
	m.CaptureSessions.Add(ctx, 1)
}

// RecordCaptureError records one surfaced capture error of the given kind.
func (m *Metrics) RecordCaptureError(ctx context.Context, kind string) {
	m.CaptureErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}

// RecordUtterance records one scheduled playback utterance.
func (m *Metrics) RecordUtterance(ctx context.Context, gender string) {
	m.Utterances.Add(ctx, 1,
		metric.WithAttributes(attribute.String("gender", gender)),
	)
}

// RecordSentenceAccuracy records a sentence-mode accuracy result.
func (m *Metrics) RecordSentenceAccuracy(ctx context.Context, accuracy int) {
	m.SentenceAccuracy.Record(ctx, float64(accuracy))
}

// RecordWordPronunciation records a vocabulary-mode pronunciation score.
func (m *Metrics) RecordWordPronunciation(ctx context.Context, score int) {
	m.WordPronunciation.Record(ctx, float64(score))
}
