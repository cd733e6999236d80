package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	VoiceRequests     *prometheus.CounterVec
	TTSRequests       *prometheus.CounterVec
	SessionEvents     *prometheus.CounterVec
	StreamMessages    *prometheus.CounterVec
	ProviderErrors    *prometheus.CounterVec
	StoredSessions    prometheus.Gauge
	ProcessingLatency prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		VoiceRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_requests_total",
			Help:      "Voice processing requests by outcome.",
		}, []string{"outcome"}),
		TTSRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tts_requests_total",
			Help:      "Text-to-speech requests by outcome.",
		}, []string{"outcome"}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session events by type.",
		}, []string{"event"}),
		StreamMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_messages_total",
			Help:      "Realtime stream messages by direction and type.",
		}, []string{"direction", "type"}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Provider errors by provider and code.",
		}, []string{"provider", "code"}),
		StoredSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_sessions",
			Help:      "Number of session records currently stored.",
		}),
		ProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "voice_processing_latency_ms",
			Help:      "End-to-end process-voice latency in milliseconds.",
			Buckets:   []float64{100, 300, 500, 1000, 2000, 3000, 5000, 10000},
		}),
	}
}

func (m *Metrics) ObserveProcessingLatency(d time.Duration) {
	m.ProcessingLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
