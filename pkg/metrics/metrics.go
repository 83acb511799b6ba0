package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	turnsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatbot_turns_total",
		Help: "Dialogue turns processed, by resolution method",
	}, []string{"method"})

	intentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatbot_intent_total",
		Help: "Dialogue turns processed, by reported intent",
	}, []string{"intent"})

	flowTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatbot_flow_transitions_total",
		Help: "Conversation flow transitions (enter/advance/complete/reprompt/exit/abandon)",
	}, []string{"kind"})

	classifierLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chatbot_classifier_latency_ms",
		Help:    "Latency of classifier predictions in milliseconds",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2000},
	}, []string{"outcome"})

	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chatbot_active_sessions",
		Help: "Dialogue sessions currently held in memory",
	})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(turnsTotal, intentTotal, flowTransitions, classifierLatency, activeSessions)
	})
}

func ObserveTurn(method, intent string) {
	ensureRegistered()
	turnsTotal.WithLabelValues(method).Inc()
	intentTotal.WithLabelValues(intent).Inc()
}

func IncFlowTransition(kind string) {
	ensureRegistered()
	flowTransitions.WithLabelValues(kind).Inc()
}

// ObserveClassifier records one prediction attempt. outcome is ok, error, panic or timeout.
func ObserveClassifier(outcome string, start time.Time) {
	ensureRegistered()
	classifierLatency.WithLabelValues(outcome).Observe(float64(time.Since(start).Milliseconds()))
}

func SetActiveSessions(n int) {
	ensureRegistered()
	activeSessions.Set(float64(n))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	ensureRegistered()
	return promhttp.Handler()
}

func Collectors() []prometheus.Collector {
	return []prometheus.Collector{turnsTotal, intentTotal, flowTransitions, classifierLatency, activeSessions}
}
