package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ircbot/ircclient/ircprotocol"
)

var (
	registerOnce sync.Once

	transportBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ircclient",
			Subsystem: "transport",
			Name:      "bytes_total",
			Help:      "Bytes read from the server transport.",
		},
	)
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ircclient",
			Name:      "events_total",
			Help:      "Classified events by type.",
		},
		[]string{"type"},
	)
	carryDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ircclient",
			Name:      "carry_discarded_bytes_total",
			Help:      "Unterminated bytes dropped when the transport closed.",
		},
	)
	sinkErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ircclient",
			Name:      "sink_errors_total",
			Help:      "Failed event sink writes.",
		},
		[]string{"sink"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(transportBytes, eventsTotal, carryDiscarded, sinkErrors)
	})
}

// Metrics feeds the client read loop into the process-wide counters.
type Metrics struct{}

var _ ircprotocol.Observer = Metrics{}

func NewMetrics() Metrics {
	RegisterMetrics()
	return Metrics{}
}

func (Metrics) ChunkReceived(n int) {
	transportBytes.Add(float64(n))
}

func (Metrics) EventClassified(event ircprotocol.Event) {
	eventsTotal.WithLabelValues(event.Type.String()).Inc()
}

func (Metrics) CarryDiscarded(n int) {
	carryDiscarded.Add(float64(n))
}

func RecordSinkError(sink string) {
	RegisterMetrics()
	sinkErrors.WithLabelValues(sink).Inc()
}
