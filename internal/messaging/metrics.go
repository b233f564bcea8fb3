// internal/messaging/metrics.go

package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messaging_messages_sent_total",
		Help: "Total number of messages sent, by result",
	}, []string{"result"})

	gateDenialsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "messaging_gate_denials_total",
		Help: "Total number of conversation requests denied by the gate",
	})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "messaging_ws_connections_active",
		Help: "Number of active websocket connections",
	})
)

func recordMessageSent(result string) {
	messagesSentTotal.WithLabelValues(result).Inc()
}

func recordGateDenial() {
	gateDenialsTotal.Inc()
}
