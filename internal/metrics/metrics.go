// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchTransitions counts successful lifecycle events: propose, accept, reject, close.
	MatchTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutormatch_match_transitions_total",
		Help: "Match lifecycle transitions by event.",
	}, []string{"event"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tutormatch_ws_connections",
		Help: "Live WebSocket subscriptions on this instance.",
	})

	// Messages counts persisted messages by the channel they came in on (rest, ws).
	Messages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutormatch_messages_total",
		Help: "Messages sent by channel.",
	}, []string{"channel"})

	RelayDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tutormatch_relay_dropped_total",
		Help: "Subscriptions dropped because their send buffer was full.",
	})
)
