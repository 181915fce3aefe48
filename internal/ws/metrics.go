package ws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "ws",
		Name:      "events_delivered_total",
		Help:      "Socket events handed to a live connection, by event name.",
	}, []string{"event"})

	eventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "ws",
		Name:      "events_dropped_total",
		Help:      "Socket events dropped (slow client or aborted fan-out), by reason.",
	}, []string{"reason"})

	connectionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "portal",
		Subsystem: "ws",
		Name:      "connections",
		Help:      "Live websocket connections.",
	})
)
