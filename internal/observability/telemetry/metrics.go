package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Real-time channel metrics
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "citypulse_ws_active_connections",
		Help: "Number of open notification WebSocket sessions",
	})

	PayloadsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citypulse_ws_payloads_delivered_total",
		Help: "Payloads handed to a connected session",
	})

	PayloadsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citypulse_ws_payloads_dropped_total",
		Help: "Payloads dropped instead of delivered",
	}, []string{"reason"})

	// Dispatcher metrics
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citypulse_notifications_created_total",
		Help: "Notification rows written, by triggering event",
	}, []string{"event"})

	// Domain metrics
	ComplaintsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citypulse_complaints_created_total",
		Help: "Complaints submitted, by category",
	}, []string{"category"})
)
