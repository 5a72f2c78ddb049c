// Package metrics expone los contadores Prometheus del núcleo comercial.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	leadsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of leads created",
		},
		[]string{"source"},
	)

	leadConversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_conversions_total",
			Help: "Lead to company conversions by result",
		},
		[]string{"result"},
	)

	notificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Notifications persisted by type and origin",
		},
		[]string{"type", "origin"},
	)

	sweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_sweep_duration_seconds",
			Help:    "Duration of a notification sweep for one user",
			Buckets: prometheus.DefBuckets,
		},
	)

	sweepLeadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_sweep_lead_errors_total",
			Help: "Leads skipped during a sweep because of an error",
		},
	)

	deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_deliveries_total",
			Help: "Outbound notification deliveries by channel and status",
		},
		[]string{"channel", "status"},
	)
)

// HTTP registra conteo y latencia por ruta registrada (no por URL cruda).
func HTTP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		httpRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func RecordLeadCreated(source string) {
	leadsCreated.WithLabelValues(source).Inc()
}

// RecordConversion result: "ok", "conflict" o "error".
func RecordConversion(result string) {
	leadConversions.WithLabelValues(result).Inc()
}

func RecordNotification(notificationType, origin string) {
	notificationsCreated.WithLabelValues(notificationType, origin).Inc()
}

func ObserveSweep(d time.Duration) {
	sweepDuration.Observe(d.Seconds())
}

func RecordSweepLeadError() {
	sweepLeadErrors.Inc()
}

func RecordDelivery(channel, status string) {
	deliveries.WithLabelValues(channel, status).Inc()
}
