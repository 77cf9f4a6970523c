package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UpdatesProcessed     prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
	BookingsCreated      prometheus.Counter
	OrdersCreated        prometheus.Counter
	CatalogErrors        prometheus.Counter
	NotificationsSent    prometheus.Counter
	PanicsRecovered      prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		UpdatesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bot_updates_processed_total",
			Help: "Total number of Telegram updates processed",
		}),
		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bot_update_processing_seconds",
			Help:    "Time spent processing a single update",
			Buckets: prometheus.DefBuckets,
		}),
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bot_bookings_created_total",
			Help: "Total number of bookings submitted to the salon API",
		}),
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bot_orders_created_total",
			Help: "Total number of product orders submitted to the salon API",
		}),
		CatalogErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bot_catalog_errors_total",
			Help: "Total number of failed salon API requests",
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bot_notifications_sent_total",
			Help: "Total number of staff notifications delivered",
		}),
		PanicsRecovered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bot_panics_recovered_total",
			Help: "Total number of panics recovered in update handlers",
		}),
	}
}
