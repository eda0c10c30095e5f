package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Reference code metrics
	CodesIssuedTotal *prometheus.CounterVec
	CodeRetriesTotal *prometheus.CounterVec

	// Intake metrics
	MeasurementsTotal *prometheus.CounterVec
	OrdersCreated     prometheus.Counter
	MilestonesSet     *prometheus.CounterVec

	// Reminder metrics
	RemindersTotal *prometheus.CounterVec

	initOnce sync.Once
)

// InitMetrics registers the collectors with the default registry.
// Until it is called every Record helper is a no-op.
func InitMetrics(prefix string) {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		)

		CodesIssuedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_codes_issued_total",
				Help: "Reference codes issued per family",
			},
			[]string{"family"},
		)

		CodeRetriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_code_retries_total",
				Help: "Code issuance retries caused by uniqueness violations",
			},
			[]string{"family"},
		)

		MeasurementsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_measurements_total",
				Help: "Measurement rows seen by intake, by outcome",
			},
			[]string{"outcome"},
		)

		OrdersCreated = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_orders_created_total",
				Help: "Total number of orders created through intake",
			},
		)

		MilestonesSet = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_order_milestones_set_total",
				Help: "Order milestone timestamps set",
			},
			[]string{"milestone"},
		)

		RemindersTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_pickup_reminders_total",
				Help: "Pickup reminders by delivery status",
			},
			[]string{"status"},
		)
	})
}

// ObserveHTTPRequest records one served request
func ObserveHTTPRequest(method, path, status string, started time.Time) {
	if HTTPRequestsTotal == nil {
		return
	}
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(started).Seconds())
}

func RecordCodeIssued(family string) {
	if CodesIssuedTotal != nil {
		CodesIssuedTotal.WithLabelValues(family).Inc()
	}
}

func RecordCodeRetry(family string) {
	if CodeRetriesTotal != nil {
		CodeRetriesTotal.WithLabelValues(family).Inc()
	}
}

// RecordMeasurements counts saved, dropped (all fields empty) and skipped
// (no category) rows from one intake.
func RecordMeasurements(saved, dropped, skipped int) {
	if MeasurementsTotal == nil {
		return
	}
	MeasurementsTotal.WithLabelValues("saved").Add(float64(saved))
	MeasurementsTotal.WithLabelValues("dropped").Add(float64(dropped))
	MeasurementsTotal.WithLabelValues("skipped").Add(float64(skipped))
}

func RecordOrderCreated() {
	if OrdersCreated != nil {
		OrdersCreated.Inc()
	}
}

func RecordMilestone(name string) {
	if MilestonesSet != nil {
		MilestonesSet.WithLabelValues(name).Inc()
	}
}

func RecordReminder(status string) {
	if RemindersTotal != nil {
		RemindersTotal.WithLabelValues(status).Inc()
	}
}
