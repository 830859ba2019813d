package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iface_api_requests_total",
			Help: "Number of API requests",
		},
		[]string{"method", "path", "status"},
	)
	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iface_api_latency_seconds",
			Help:    "API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	Interfaces = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iface_registered_total",
			Help: "Number of registered interfaces by source",
		},
		[]string{"source"},
	)
	Evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iface_form_evaluations_total",
			Help: "Settings form evaluations",
		},
		[]string{"interface"},
	)
	ValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iface_form_validation_failures_total",
			Help: "Settings form submissions rejected by validation",
		},
		[]string{"interface"},
	)
	FrameBlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "iface_frame_blocked_total",
			Help: "Preview URLs not covered by the frame-src policy",
		},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequests,
		APILatency,
		Interfaces,
		Evaluations,
		ValidationFailures,
		FrameBlocked,
	)
}

// InterfaceCounter is implemented by registries able to count entries per source.
type InterfaceCounter interface {
	CountBySource(ctx context.Context) (map[string]int, error)
}

// StartInterfaceGauge updates the interface gauge every interval until ctx is done.
func StartInterfaceGauge(ctx context.Context, c InterfaceCounter, interval time.Duration, onErr func(error)) {
	if c == nil {
		return
	}
	update := func() {
		counts, err := c.CountBySource(ctx)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		for s, n := range counts {
			Interfaces.WithLabelValues(s).Set(float64(n))
		}
	}
	update()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				update()
			}
		}
	}()
}
