package narrative

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Yates-Labs/storyjourney/internal/story"
)

const (
	statusSuccess = "success"
	statusAbsent  = "absent"
)

// Metrics holds the prometheus collectors for generation calls.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the generation collectors on reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storyjourney_generation_requests_total",
				Help: "Total number of generation requests by operation and outcome.",
			},
			[]string{"op", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storyjourney_generation_duration_seconds",
				Help:    "Histogram of generation request durations.",
				Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"op"},
		),
	}
}

// InstrumentedClient records request counts and latencies for a Client.
type InstrumentedClient struct {
	next    Client
	metrics *Metrics
}

// NewInstrumentedClient wraps next with metrics.
func NewInstrumentedClient(next Client, metrics *Metrics) *InstrumentedClient {
	return &InstrumentedClient{next: next, metrics: metrics}
}

func (c *InstrumentedClient) GenerateText(ctx context.Context, messages []story.Message) (string, error) {
	start := time.Now()
	text, err := c.next.GenerateText(ctx, messages)
	c.observe(OpText, start, err, statusSuccess)
	return text, err
}

func (c *InstrumentedClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	url, err := c.next.GenerateImage(ctx, prompt)
	status := statusSuccess
	if err == nil && url == "" {
		status = statusAbsent
	}
	c.observe(OpImage, start, err, status)
	return url, err
}

func (c *InstrumentedClient) observe(op Op, start time.Time, err error, okStatus string) {
	status := okStatus
	if err != nil {
		status = "error"
		if cause := CauseOf(err); cause != "" {
			status = "error_" + string(cause)
		}
	}
	c.metrics.requests.WithLabelValues(string(op), status).Inc()
	c.metrics.duration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
}
