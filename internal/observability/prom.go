package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// Remote finance API calls.
	UpstreamDuration *prometheus.HistogramVec
	UpstreamTotal    *prometheus.CounterVec

	// Guard outcomes, labeled by decision (allow|redirect_login|redirect_home).
	GuardDecisions *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "finboard",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "finboard",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "finboard",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "finboard",
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Remote finance API call latency by resource and outcome.",
				Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"resource", "method", "status"},
		),
		UpstreamTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "finboard",
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Remote finance API calls by resource and outcome.",
			},
			[]string{"resource", "method", "status"},
		),
		GuardDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "finboard",
				Subsystem: "guard",
				Name:      "decisions_total",
				Help:      "Route guard outcomes.",
			},
			[]string{"decision"},
		),
	}

	reg.MustRegister(p.RequestsTotal, p.RequestsDuration, p.InFlight, p.UpstreamDuration, p.UpstreamTotal, p.GuardDecisions)

	return p
}

// ObserveUpstream records one remote API call.
func (p *Prom) ObserveUpstream(resource, method, status string, d time.Duration) {
	p.UpstreamDuration.WithLabelValues(resource, method, status).Observe(d.Seconds())
	p.UpstreamTotal.WithLabelValues(resource, method, status).Inc()
}

// CountGuardDecision records one guard outcome.
func (p *Prom) CountGuardDecision(decision string) {
	p.GuardDecisions.WithLabelValues(decision).Inc()
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}
