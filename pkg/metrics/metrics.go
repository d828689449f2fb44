package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pairtalk/pairtalk/internal/common/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Frame routing outcomes reported to Prometheus.
const (
	OutcomeDelivered = "delivered"
	OutcomeDropped   = "dropped"
)

type Metrics struct {
	registry      *prometheus.Registry
	namespace     string
	httpReqCnt    *prometheus.CounterVec
	httpDur       *prometheus.HistogramVec
	activeConns   prometheus.Gauge
	framesTotal   *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
	storeFailures prometheus.Counter
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	// Register standard process and Go collectors
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: cfg.Buckets}, []string{"method", "route", "status"})
	r.MustRegister(httpReqCnt, httpDur)

	activeConns := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: "chat_active_connections"})
	framesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "chat_frames_total"}, []string{"kind", "outcome"})
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "chat_deliveries_total"}, []string{"kind"})
	storeFailures := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "chat_store_append_failures_total"})
	r.MustRegister(activeConns, framesTotal, deliveries, storeFailures)

	return &Metrics{
		registry:      r,
		namespace:     ns,
		httpReqCnt:    httpReqCnt,
		httpDur:       httpDur,
		activeConns:   activeConns,
		framesTotal:   framesTotal,
		deliveries:    deliveries,
		storeFailures: storeFailures,
	}
}

// Recording methods tolerate a nil receiver so callers need no guard when
// metrics are disabled.

func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}
	m.activeConns.Inc()
}

func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	m.activeConns.Dec()
}

func (m *Metrics) FrameRouted(kind, outcome string) {
	if m == nil {
		return
	}
	m.framesTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) Delivered(kind string, n int) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) StoreAppendFailed() {
	if m == nil {
		return
	}
	m.storeFailures.Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
