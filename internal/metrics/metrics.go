package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curvas_http_requests_total",
		Help: "HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "curvas_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	TicketsSold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "curvas_tickets_sold_total",
		Help: "Tickets created.",
	})

	SlotsAllocated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "curvas_slots_allocated_total",
		Help: "Score slots moved from available to sold.",
	})

	CurvasOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "curvas_curvas_opened_total",
		Help: "Curvas opened, including transparent openings on exhaustion.",
	})

	HouseWins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "curvas_house_wins_total",
		Help: "House-wins events recorded at settlement.",
	}, []string{"reason"})

	SettlementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "curvas_settlement_duration_seconds",
		Help:    "Wall time of one end-match settlement run.",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler exposes the prometheus scrape endpoint as a gin handler
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware records request counts and latency per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
