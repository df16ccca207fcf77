package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Stats collects per-route request metrics when enabled through
// ENABLE_SWAGGER_STATS. It is safe for concurrent use.
type Stats struct {
	mu       sync.Mutex
	service  string
	hostname string
	started  time.Time
	total    int64
	routes   map[string]*routeStats
}

type routeStats struct {
	Count      int64         `json:"count"`
	ByStatus   map[int]int64 `json:"byStatus"`
	TotalMicro int64         `json:"totalDurationMicros"`
	MaxMicro   int64         `json:"maxDurationMicros"`
}

func NewStats(service, hostname string) *Stats {
	return &Stats{
		service:  service,
		hostname: hostname,
		started:  time.Now(),
		routes:   make(map[string]*routeStats),
	}
}

// Middleware records method, route and status with the request duration.
func (s *Stats) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		s.record(c.Request.Method+" "+route, c.Writer.Status(), time.Since(start))
	}
}

func (s *Stats) record(key string, status int, dur time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	rs, ok := s.routes[key]
	if !ok {
		rs = &routeStats{ByStatus: make(map[int]int64)}
		s.routes[key] = rs
	}
	rs.Count++
	rs.ByStatus[status]++

	micros := dur.Microseconds()
	rs.TotalMicro += micros
	if micros > rs.MaxMicro {
		rs.MaxMicro = micros
	}
}

// Handler serves a snapshot of the collected metrics.
func (s *Stats) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		routes := make(map[string]routeStats, len(s.routes))
		for key, rs := range s.routes {
			byStatus := make(map[int]int64, len(rs.ByStatus))
			for status, n := range rs.ByStatus {
				byStatus[status] = n
			}
			copied := *rs
			copied.ByStatus = byStatus
			routes[key] = copied
		}
		// Durations are reported in microseconds throughout.
		snapshot := gin.H{
			"service":      s.service,
			"hostname":     s.hostname,
			"uptimeMicros": time.Since(s.started).Microseconds(),
			"total":        s.total,
			"routes":       routes,
		}
		s.mu.Unlock()

		c.JSON(http.StatusOK, snapshot)
	}
}
