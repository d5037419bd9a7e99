package middleware

import (
	"net/http"
	"strconv"
	"time"

	"go-therapy-platform/pkg/metrics"

	"github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs every request and records the HTTP metrics.
type RequestLogger struct {
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewRequestLogger(log *logrus.Logger, m *metrics.Metrics) *RequestLogger {
	return &RequestLogger{log: log, metrics: m}
}

func (l *RequestLogger) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		latency := time.Since(start)
		route := routeTemplate(r)

		if l.metrics != nil {
			l.metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			l.metrics.HTTPLatency.WithLabelValues(r.Method, route).Observe(latency.Seconds())
		}

		entry := l.log.WithFields(logrus.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"route":     route,
			"status":    rec.status,
			"latency":   latency.String(),
			"client_ip": peerIP(r),
		})
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			entry = entry.WithField("forwarded_for", forwarded)
		}
		switch {
		case rec.status >= 500:
			entry.Error("Server error")
		case rec.status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request processed")
		}
	})
}
