package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/pkg/metrics"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

var noContent = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func withRole(r *http.Request, role entity.Role) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), RoleKey, role))
}

func TestRequireCapability(t *testing.T) {
	h := RequireCapability(entity.CapSearchPatients)(noContent)

	tests := []struct {
		name string
		role entity.Role
		want int
	}{
		{"patient", entity.RolePatient, http.StatusForbidden},
		{"therapist", entity.RoleTherapist, http.StatusNoContent},
		{"admin", entity.RoleAdmin, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodGet, "/", nil), tt.role))
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(entity.RolePatient)(noContent)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodGet, "/", nil), entity.RolePatient))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withRole(httptest.NewRequest(http.MethodGet, "/", nil), entity.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimiterPerClient(t *testing.T) {
	m := metrics.NewMetrics("test")
	h := NewRateLimiter(RateLimiterConfig{Rate: rate.Every(time.Hour), Burst: 2}, m).RateLimit(noContent)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.2"))

	assert.Equal(t, float64(1), promtest.ToFloat64(m.RateLimited.WithLabelValues("unmatched")))
}

func TestRateLimiterIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	h := NewRateLimiter(RateLimiterConfig{Rate: rate.Every(time.Hour), Burst: 2}, nil).RateLimit(noContent)

	passed := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusNoContent {
			passed++
		}
	}
	assert.Equal(t, 2, passed)
}

func TestRateLimiterHonoursTrustedProxy(t *testing.T) {
	h := NewRateLimiter(RateLimiterConfig{
		Rate:           rate.Every(time.Hour),
		Burst:          1,
		TrustedProxies: []string{"10.0.0.0/8"},
	}, nil).RateLimit(noContent)

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.1.2.3:443"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("198.51.100.7"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.7"))
	assert.Equal(t, http.StatusNoContent, send("198.51.100.8"))
	// A client-prepended hop does not hide the address the proxy saw.
	assert.Equal(t, http.StatusTooManyRequests, send("1.2.3.4, 198.51.100.8"))
}

func TestTrustedProxiesClientIP(t *testing.T) {
	tp := NewTrustedProxies([]string{"192.168.1.10", "10.0.0.0/8", "not-an-ip"})

	tests := []struct {
		name      string
		remote    string
		forwarded string
		want      string
	}{
		{"untrusted peer", "203.0.113.5:1000", "1.1.1.1", "203.0.113.5"},
		{"trusted ip without header", "192.168.1.10:1000", "", "192.168.1.10"},
		{"trusted ip", "192.168.1.10:1000", "1.1.1.1", "1.1.1.1"},
		{"proxy chain", "10.0.0.2:1000", "1.1.1.1, 10.0.0.9", "1.1.1.1"},
		{"garbage hop", "10.0.0.2:1000", "junk", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, tp.ClientIP(req))
		})
	}
}

func TestAllowedHosts(t *testing.T) {
	h := AllowedHosts([]string{"api.example.com", ".example.org"})(noContent)

	for host, want := range map[string]int{
		"api.example.com:8000": http.StatusNoContent,
		"example.org":          http.StatusNoContent,
		"app.example.org":      http.StatusNoContent,
		"evil.test":            http.StatusBadRequest,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, host)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "anything.test"
	rec := httptest.NewRecorder()
	AllowedHosts([]string{"*"})(noContent).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCSRFSkipsBearerRequests(t *testing.T) {
	csrf := NewCSRFMiddleware(NewCORSMiddleware(nil), false)
	h := csrf.Protect(noContent)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), AuthViaCookieKey, true))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRecovery(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	h := Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "boom", hook.LastEntry().Data["panic"])
}

func TestRecoveryRepanicsAbortHandler(t *testing.T) {
	h := Recovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
