package middleware

import (
	"net/http"
	"strings"
)

type CORSMiddleware struct {
	origins  map[string]struct{}
	allowAny bool
}

// NewCORSMiddleware allows the given origins to make credentialed requests.
// An empty list, or "*", allows any origin without credentials.
func NewCORSMiddleware(trustedOrigins []string) *CORSMiddleware {
	m := &CORSMiddleware{origins: make(map[string]struct{}, len(trustedOrigins))}
	for _, origin := range trustedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			m.allowAny = true
			continue
		}
		if origin != "" {
			m.origins[origin] = struct{}{}
		}
	}
	if len(m.origins) == 0 {
		m.allowAny = true
	}
	return m
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		if _, trusted := m.origins[origin]; trusted {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		} else if m.allowAny {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-CSRFToken")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, req)
	})
}

// IsTrusted reports whether origin was configured as trusted.
func (m *CORSMiddleware) IsTrusted(origin string) bool {
	_, ok := m.origins[strings.TrimRight(origin, "/")]
	return ok
}
