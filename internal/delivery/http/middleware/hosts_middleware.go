package middleware

import (
	"net"
	"net/http"
	"strings"

	"go-therapy-platform/pkg/response"
)

// AllowedHosts rejects requests whose Host header is not listed. A "*"
// entry, or an empty list, disables the check. A leading dot matches
// subdomains.
func AllowedHosts(hosts []string) func(http.Handler) http.Handler {
	allowAll := len(hosts) == 0
	for _, h := range hosts {
		if h == "*" {
			allowAll = true
		}
	}

	return func(next http.Handler) http.Handler {
		if allowAll {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hostAllowed(r.Host, hosts) {
				response.Error(w, http.StatusBadRequest, "Invalid Host header", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hostAllowed(host string, allowed []string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	for _, candidate := range allowed {
		candidate = strings.ToLower(candidate)
		if strings.HasPrefix(candidate, ".") {
			if host == candidate[1:] || strings.HasSuffix(host, candidate) {
				return true
			}
			continue
		}
		if host == candidate {
			return true
		}
	}
	return false
}
