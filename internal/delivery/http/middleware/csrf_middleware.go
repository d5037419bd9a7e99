package middleware

import (
	"crypto/subtle"
	"net/http"
	"net/url"

	"go-therapy-platform/pkg/response"

	"github.com/google/uuid"
)

const (
	CSRFCookie = "csrftoken"
	CSRFHeader = "X-CSRFToken"
)

// CSRFMiddleware applies double-submit protection to cookie-authenticated
// requests. Bearer clients are not exposed to CSRF and pass through.
type CSRFMiddleware struct {
	cors         *CORSMiddleware
	secureCookie bool
}

func NewCSRFMiddleware(cors *CORSMiddleware, secureCookie bool) *CSRFMiddleware {
	return &CSRFMiddleware{cors: cors, secureCookie: secureCookie}
}

func (m *CSRFMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsCookieAuth(r.Context()) || isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		if origin := r.Header.Get("Origin"); origin != "" && !m.sameOrigin(r, origin) && !m.cors.IsTrusted(origin) {
			response.Forbidden(w, "CSRF check failed: untrusted origin")
			return
		}

		cookie, err := r.Cookie(CSRFCookie)
		if err != nil || cookie.Value == "" {
			response.Forbidden(w, "CSRF check failed: cookie not set")
			return
		}

		header := r.Header.Get(CSRFHeader)
		if subtle.ConstantTimeCompare([]byte(header), []byte(cookie.Value)) != 1 {
			response.Forbidden(w, "CSRF check failed: token missing or incorrect")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IssueToken sets a fresh csrftoken cookie and returns its value. The cookie
// is readable by scripts so the client can echo it in the header.
func (m *CSRFMiddleware) IssueToken(w http.ResponseWriter) string {
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookie,
		Value:    token,
		Path:     "/",
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func (m *CSRFMiddleware) sameOrigin(r *http.Request, origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
