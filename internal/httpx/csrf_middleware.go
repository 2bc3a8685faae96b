package httpx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"dsfrexample/internal/platform/csrf"
)

const (
	CSRFCookieName = "csrftoken"
	CSRFFieldName  = "csrfmiddlewaretoken"
	CSRFHeaderName = "X-CSRFToken"
)

// CSRFMiddleware implements the double-submit cookie pattern: every response
// carries a signed token cookie, and unsafe requests must echo that token in
// the form field or header. An empty secret disables the check.
func CSRFMiddleware(secret string, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(CSRFCookieName); err == nil {
				if _, err := csrf.ParseToken(secret, c.Value); err == nil {
					token = c.Value
				}
			}

			if !safeMethod(r.Method) {
				submitted := r.Header.Get(CSRFHeaderName)
				if submitted == "" {
					submitted = r.PostFormValue(CSRFFieldName)
				}
				if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
					slog.Warn("csrf verification failed", "request_id", RequestIDFrom(r), "path", r.URL.Path)
					Error(w, r, http.StatusForbidden, "CSRF verification failed. Request aborted.")
					return
				}
			}

			if token == "" {
				var err error
				token, err = csrf.GenerateToken(secret, ttl)
				if err != nil {
					slog.Error("csrf token generation failed", "request_id", RequestIDFrom(r), "error", err)
					Error(w, r, http.StatusInternalServerError, "An internal error occurred")
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(ContextWithCSRFToken(r.Context(), token)))
		})
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
