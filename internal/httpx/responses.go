package httpx

import (
	"fmt"
	"net/http"
)

// Text writes a plain-text body with the given status.
func Text(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

// HTML writes a rendered document with the given status.
func HTML(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// Error writes a plain-text error page that quotes the request ID, if any.
func Error(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	body := message
	if requestID := RequestIDFrom(r); requestID != "" {
		body = fmt.Sprintf("%s\nrequest_id: %s", message, requestID)
	}
	Text(w, statusCode, body+"\n")
}
