package middleware

import (
	"net/http"
	"time"
)

// DefaultRequestTimeout applies when no positive timeout is configured
const DefaultRequestTimeout = 30 * time.Second

// Timeout bounds handler execution. It is only mounted on routes that never
// call the model provider; chat turns run to completion.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, `{"success":false,"error":"Request Timeout","message":"request took too long"}`)
	}
}
