package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/benvon/homework-helper/internal/request"
	"go.uber.org/zap"
)

// ErrorResponse is the body written by middleware that rejects a request
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorHandler turns a handler panic into a JSON 500. If the handler had
// already started its response, the panic is only logged.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}
				logger.Error("handler_panic",
					zap.Any("panic", recovered),
					zap.String("request_id", request.RequestID(r)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Bool("response_started", rec.wroteHeader),
					zap.Stack("stack"),
				)
				if rec.wroteHeader {
					return
				}
				respondErrorJSON(rec, r, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", logger)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

func respondErrorJSON(w http.ResponseWriter, r *http.Request, status int, errorType, message string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := ErrorResponse{
		Error:     errorType,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
		RequestID: request.RequestID(r),
	}
	if err := json.NewEncoder(w).Encode(body); err != nil && logger != nil {
		logger.Warn("error_response_write_failed",
			zap.Int("status_code", status),
			zap.Error(err),
		)
	}
}
