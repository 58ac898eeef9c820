package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger pairs zap logging with friendly error pages so handlers can
// report failures in one call.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs an internal failure and renders a friendly page with
// the user-facing message and a back URL.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.log.Error(what,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	RenderForbidden(w, r, userMsg, backURL)
}

// LogBadRequest logs a malformed request and renders a friendly page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.log.Warn(what,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	RenderForbidden(w, r, userMsg, backURL)
}
