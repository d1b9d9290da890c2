// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/pmhub/internal/app/workspace"
	"go.uber.org/zap"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// Handler serves the fallback error endpoints.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

// ErrorLogger logs failures with request context before answering.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogBadRequest logs at debug level and answers 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Debug(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	WriteError(w, http.StatusBadRequest, userMsg)
}

// LogServerError logs at error level and answers 500 without leaking err.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.Log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	WriteError(w, http.StatusInternalServerError, "internal error")
}

// Workspace maps an error from a workspace.Container call to a response:
// not found → 404, validation → 400, bad credentials → 401, anything else → 500.
func (e *ErrorLogger) Workspace(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case stderrors.Is(err, workspace.ErrUserNotFound),
		stderrors.Is(err, workspace.ErrProjectNotFound),
		stderrors.Is(err, workspace.ErrTaskNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case stderrors.Is(err, workspace.ErrInvalidMinutes):
		WriteError(w, http.StatusBadRequest, workspace.ErrInvalidMinutes.Error())
	case stderrors.Is(err, workspace.ErrInvalidArgument):
		WriteError(w, http.StatusBadRequest, err.Error())
	case stderrors.Is(err, workspace.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, workspace.ErrInvalidCredentials.Error())
	default:
		e.LogServerError(w, r, op+" failed", err)
	}
}
