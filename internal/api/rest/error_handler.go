package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainErrors "github.com/davidleathers/muletrace-analytics/internal/domain/errors"
)

// writeError maps an error to the response envelope. AppError carries its own
// status code; anything else is reported as an opaque internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := &ErrorBody{
		Code:    "INTERNAL_ERROR",
		Message: "An internal error occurred",
	}

	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		body.Code = appErr.Code
		body.Message = appErr.Message
		if len(appErr.Details) > 0 {
			body.Details = appErr.Details
		}
	} else if errors.Is(err, context.Canceled) {
		status = http.StatusRequestTimeout
		body.Code = "REQUEST_CANCELED"
		body.Message = "Request was canceled"
	} else if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusRequestTimeout
		body.Code = "REQUEST_TIMEOUT"
		body.Message = "Request timed out"
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"code", body.Code,
			"error", err,
		)
	}

	if domainErrors.IsRetryable(err) {
		w.Header().Set("Retry-After", "1")
	}

	writeJSON(w, r, status, &ErrorEnvelope{
		Success: false,
		Error:   body,
		Meta:    responseMeta(r),
	})
}

// writeData writes a successful enveloped response.
func writeData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeJSON(w, r, status, &ResponseEnvelope{
		Success: true,
		Data:    data,
		Meta:    responseMeta(r),
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(r.Context(), "response encoding failed", "error", err)
	}
}

func responseMeta(r *http.Request) *ResponseMeta {
	return &ResponseMeta{
		RequestID: requestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	}
}
