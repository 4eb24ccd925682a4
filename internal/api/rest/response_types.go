package rest

import "time"

// ResponseEnvelope wraps every successful API response.
type ResponseEnvelope struct {
	Success bool          `json:"success"`
	Data    interface{}   `json:"data,omitempty"`
	Meta    *ResponseMeta `json:"meta,omitempty"`
}

// ResponseMeta carries request correlation data.
type ResponseMeta struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
}

// ErrorEnvelope wraps every error response.
type ErrorEnvelope struct {
	Success bool       `json:"success"`
	Error   *ErrorBody `json:"error"`
	Meta    *ResponseMeta `json:"meta,omitempty"`
}

// ErrorBody is the machine-readable error payload.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HealthResponse reports liveness and dependency status.
type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}
