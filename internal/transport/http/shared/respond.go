// Package shared centralizes JSON response writing so every error leaving
// the API is the same envelope: a stable code, a client-safe message, the
// HTTP status, a timestamp, and the request correlation ID. Underlying
// error detail never reaches the client.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/pkg/requestcontext"
)

// ErrorEnvelope is the wire shape of every error response.
type ErrorEnvelope struct {
	Code          string         `json:"code"`
	Message       string         `json:"message"`
	Status        int            `json:"status"`
	Timestamp     time.Time      `json:"timestamp"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// WriteError translates a domain error into the JSON envelope. Non-domain
// errors collapse to a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	envelope := ErrorEnvelope{
		Code:          string(code),
		Message:       dErrors.MessageOf(err),
		Status:        dErrors.HTTPStatus(code),
		Timestamp:     time.Now().UTC(),
		CorrelationID: requestcontext.RequestID(r.Context()),
	}

	var de *dErrors.Error
	if errors.As(err, &de) && len(de.Details) > 0 {
		envelope.Details = de.Details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(envelope.Status)
	_ = json.NewEncoder(w).Encode(envelope)
}

// WriteJSON encodes a success payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
