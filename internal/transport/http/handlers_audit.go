package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"mediconnect/internal/transport/http/shared"
	"mediconnect/pkg/domain"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

type auditEntryResponse struct {
	ActorID    domain.UserID `json:"actor_id"`
	ActorRole  string        `json:"actor_role"`
	Action     string        `json:"action"`
	ResourceID string        `json:"resource_id,omitempty"`
	RequestID  string        `json:"request_id,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

func (h *handler) handleRecentAudit(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 && parsed <= maxAuditLimit {
			limit = parsed
		}
	}

	entries, err := h.recorder.ListRecent(r.Context(), limit)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	payload := make([]auditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, auditEntryResponse{
			ActorID:    entry.ActorID,
			ActorRole:  entry.ActorRole,
			Action:     string(entry.Action),
			ResourceID: entry.ResourceID,
			RequestID:  entry.RequestID,
			Timestamp:  entry.Timestamp,
		})
	}
	shared.WriteJSON(w, http.StatusOK, payload)
}
