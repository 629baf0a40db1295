package httptransport

import (
	"net/http"

	"mediconnect/internal/transport/http/shared"
)

func (h *handler) handleListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.accounts.ListDoctors(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, doctors)
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
