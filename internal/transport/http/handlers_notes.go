package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mediconnect/internal/note"
	"mediconnect/internal/transport/http/shared"
	"mediconnect/pkg/domain"
	dErrors "mediconnect/pkg/domain-errors"
)

type createNoteRequest struct {
	AppointmentID string `json:"appointmentId"`
	Content       string `json:"content"`
}

func (h *handler) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	req, ok := shared.Decode[createNoteRequest](w, r)
	if !ok {
		return
	}

	if req.AppointmentID == "" {
		shared.WriteError(w, r, dErrors.MissingField("appointmentId"))
		return
	}
	if req.Content == "" {
		shared.WriteError(w, r, dErrors.MissingField("content"))
		return
	}

	appointmentID, err := domain.ParseAppointmentID(req.AppointmentID)
	if err != nil {
		shared.WriteError(w, r, dErrors.Validation("appointmentId", "Invalid appointment ID"))
		return
	}

	created, err := h.notes.Create(r.Context(), appointmentID, req.Content)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *handler) handleNotesByAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := domain.ParseAppointmentID(chi.URLParam(r, "appointmentID"))
	if err != nil {
		shared.WriteError(w, r, dErrors.Validation("appointmentId", "Invalid appointment ID"))
		return
	}

	notes, err := h.notes.ListByAppointment(r.Context(), appointmentID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	writeNotes(w, notes)
}

func (h *handler) handleNotesForPatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := domain.ParseUserID(chi.URLParam(r, "patientID"))
	if err != nil {
		shared.WriteError(w, r, dErrors.Validation("patientId", "Invalid patient ID"))
		return
	}

	notes, err := h.notes.ListForPatient(r.Context(), patientID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	writeNotes(w, notes)
}

func writeNotes(w http.ResponseWriter, notes []*note.Note) {
	if notes == nil {
		notes = []*note.Note{}
	}
	shared.WriteJSON(w, http.StatusOK, notes)
}
