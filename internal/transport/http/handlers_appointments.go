package httptransport

import (
	"context"
	"net/http"
	"time"

	"mediconnect/internal/appointment"
	"mediconnect/internal/transport/http/shared"
	"mediconnect/pkg/domain"
	dErrors "mediconnect/pkg/domain-errors"
)

type createAppointmentRequest struct {
	DoctorID        string `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
}

func (h *handler) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	req, ok := shared.Decode[createAppointmentRequest](w, r)
	if !ok {
		return
	}

	if req.DoctorID == "" {
		shared.WriteError(w, r, dErrors.MissingField("doctorId"))
		return
	}
	if req.AppointmentDate == "" {
		shared.WriteError(w, r, dErrors.MissingField("appointmentDate"))
		return
	}

	doctorID, err := domain.ParseUserID(req.DoctorID)
	if err != nil {
		shared.WriteError(w, r, dErrors.Validation("doctorId", "Invalid doctor ID or user is not a doctor"))
		return
	}

	date, err := time.Parse(time.RFC3339, req.AppointmentDate)
	if err != nil {
		shared.WriteError(w, r, dErrors.Validation("appointmentDate", "Invalid appointmentDate format"))
		return
	}

	appt, err := h.appointments.Create(r.Context(), doctorID, date)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, appt)
}

func (h *handler) handlePatientUpcoming(w http.ResponseWriter, r *http.Request) {
	h.writeUpcoming(w, r, h.appointments.UpcomingForPatient)
}

func (h *handler) handleDoctorUpcoming(w http.ResponseWriter, r *http.Request) {
	h.writeUpcoming(w, r, h.appointments.UpcomingForDoctor)
}

func (h *handler) writeUpcoming(w http.ResponseWriter, r *http.Request, list func(ctx context.Context) ([]*appointment.Appointment, error)) {
	appts, err := list(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if appts == nil {
		appts = []*appointment.Appointment{}
	}
	shared.WriteJSON(w, http.StatusOK, appts)
}
