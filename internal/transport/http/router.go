// Package httptransport is the thin HTTP layer: it decodes requests,
// delegates to domain services, and encodes responses. Authentication and
// role gates are middleware so every route declares its access rule where
// it is mounted.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mediconnect/internal/account"
	"mediconnect/internal/appointment"
	"mediconnect/internal/note"
	"mediconnect/internal/platform/metrics"
	"mediconnect/internal/platform/middleware"
	"mediconnect/internal/rbac"
	"mediconnect/pkg/platform/audit"
)

// Deps carries everything the router needs. All fields are required except
// Metrics, which may be nil in tests.
type Deps struct {
	Accounts     *account.Service
	Appointments *appointment.Service
	Notes        *note.Service
	Recorder     *audit.Recorder
	Verifier     middleware.TokenVerifier
	Revocations  middleware.RevocationChecker
	Metrics      *metrics.Metrics
	AdminToken   string
	Logger       *slog.Logger
}

// NewRouter wires the full route table with its middleware chain.
func NewRouter(deps Deps) http.Handler {
	h := &handler{
		accounts:     deps.Accounts,
		appointments: deps.Appointments,
		notes:        deps.Notes,
		recorder:     deps.Recorder,
		logger:       deps.Logger,
	}

	var denials middleware.DenialCounter
	if deps.Metrics != nil {
		denials = deps.Metrics
	}

	requireAuth := middleware.RequireAuth(deps.Verifier, deps.Revocations, deps.Logger)
	patientOnly := middleware.RequireRole(deps.Logger, denials, rbac.RolePatient)
	doctorOnly := middleware.RequireRole(deps.Logger, denials, rbac.RoleDoctor)
	anyRole := middleware.RequireRole(deps.Logger, denials, rbac.RolePatient, rbac.RoleDoctor)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(deps.Logger))

	r.Get("/health", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.With(requireAuth).Post("/logout", h.handleLogout)
	})

	r.With(requireAuth, anyRole).Get("/doctors", h.handleListDoctors)

	r.Route("/appointments", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(patientOnly).Post("/patient", h.handleCreateAppointment)
		r.With(patientOnly).Get("/patient/upcoming", h.handlePatientUpcoming)
		r.With(doctorOnly).Get("/doctor/upcoming", h.handleDoctorUpcoming)
	})

	r.Route("/notes", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(doctorOnly).Post("/", h.handleCreateNote)
		r.With(doctorOnly).Get("/patient/{patientID}", h.handleNotesForPatient)
		// Either party of the appointment; the service decides.
		r.Get("/{appointmentID}", h.handleNotesByAppointment)
	})

	r.With(middleware.RequireAdminToken(deps.AdminToken)).
		Get("/audit/recent", h.handleRecentAudit)

	return r
}

type handler struct {
	accounts     *account.Service
	appointments *appointment.Service
	notes        *note.Service
	recorder     *audit.Recorder
	logger       *slog.Logger
}
