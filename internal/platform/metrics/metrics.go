package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersRegistered prometheus.Counter
	Logins          prometheus.Counter
	LoginFailures   prometheus.Counter
	AuthzDenials    prometheus.Counter
	AuditEntries    prometheus.Counter
	AuditFailures   prometheus.Counter
}

// New creates and registers all metrics against the given registerer. Tests
// pass a fresh prometheus.NewRegistry() so suites don't collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "mediconnect_users_registered_total",
			Help: "Total number of accounts registered",
		}),
		Logins: factory.NewCounter(prometheus.CounterOpts{
			Name: "mediconnect_logins_total",
			Help: "Total number of successful logins",
		}),
		LoginFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "mediconnect_login_failures_total",
			Help: "Total number of rejected login attempts",
		}),
		AuthzDenials: factory.NewCounter(prometheus.CounterOpts{
			Name: "mediconnect_authz_denials_total",
			Help: "Total number of role-gate denials",
		}),
		AuditEntries: factory.NewCounter(prometheus.CounterOpts{
			Name: "mediconnect_audit_entries_total",
			Help: "Total number of audit entries recorded",
		}),
		AuditFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "mediconnect_audit_failures_total",
			Help: "Total number of audit append failures",
		}),
	}
}

// AuditRecorded implements audit.Metrics.
func (m *Metrics) AuditRecorded() { m.AuditEntries.Inc() }

// AuditFailed implements audit.Metrics.
func (m *Metrics) AuditFailed() { m.AuditFailures.Inc() }

// IncrementAuthzDenials counts a role-gate denial.
func (m *Metrics) IncrementAuthzDenials() { m.AuthzDenials.Inc() }

// UserRegistered implements account.Metrics.
func (m *Metrics) UserRegistered() { m.UsersRegistered.Inc() }

// LoginSucceeded implements account.Metrics.
func (m *Metrics) LoginSucceeded() { m.Logins.Inc() }

// LoginFailed implements account.Metrics.
func (m *Metrics) LoginFailed() { m.LoginFailures.Inc() }
