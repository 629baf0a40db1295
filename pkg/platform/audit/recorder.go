package audit

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"mediconnect/pkg/domain"
	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/pkg/requestcontext"
)

// Store is the append-only persistence boundary. Implementations must be
// safe under concurrent Append calls; relative ordering across concurrent
// requests is not guaranteed.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByActor(ctx context.Context, actorID domain.UserID) ([]Entry, error)
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

// Metrics is the counter surface the recorder reports to. Kept as an
// interface so this package stays free of the metrics registry.
type Metrics interface {
	AuditRecorded()
	AuditFailed()
}

// FailureMode decides what a failed append means for the enclosing
// operation. The choice is made once, at construction, not per call site.
type FailureMode int

const (
	// FailOpen logs the append failure to operational diagnostics and lets
	// the operation succeed. Availability over audit completeness.
	FailOpen FailureMode = iota
	// FailClosed propagates the failure so the operation is rejected.
	// Audit completeness over availability.
	FailClosed
)

// Recorder appends audit entries synchronously: Record returns only after
// the primary store has accepted the entry, so callers can uphold "no
// unaudited success" by recording before responding.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	mode    FailureMode
	metrics Metrics
	mirror  chan<- Entry
	tracer  trace.Tracer
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithFailureMode selects fail-open or fail-closed handling of append
// failures. Default is FailOpen.
func WithFailureMode(mode FailureMode) Option {
	return func(r *Recorder) { r.mode = mode }
}

// WithMetrics wires audit counters.
func WithMetrics(m Metrics) Option {
	return func(r *Recorder) { r.metrics = m }
}

// WithMirror forwards accepted entries to a best-effort secondary sink
// (the Kafka compliance mirror). The send never blocks; a full buffer
// drops the mirror copy, never the primary write.
func WithMirror(mirror chan<- Entry) Option {
	return func(r *Recorder) { r.mirror = mirror }
}

func NewRecorder(store Store, logger *slog.Logger, opts ...Option) *Recorder {
	r := &Recorder{
		store:  store,
		logger: logger,
		mode:   FailOpen,
		tracer: otel.Tracer("mediconnect/audit"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Record persists one entry. Zero timestamps are stamped from the
// request-scoped clock and the correlation ID is filled from context if the
// caller left it empty.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	ctx, span := r.tracer.Start(ctx, "audit.Record")
	defer span.End()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	if entry.RequestID == "" {
		entry.RequestID = requestcontext.RequestID(ctx)
	}

	if err := r.store.Append(ctx, entry); err != nil {
		if r.metrics != nil {
			r.metrics.AuditFailed()
		}
		r.logger.ErrorContext(ctx, "audit append failed",
			"action", string(entry.Action),
			"request_id", entry.RequestID,
			"error", err,
		)
		if r.mode == FailClosed {
			return dErrors.Wrap(dErrors.CodeInternal, "Action could not be recorded", err)
		}
		return nil
	}

	if r.metrics != nil {
		r.metrics.AuditRecorded()
	}

	if r.mirror != nil {
		select {
		case r.mirror <- entry:
		default:
			r.logger.WarnContext(ctx, "audit mirror buffer full, dropping mirror copy",
				"action", string(entry.Action),
			)
		}
	}
	return nil
}

// ListByActor returns the entries recorded for one actor.
func (r *Recorder) ListByActor(ctx context.Context, actorID domain.UserID) ([]Entry, error) {
	return r.store.ListByActor(ctx, actorID)
}

// ListRecent returns up to limit most recent entries across all actors.
func (r *Recorder) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	return r.store.ListRecent(ctx, limit)
}
