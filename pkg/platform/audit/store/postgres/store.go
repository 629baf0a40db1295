package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"mediconnect/pkg/domain"
	"mediconnect/pkg/platform/audit"
	txcontext "mediconnect/pkg/platform/tx"
)

// Store implements audit.Store on PostgreSQL. The table is create-only from
// the application's point of view: this store issues INSERT and SELECT
// statements and nothing else.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer lets a domain operation carry the append inside its own
// transaction, so the record and its audit entry commit together.
func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	query := `
		INSERT INTO audit_entries (id, actor_id, actor_role, action, resource_id, request_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var resourceID *string
	if entry.ResourceID != "" {
		resourceID = &entry.ResourceID
	}

	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.New(),
		uuid.UUID(entry.ActorID),
		entry.ActorRole,
		string(entry.Action),
		resourceID,
		entry.RequestID,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *Store) ListByActor(ctx context.Context, actorID domain.UserID) ([]audit.Entry, error) {
	query := `
		SELECT actor_id, actor_role, action, resource_id, request_id, timestamp
		FROM audit_entries
		WHERE actor_id = $1
		ORDER BY timestamp ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(actorID))
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	query := `
		SELECT actor_id, actor_role, action, resource_id, request_id, timestamp
		FROM audit_entries
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]audit.Entry, error) {
	var entries []audit.Entry
	for rows.Next() {
		var (
			entry      audit.Entry
			actorID    uuid.UUID
			action     string
			resourceID sql.NullString
		)
		err := rows.Scan(&actorID, &entry.ActorRole, &action, &resourceID, &entry.RequestID, &entry.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ActorID = domain.UserID(actorID)
		entry.Action = audit.Action(action)
		if resourceID.Valid {
			entry.ResourceID = resourceID.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
