package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/OpenRouterTeam/spawn-sub007/internal/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	command TEXT NOT NULL,
	agent TEXT NOT NULL DEFAULT '',
	cloud TEXT NOT NULL DEFAULT '',
	resource_id TEXT NOT NULL DEFAULT '',
	resource_name TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
`

// Repository stores audit records in sqlite.
type Repository struct {
	db *sql.DB
}

// NewRepository prepares the audit_log table on db.
func NewRepository(db *sql.DB) (*Repository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrating audit_log: %w", err)
	}
	return &Repository{db: db}, nil
}

// Open opens the default local database and returns a repository over
// it. The caller owns Close.
func Open() (*Repository, error) {
	db, err := database.Open()
	if err != nil {
		return nil, err
	}
	repo, err := NewRepository(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// Close releases the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Append writes one record. The record's ID and zero Timestamp are
// filled in.
func (r *Repository) Append(ctx context.Context, rec *Record) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (timestamp, command, agent, cloud, resource_id, resource_name, outcome, detail, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(time.RFC3339Nano), rec.Command, rec.Agent, rec.Cloud,
		rec.ResourceID, rec.ResourceName, string(rec.Outcome), rec.Detail, rec.DurationMs)
	if err != nil {
		return fmt.Errorf("appending audit record: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	return err
}

// List returns the most recent records, newest first, up to limit.
func (r *Repository) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, command, agent, cloud, resource_id, resource_name, outcome, detail, duration_ms
		 FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var ts, outcome string
		if err := rows.Scan(&rec.ID, &ts, &rec.Command, &rec.Agent, &rec.Cloud,
			&rec.ResourceID, &rec.ResourceName, &outcome, &rec.Detail, &rec.DurationMs); err != nil {
			return nil, err
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		rec.Outcome = Outcome(outcome)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Prune deletes records older than cutoff and reports how many were
// removed.
func (r *Repository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM audit_log WHERE timestamp < ?`, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("pruning audit records: %w", err)
	}
	return res.RowsAffected()
}
