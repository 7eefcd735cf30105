package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DBLogger appends audit entries to a PostgreSQL table. The table has
// no UPDATE or DELETE path in this codebase; retention cleanup is the
// only deletion and runs against the timestamp column alone.
type DBLogger struct {
	db *sql.DB
}

// NewDBLogger creates a database-backed audit logger and ensures the
// audit_logs table exists.
func NewDBLogger(db *sql.DB) (*DBLogger, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	l := &DBLogger{db: db}
	if err := l.ensureTable(); err != nil {
		return nil, fmt.Errorf("failed to ensure audit_logs table: %w", err)
	}
	return l, nil
}

func (l *DBLogger) ensureTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS audit_logs (
		id UUID PRIMARY KEY,
		action VARCHAR(50) NOT NULL,
		actor_id VARCHAR(64) NOT NULL,
		target_member_id VARCHAR(64),
		shift_id VARCHAR(64),
		details TEXT,
		metadata JSONB,
		timestamp TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action);
	CREATE INDEX IF NOT EXISTS idx_audit_logs_actor ON audit_logs(actor_id);
	CREATE INDEX IF NOT EXISTS idx_audit_logs_target ON audit_logs(target_member_id);
	`
	_, err := l.db.Exec(query)
	return err
}

// Append inserts the entry with a fresh id and timestamp.
func (l *DBLogger) Append(ctx context.Context, entry Entry) (*Entry, error) {
	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now().UTC()

	var metadataJSON []byte
	if entry.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (id, action, actor_id, target_member_id, shift_id, details, metadata, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := l.db.ExecContext(ctx, query,
		entry.ID, entry.Action, entry.ActorID,
		nullString(entry.TargetMemberID), entry.ShiftID,
		nullString(entry.Details), metadataJSON, entry.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return &entry, nil
}

// Query returns matching entries newest-first.
func (l *DBLogger) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	query := `
		SELECT id, action, actor_id, target_member_id, shift_id, details, metadata, timestamp
		FROM audit_logs
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argNum)
		args = append(args, filter.Action)
		argNum++
	}
	if filter.ActorOrTargetID != "" {
		query += fmt.Sprintf(" AND (actor_id = $%d OR target_member_id = $%d)", argNum, argNum)
		args = append(args, filter.ActorOrTargetID)
		argNum++
	}

	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry := &Entry{}
		var target, details sql.NullString
		var metadataJSON []byte

		if err := rows.Scan(
			&entry.ID, &entry.Action, &entry.ActorID,
			&target, &entry.ShiftID, &details, &metadataJSON, &entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		if target.Valid {
			entry.TargetMemberID = target.String
		}
		if details.Valid {
			entry.Details = details.String
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				entry.Metadata = nil
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Cleanup deletes entries older than retentionDays and returns how many
// rows were removed.
func (l *DBLogger) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result, err := l.db.ExecContext(ctx, "DELETE FROM audit_logs WHERE timestamp < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up audit logs: %w", err)
	}
	return result.RowsAffected()
}

// Close releases nothing; the caller owns the db handle.
func (l *DBLogger) Close() error {
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
