package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandevgo/deskpilot/internal/core"
)

// Dispatch is one journal row.
type Dispatch struct {
	ID        string
	Command   string
	Payload   map[string]string
	Status    core.Status
	CreatedAt time.Time
}

// Journal is the audit trail of control dispatches. Nothing on the chat path
// reads it back.
type Journal struct {
	db *sql.DB
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) Record(ctx context.Context, id string, result core.CommandResult) error {
	payload, err := json.Marshal(result.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `INSERT INTO dispatches (id, command, payload, status, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err = j.db.ExecContext(ctx, query, id, result.Command, string(payload), string(result.Status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert dispatch: %w", err)
	}
	return nil
}

// Recent returns up to limit dispatches, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Dispatch, error) {
	query := `SELECT id, command, payload, status, created_at FROM dispatches ORDER BY created_at DESC, rowid DESC LIMIT ?`

	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatches: %w", err)
	}
	defer rows.Close()

	var out []Dispatch
	for rows.Next() {
		var d Dispatch
		var payload, status string
		if err := rows.Scan(&d.ID, &d.Command, &payload, &status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dispatch: %w", err)
		}
		d.Status = core.Status(status)
		if err := json.Unmarshal([]byte(payload), &d.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
		out = append(out, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
