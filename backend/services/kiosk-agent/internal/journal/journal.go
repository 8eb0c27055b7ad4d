package journal

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcomes stored per row.
const (
	OutcomeApplied = "applied"
	OutcomeIgnored = "ignored"
	OutcomeAlert   = "alert"
)

const maxRecent = 500

// Entry is one handled kiosk event. The swap session itself is never stored,
// only the fact that an event touched it.
type Entry struct {
	ID         uuid.UUID       `json:"id"`
	StationID  string          `json:"stationId"`
	Event      string          `json:"event"`
	SessionID  string          `json:"sessionId,omitempty"`
	FromStep   int             `json:"fromStep"`
	ToStep     int             `json:"toStep"`
	Outcome    string          `json:"outcome"`
	Detail     string          `json:"detail,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	RecordedAt time.Time       `json:"recordedAt"`
}

// Noop discards entries. Used when no journal DSN is configured.
type Noop struct{}

// Append does nothing.
func (Noop) Append(context.Context, Entry) error { return nil }

// Recent always returns an empty list.
func (Noop) Recent(context.Context, string, int) ([]Entry, error) { return []Entry{}, nil }

// Repository stores entries in kiosk_events.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository ctor.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Append inserts entry, filling in the id and timestamp when missing.
func (r *Repository) Append(ctx context.Context, entry Entry) error {
	entry = r.prepare(entry)
	const query = `
		INSERT INTO kiosk_events (id, station_id, event, session_id, from_step, to_step, outcome, detail, payload, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID.String(),
		entry.StationID,
		entry.Event,
		entry.SessionID,
		entry.FromStep,
		entry.ToStep,
		entry.Outcome,
		entry.Detail,
		payloadArg(entry.Payload),
		entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("journal: insert %s: %w", entry.Event, err)
	}
	return nil
}

// Recent returns the newest entries for stationID, newest first.
func (r *Repository) Recent(ctx context.Context, stationID string, limit int) ([]Entry, error) {
	limit = clampLimit(limit)
	const query = `
		SELECT id, station_id, event, session_id, from_step, to_step, outcome, detail, payload, recorded_at
		FROM kiosk_events
		WHERE station_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, stationID, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query recent: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e       Entry
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &e.StationID, &e.Event, &e.SessionID, &e.FromStep, &e.ToStep, &e.Outcome, &e.Detail, &payload, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("journal: bad id %q: %w", id, err)
		}
		if len(payload) > 0 {
			e.Payload = json.RawMessage(payload)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: rows: %w", err)
	}
	return entries, nil
}

func (r *Repository) prepare(entry Entry) Entry {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = r.now()
	}
	if entry.Outcome == "" {
		entry.Outcome = OutcomeApplied
	}
	return entry
}

// payloadArg maps empty or invalid JSON to NULL; payload is a JSONB column.
func payloadArg(payload json.RawMessage) any {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil
	}
	return string(trimmed)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > maxRecent {
		return maxRecent
	}
	return limit
}
