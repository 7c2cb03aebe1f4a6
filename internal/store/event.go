package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventKind distinguishes the rows of the events table.
type EventKind string

const (
	// KindAction is a fired gesture action.
	KindAction EventKind = "action"
	// KindAcquired is a newly engaged hand.
	KindAcquired EventKind = "acquired"
)

// Event is one entry in the action history.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Action    string    `json:"action,omitempty"`
	Detector  string    `json:"detector,omitempty"`
	ActorID   int       `json:"actorId"`
	FrameTS   int64     `json:"frameTs"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// EventRepository stores and queries events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

const eventColumns = `id, kind, action, detector, actor_id, frame_ts, success, error, created_at`

// Create inserts an event, assigning an ID and creation time when unset.
func (r *EventRepository) Create(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	_, err := r.db.Exec(
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Action, e.Detector, e.ActorID, e.FrameTS, e.Success, e.Error, e.CreatedAt,
	)
	return err
}

// SetResult records the outcome of executing an action event.
func (r *EventRepository) SetResult(id string, success bool, errMsg string) error {
	result, err := r.db.Exec(
		`UPDATE events SET success = ?, error = ? WHERE id = ?`,
		success, errMsg, id,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves an event by its ID.
func (r *EventRepository) GetByID(id string) (*Event, error) {
	e, err := scanEvent(r.db.QueryRow(
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// List returns up to limit events, newest first. An empty kind matches all.
func (r *EventRepository) List(kind EventKind, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(
		`SELECT `+eventColumns+` FROM events
		 WHERE ? = '' OR kind = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		string(kind), string(kind), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountByAction returns the number of action events per action name.
func (r *EventRepository) CountByAction() (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT action, COUNT(*) FROM events WHERE kind = ? GROUP BY action`,
		string(KindAction),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, err
		}
		counts[action] = n
	}

	return counts, rows.Err()
}

// DeleteBefore removes events created before t and returns how many were removed.
func (r *EventRepository) DeleteBefore(t time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, t.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	e := &Event{}
	var kind string
	var success int

	err := row.Scan(&e.ID, &kind, &e.Action, &e.Detector, &e.ActorID, &e.FrameTS, &success, &e.Error, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	e.Kind = EventKind(kind)
	e.Success = success != 0
	return e, nil
}
