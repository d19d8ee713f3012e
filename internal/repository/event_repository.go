package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/signora/eventwall/internal/model"
)

const eventColumns = "id, title, description, event_date, category, thumbnail, admin_id, created_at, updated_at"

// EventRepo provides access to the events table. Titles are unique; a second
// insert with the same title fails with ErrTitleExists.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// Create inserts ev. An unknown admin yields ErrNotFound.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	now := time.Now().UTC().Truncate(time.Second)
	ev.CreatedAt, ev.UpdatedAt = now, now
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO events ("+eventColumns+") VALUES (?,?,?,?,?,?,?,?,?)",
		ev.ID, ev.Title, ev.Description, ev.EventDate, ev.Category, nullString(ev.Thumbnail),
		ev.AdminID, now, now)
	if err != nil {
		return fmt.Errorf("insert event: %w", classify(err))
	}
	return nil
}

// GetByID fetches an event by id.
func (r *EventRepo) GetByID(ctx context.Context, id string) (model.Event, error) {
	return scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id))
}

// GetByTitle fetches an event by its exact title.
func (r *EventRepo) GetByTitle(ctx context.Context, title string) (model.Event, error) {
	return scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE title=? LIMIT 1", title))
}

// List returns every event, soonest first.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+eventColumns+" FROM events ORDER BY event_date ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := []model.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func scanEvent(s rowScanner) (model.Event, error) {
	var (
		ev    model.Event
		thumb sql.NullString
	)
	err := s.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.EventDate, &ev.Category, &thumb,
		&ev.AdminID, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return model.Event{}, classify(err)
	}
	ev.Thumbnail = thumb.String
	return ev, nil
}
