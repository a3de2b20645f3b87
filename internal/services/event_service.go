package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/tasktracker/internal/models"
	"github.com/isdelr/tasktracker/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Publisher pushes an encoded message to every live connection of a user.
type Publisher interface {
	PublishToUser(userID string, message []byte)
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(ctx context.Context, userID, eventType, message string, payload interface{}) error
	Recent(ctx context.Context, userID string, limit int) ([]models.Event, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// EventService writes the activity log and forwards each event to the
// user's live connections.
type EventService struct {
	db        *sql.DB
	publisher Publisher
	now       func() time.Time
}

// NewEventService creates a new EventService. publisher may be nil.
func NewEventService(db *sql.DB, publisher Publisher) *EventService {
	return &EventService{db: db, publisher: publisher, now: time.Now}
}

// Record stores an event for userID and publishes payload under the event
// type. Publishing happens even if the insert fails.
func (s *EventService) Record(ctx context.Context, userID, eventType, message string, payload interface{}) error {
	event := models.Event{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      eventType,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, user_id, type, message, created_at) VALUES (?, ?, ?, ?, ?)",
		event.ID, event.UserID, event.Type, event.Message, event.CreatedAt.UnixNano())

	if s.publisher != nil && payload != nil {
		data, encErr := websocket.Encode(eventType, payload)
		if encErr != nil {
			log.Error().Err(encErr).Str("type", eventType).Msg("Failed to encode live event")
		} else {
			s.publisher.PublishToUser(userID, data)
		}
	}
	return err
}

// Recent returns the user's most recent events, newest first.
func (s *EventService) Recent(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, type, message, created_at FROM events WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var createdAt int64
		if err := rows.Scan(&event.ID, &event.UserID, &event.Type, &event.Message, &createdAt); err != nil {
			return nil, err
		}
		event.CreatedAt = time.Unix(0, createdAt).UTC()
		events = append(events, event)
	}
	return events, rows.Err()
}

// Prune deletes events created before the cutoff.
func (s *EventService) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", before.UTC().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
