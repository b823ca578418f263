package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"playgrounds/internal/models"
)

// Message kinds, one per participant-facing transition.
const (
	KindConfirmed = "confirmed"
	KindSuspended = "suspended"
	KindCancelled = "cancelled"
	KindUpdated   = "updated"
	KindNewNearby = "new_nearby"
)

// Message is the queue payload for one notification fan-out.
type Message struct {
	Kind       string    `json:"kind"`
	EventID    int64     `json:"event_id"`
	Title      string    `json:"title"`
	DateTime   time.Time `json:"date_time"`
	SpaceName  string    `json:"space_name"`
	Recipients []string  `json:"recipients"`
}

// Publisher implements the event core's Notifier port over the queue client.
type Publisher struct {
	log    *slog.Logger
	client *Client
}

func NewPublisher(log *slog.Logger, client *Client) *Publisher {
	return &Publisher{log: log, client: client}
}

func (p *Publisher) publish(e *models.Event, kind string, recipients []models.User) error {
	emails := make([]string, 0, len(recipients))
	for _, u := range recipients {
		if u.Email != "" {
			emails = append(emails, u.Email)
		}
	}
	if len(emails) == 0 {
		return nil
	}

	payload, err := json.Marshal(Message{
		Kind:       kind,
		EventID:    e.ID,
		Title:      e.Title,
		DateTime:   e.DateTime,
		SpaceName:  e.Space.Name,
		Recipients: emails,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := p.client.Publish(payload); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	p.log.Debug("notification published",
		slog.String("kind", kind),
		slog.Int64("event_id", e.ID),
		slog.Int("recipients", len(emails)),
	)
	return nil
}

func (p *Publisher) EventConfirmed(_ context.Context, e *models.Event) error {
	return p.publish(e, KindConfirmed, e.Participants)
}

func (p *Publisher) EventSuspended(_ context.Context, e *models.Event) error {
	return p.publish(e, KindSuspended, e.Participants)
}

func (p *Publisher) EventCancelled(_ context.Context, e *models.Event) error {
	return p.publish(e, KindCancelled, e.Participants)
}

func (p *Publisher) EventUpdated(_ context.Context, e *models.Event) error {
	return p.publish(e, KindUpdated, e.Participants)
}

func (p *Publisher) NewEventNearby(_ context.Context, e *models.Event, candidates []models.User) error {
	return p.publish(e, KindNewNearby, candidates)
}
