package kafka

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/google/uuid"
)

const (
	EventReservationCreated       = "reservation_created"
	EventReservationUpdated       = "reservation_updated"
	EventReservationStatusChanged = "reservation_status_changed"
	EventReservationCancelled     = "reservation_cancelled"
	EventReservationSeated        = "reservation_seated"
	EventReservationFinished      = "reservation_finished"
)

type ReservationEvent struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	ReservationID   int64     `json:"reservation_id"`
	TableID         *int64    `json:"table_id,omitempty"`
	Status          string    `json:"status"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	MobileNumber    string    `json:"mobile_number"`
	People          int       `json:"people"`
	ReservationDate string    `json:"reservation_date"`
	ReservationTime string    `json:"reservation_time"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func NewReservationEvent(eventType string, r *domain.Reservation, tableID *int64) ReservationEvent {
	return ReservationEvent{
		ID:              uuid.NewString(),
		Type:            eventType,
		ReservationID:   r.ID,
		TableID:         tableID,
		Status:          string(r.Status),
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		MobileNumber:    r.MobileNumber,
		People:          r.People,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		OccurredAt:      time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// EventPublisher fans reservation events out to the configured topics.
// A nil publisher or an empty topic list makes Publish a no-op.
type EventPublisher struct {
	producer Publisher
	topics   []string
}

func NewEventPublisher(producer Publisher, topics ...string) *EventPublisher {
	p := &EventPublisher{producer: producer}
	for _, t := range topics {
		if t != "" {
			p.topics = append(p.topics, t)
		}
	}
	return p
}

func (p *EventPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	if p == nil || p.producer == nil {
		return nil
	}
	key := strconv.FormatInt(event.ReservationID, 10)
	var errs []error
	for _, topic := range p.topics {
		if err := p.producer.Publish(ctx, topic, key, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StatusEventType names the event emitted when a reservation moves to status.
func StatusEventType(status domain.ReservationStatus) string {
	switch status {
	case domain.ReservationStatusSeated:
		return EventReservationSeated
	case domain.ReservationStatusFinished:
		return EventReservationFinished
	case domain.ReservationStatusCancelled:
		return EventReservationCancelled
	default:
		return EventReservationStatusChanged
	}
}
