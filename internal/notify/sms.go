package notify

import (
	"context"
	"fmt"

	"github.com/Domenick1991/periodic-tables/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender delivers guest notifications. Delivery is a structured log line
// carrying the text that would go out by SMS.
type Sender struct {
	log logrus.FieldLogger
}

func NewSender(log logrus.FieldLogger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	text := Message(event)
	if text == "" {
		return nil
	}
	s.log.WithFields(logrus.Fields{
		"event_id":       event.ID,
		"event_type":     event.Type,
		"reservation_id": event.ReservationID,
		"to":             event.MobileNumber,
	}).Info(text)
	return nil
}

// Message renders the SMS text for event. Events guests are not told about
// render as an empty string.
func Message(event kafka.ReservationEvent) string {
	when := fmt.Sprintf("%s at %s", event.ReservationDate, event.ReservationTime)
	switch event.Type {
	case kafka.EventReservationCreated:
		return fmt.Sprintf("Hi %s, your table for %d on %s is booked.", event.FirstName, event.People, when)
	case kafka.EventReservationUpdated:
		return fmt.Sprintf("Hi %s, your reservation is now for %d on %s.", event.FirstName, event.People, when)
	case kafka.EventReservationCancelled:
		return fmt.Sprintf("Hi %s, your reservation on %s has been cancelled.", event.FirstName, when)
	case kafka.EventReservationFinished:
		return fmt.Sprintf("Thanks for dining with us, %s!", event.FirstName)
	default:
		return ""
	}
}
