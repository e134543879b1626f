package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func testReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:              7,
		FirstName:       "Ada",
		LastName:        "Lovelace",
		MobileNumber:    "555-0100",
		People:          3,
		ReservationDate: "2030-01-02",
		ReservationTime: "18:00",
		Status:          domain.ReservationStatusSeated,
	}
}

func TestNewReservationEvent(t *testing.T) {
	tableID := int64(2)
	event := NewReservationEvent(EventReservationSeated, testReservation(), &tableID)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventReservationSeated, event.Type)
	assert.Equal(t, int64(7), event.ReservationID)
	assert.Equal(t, &tableID, event.TableID)
	assert.Equal(t, "seated", event.Status)
	assert.Equal(t, 3, event.People)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestEventPublisher_PublishesToEveryTopic(t *testing.T) {
	producer := &MockPublisher{}
	publisher := NewEventPublisher(producer, "events", "", "notifications")
	event := NewReservationEvent(EventReservationCreated, testReservation(), nil)
	ctx := context.Background()

	producer.On("Publish", ctx, "events", "7", event).Return(nil).Once()
	producer.On("Publish", ctx, "notifications", "7", event).Return(errors.New("broker down")).Once()

	err := publisher.Publish(ctx, event)

	assert.EqualError(t, err, "broker down")
	producer.AssertExpectations(t)
}

func TestEventPublisher_NilIsNoop(t *testing.T) {
	var publisher *EventPublisher
	assert.NoError(t, publisher.Publish(context.Background(), ReservationEvent{}))
	assert.NoError(t, NewEventPublisher(nil, "events").Publish(context.Background(), ReservationEvent{}))
}

func TestStatusEventType(t *testing.T) {
	assert.Equal(t, EventReservationSeated, StatusEventType(domain.ReservationStatusSeated))
	assert.Equal(t, EventReservationFinished, StatusEventType(domain.ReservationStatusFinished))
	assert.Equal(t, EventReservationCancelled, StatusEventType(domain.ReservationStatusCancelled))
	assert.Equal(t, EventReservationStatusChanged, StatusEventType(domain.ReservationStatusBooked))
}
