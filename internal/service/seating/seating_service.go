package seating

import (
	"context"
	"fmt"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/Domenick1991/periodic-tables/internal/kafka"
	"github.com/Domenick1991/periodic-tables/internal/repository"
	"github.com/Domenick1991/periodic-tables/internal/validation"
	"github.com/sirupsen/logrus"
)

// SeatingUseCase moves reservations through their lifecycle and keeps table
// occupancy in step with reservation status.
type SeatingUseCase interface {
	Seat(ctx context.Context, tableID int64, payload validation.Payload) (*domain.Table, error)
	Finish(ctx context.Context, tableID int64) (*domain.Table, error)
	ChangeStatus(ctx context.Context, reservationID int64, payload validation.Payload) (*domain.Reservation, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event kafka.ReservationEvent) error
}

type TableCache interface {
	InvalidateTables(ctx context.Context) error
}

type Manager struct {
	store     repository.Store
	validator *validation.Validator
	events    EventPublisher
	cache     TableCache
	log       logrus.FieldLogger
}

type ManagerOption func(*Manager)

func WithEvents(events EventPublisher) ManagerOption {
	return func(m *Manager) {
		m.events = events
	}
}

func WithCache(cache TableCache) ManagerOption {
	return func(m *Manager) {
		m.cache = cache
	}
}

func WithLogger(log logrus.FieldLogger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

func NewManager(store repository.Store, validator *validation.Validator, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:     store,
		validator: validator,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Seat assigns a booked reservation to a free table. The reservation becomes
// seated and the table records it, both in one transaction.
func (m *Manager) Seat(ctx context.Context, tableID int64, payload validation.Payload) (*domain.Table, error) {
	reservationID, err := m.validator.Seat(payload)
	if err != nil {
		return nil, err
	}

	var (
		table       *domain.Table
		reservation *domain.Reservation
	)
	err = m.store.Do(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.Tables().GetForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if current.Occupied() {
			return fmt.Errorf("table %d: %w", tableID, domain.ErrConflictAlreadyOccupied)
		}

		res, err := tx.Reservations().GetForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.Status != domain.ReservationStatusBooked {
			return fmt.Errorf("reservation %d is %s: %w", reservationID, res.Status, domain.ErrConflictNotBooked)
		}
		if res.People > current.Capacity {
			return fmt.Errorf("party of %d at table %d seating %d: %w",
				res.People, tableID, current.Capacity, domain.ErrInsufficientCapacity)
		}

		if reservation, err = tx.Reservations().UpdateStatus(ctx, reservationID, domain.ReservationStatusSeated); err != nil {
			return err
		}
		table, err = tx.Tables().SetReservation(ctx, tableID, &reservationID)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.afterTransition(ctx, reservation, &table.ID)
	return table, nil
}

// Finish frees an occupied table and marks its reservation finished.
func (m *Manager) Finish(ctx context.Context, tableID int64) (*domain.Table, error) {
	var (
		table       *domain.Table
		reservation *domain.Reservation
	)
	err := m.store.Do(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.Tables().GetForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if !current.Occupied() {
			return fmt.Errorf("table %d: %w", tableID, domain.ErrConflictNotOccupied)
		}

		reservationID := *current.ReservationID
		if _, err := tx.Reservations().GetForUpdate(ctx, reservationID); err != nil {
			return err
		}
		if reservation, err = tx.Reservations().UpdateStatus(ctx, reservationID, domain.ReservationStatusFinished); err != nil {
			return err
		}
		table, err = tx.Tables().SetReservation(ctx, tableID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.afterTransition(ctx, reservation, &table.ID)
	return table, nil
}

// ChangeStatus writes a new status to a single reservation. Finished and
// cancelled reservations never change again. Seated and finished are left to
// Seat and Finish, which keep the table in step.
func (m *Manager) ChangeStatus(ctx context.Context, reservationID int64, payload validation.Payload) (*domain.Reservation, error) {
	status, err := m.validator.Status(payload)
	if err != nil {
		return nil, err
	}

	var (
		reservation *domain.Reservation
		changed     bool
	)
	err = m.store.Do(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.Reservations().GetForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := domain.CheckStatusChange(current.Status, status); err != nil {
			return err
		}
		if current.Status == status {
			reservation = current
			return nil
		}

		changed = true
		reservation, err = tx.Reservations().UpdateStatus(ctx, reservationID, status)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		m.publish(ctx, kafka.StatusEventType(status), reservation, nil)
	}
	return reservation, nil
}

func (m *Manager) afterTransition(ctx context.Context, reservation *domain.Reservation, tableID *int64) {
	if m.cache != nil {
		if err := m.cache.InvalidateTables(ctx); err != nil {
			m.log.WithError(err).Warn("table cache invalidation failed")
		}
	}
	m.publish(ctx, kafka.StatusEventType(reservation.Status), reservation, tableID)
}

func (m *Manager) publish(ctx context.Context, eventType string, reservation *domain.Reservation, tableID *int64) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(ctx, kafka.NewReservationEvent(eventType, reservation, tableID)); err != nil {
		m.log.WithError(err).WithFields(logrus.Fields{
			"event":          eventType,
			"reservation_id": reservation.ID,
		}).Warn("failed to publish reservation event")
	}
}

var _ SeatingUseCase = (*Manager)(nil)
