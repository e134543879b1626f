package reservations

import (
	"context"
	"strings"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/Domenick1991/periodic-tables/internal/kafka"
	"github.com/Domenick1991/periodic-tables/internal/repository"
	"github.com/Domenick1991/periodic-tables/internal/validation"
	"github.com/sirupsen/logrus"
)

type ReservationUseCase interface {
	Create(ctx context.Context, payload validation.Payload) (*domain.Reservation, error)
	// List returns the open reservations on date, or today when date is empty.
	List(ctx context.Context, date string) ([]domain.Reservation, error)
	Search(ctx context.Context, mobileNumber string) ([]domain.Reservation, error)
	Get(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, id int64, payload validation.Payload) (*domain.Reservation, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event kafka.ReservationEvent) error
}

type ReservationService struct {
	store     repository.Store
	validator *validation.Validator
	events    EventPublisher
	log       logrus.FieldLogger
}

type ReservationServiceOption func(*ReservationService)

func WithEvents(events EventPublisher) ReservationServiceOption {
	return func(s *ReservationService) {
		s.events = events
	}
}

func WithLogger(log logrus.FieldLogger) ReservationServiceOption {
	return func(s *ReservationService) {
		s.log = log
	}
}

func NewReservationService(store repository.Store, validator *validation.Validator, opts ...ReservationServiceOption) *ReservationService {
	s := &ReservationService{
		store:     store,
		validator: validator,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ReservationService) Create(ctx context.Context, payload validation.Payload) (*domain.Reservation, error) {
	input, err := s.validator.NewReservation(payload)
	if err != nil {
		return nil, err
	}

	reservation := &domain.Reservation{}
	input.Apply(reservation)
	if err := s.store.Reservations().Create(ctx, reservation); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventReservationCreated, reservation)
	return reservation, nil
}

func (s *ReservationService) List(ctx context.Context, date string) ([]domain.Reservation, error) {
	if date == "" {
		date = s.validator.Today()
	} else if err := s.validator.Date(date); err != nil {
		return nil, err
	}
	return s.store.Reservations().ListByDate(ctx, date)
}

func (s *ReservationService) Search(ctx context.Context, mobileNumber string) ([]domain.Reservation, error) {
	digits := Digits(mobileNumber)
	if digits == "" {
		return nil, domain.NewValidationError(domain.ErrInvalidFormat, "mobile_number",
			"mobile_number must contain at least one digit")
	}
	return s.store.Reservations().SearchByMobile(ctx, digits)
}

func (s *ReservationService) Get(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.store.Reservations().GetByID(ctx, id)
}

// Update re-validates every field. A status in the payload that differs from
// the stored one must be a legal transition that needs no table.
func (s *ReservationService) Update(ctx context.Context, id int64, payload validation.Payload) (*domain.Reservation, error) {
	input, err := s.validator.ReservationUpdate(payload)
	if err != nil {
		return nil, err
	}

	var (
		updated  *domain.Reservation
		previous domain.ReservationStatus
	)
	err = s.store.Do(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.Reservations().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		previous = current.Status
		if input.Status != "" {
			if err := domain.CheckStatusChange(current.Status, input.Status); err != nil {
				return err
			}
		}

		input.Apply(current)
		if err := tx.Reservations().Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventReservationUpdated, updated)
	if updated.Status != previous {
		s.publish(ctx, kafka.StatusEventType(updated.Status), updated)
	}
	return updated, nil
}

func (s *ReservationService) publish(ctx context.Context, eventType string, reservation *domain.Reservation) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, kafka.NewReservationEvent(eventType, reservation, nil)); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event":          eventType,
			"reservation_id": reservation.ID,
		}).Warn("failed to publish reservation event")
	}
}

// Digits keeps only the decimal digits of a phone number.
func Digits(mobileNumber string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, mobileNumber)
}

var _ ReservationUseCase = (*ReservationService)(nil)
