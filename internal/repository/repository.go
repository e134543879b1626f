package repository

import (
	"context"

	"github.com/Domenick1991/periodic-tables/internal/domain"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	// GetForUpdate reads the row and, where the engine supports it, locks it
	// until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*domain.Reservation, error)
	// ListByDate returns reservations on date that are neither finished nor cancelled, ordered by time.
	ListByDate(ctx context.Context, date string) ([]domain.Reservation, error)
	// SearchByMobile matches digits against stored numbers with "()- " stripped, ordered by date.
	SearchByMobile(ctx context.Context, digits string) ([]domain.Reservation, error)
	Update(ctx context.Context, reservation *domain.Reservation) error
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error)
}

type TableRepository interface {
	Create(ctx context.Context, table *domain.Table) error
	GetByID(ctx context.Context, id int64) (*domain.Table, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Table, error)
	List(ctx context.Context) ([]domain.Table, error)
	Update(ctx context.Context, table *domain.Table) error
	// SetReservation seats reservationID at the table, or frees it when reservationID is nil.
	SetReservation(ctx context.Context, tableID int64, reservationID *int64) (*domain.Table, error)
}

// Tx gives access to repositories bound to one transaction.
type Tx interface {
	Reservations() ReservationRepository
	Tables() TableRepository
}

// UnitOfWork runs fn inside a transaction. If fn returns an error, or ctx is
// cancelled before commit, every write made through tx is rolled back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Store is the persistence layer seen by the services: repositories outside a
// transaction plus the ability to start one.
type Store interface {
	Tx
	UnitOfWork
}
