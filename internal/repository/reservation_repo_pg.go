package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const reservationColumns = `reservation_id, first_name, last_name, mobile_number, people,
	to_char(reservation_date, 'YYYY-MM-DD'), to_char(reservation_time, 'HH24:MI'), status, created_at, updated_at`

type PGReservationRepository struct {
	db querier
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

func (r *PGReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	if reservation.Status == "" {
		reservation.Status = domain.ReservationStatusBooked
	}
	row := r.db.QueryRow(ctx, `INSERT INTO reservations (first_name, last_name, mobile_number, people, reservation_date, reservation_time, status)
		VALUES ($1, $2, $3, $4, $5::date, $6::time, $7)
		RETURNING reservation_id, created_at, updated_at`,
		reservation.FirstName, reservation.LastName, reservation.MobileNumber, reservation.People,
		reservation.ReservationDate, reservation.ReservationTime, reservation.Status)
	if err := row.Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE reservation_id=$1`, id)
	return scanReservation(row, id)
}

func (r *PGReservationRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE reservation_id=$1 FOR UPDATE`, id)
	return scanReservation(row, id)
}

func (r *PGReservationRepository) ListByDate(ctx context.Context, date string) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations
		WHERE reservation_date=$1::date AND status NOT IN ($2, $3)
		ORDER BY reservation_time, reservation_id`,
		date, domain.ReservationStatusFinished, domain.ReservationStatusCancelled)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

func (r *PGReservationRepository) SearchByMobile(ctx context.Context, digits string) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations
		WHERE translate(mobile_number, '() -', '') LIKE '%' || $1 || '%'
		ORDER BY reservation_date, reservation_time`, digits)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

func (r *PGReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	row := r.db.QueryRow(ctx, `UPDATE reservations
		SET first_name=$1, last_name=$2, mobile_number=$3, people=$4,
			reservation_date=$5::date, reservation_time=$6::time, status=$7, updated_at=now()
		WHERE reservation_id=$8
		RETURNING `+reservationColumns,
		reservation.FirstName, reservation.LastName, reservation.MobileNumber, reservation.People,
		reservation.ReservationDate, reservation.ReservationTime, reservation.Status, reservation.ID)
	updated, err := scanReservation(row, reservation.ID)
	if err != nil {
		return err
	}
	*reservation = *updated
	return nil
}

func (r *PGReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `UPDATE reservations SET status=$1, updated_at=now() WHERE reservation_id=$2 RETURNING `+reservationColumns, status, id)
	return scanReservation(row, id)
}

func scanReservation(row pgx.Row, id int64) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := row.Scan(&res.ID, &res.FirstName, &res.LastName, &res.MobileNumber, &res.People,
		&res.ReservationDate, &res.ReservationTime, &res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &res, nil
}

func collectReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows, 0)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
