package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tableColumns = `table_id, table_name, capacity, reservation_id, created_at, updated_at`

type PGTableRepository struct {
	db querier
}

func NewTableRepository(db *pgxpool.Pool) TableRepository {
	return &PGTableRepository{db: db}
}

func (r *PGTableRepository) Create(ctx context.Context, table *domain.Table) error {
	row := r.db.QueryRow(ctx, `INSERT INTO tables (table_name, capacity, reservation_id)
		VALUES ($1, $2, $3)
		RETURNING table_id, created_at, updated_at`, table.Name, table.Capacity, table.ReservationID)
	if err := row.Scan(&table.ID, &table.CreatedAt, &table.UpdatedAt); err != nil {
		return fmt.Errorf("insert table: %w", err)
	}
	return nil
}

func (r *PGTableRepository) GetByID(ctx context.Context, id int64) (*domain.Table, error) {
	return scanTable(r.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM tables WHERE table_id=$1`, id), id)
}

func (r *PGTableRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Table, error) {
	return scanTable(r.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM tables WHERE table_id=$1 FOR UPDATE`, id), id)
}

func (r *PGTableRepository) List(ctx context.Context) ([]domain.Table, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tableColumns+` FROM tables ORDER BY table_name, table_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]domain.Table, 0)
	for rows.Next() {
		t, err := scanTable(rows, 0)
		if err != nil {
			return nil, err
		}
		tables = append(tables, *t)
	}
	return tables, rows.Err()
}

func (r *PGTableRepository) Update(ctx context.Context, table *domain.Table) error {
	row := r.db.QueryRow(ctx, `UPDATE tables SET table_name=$1, capacity=$2, updated_at=now()
		WHERE table_id=$3 RETURNING `+tableColumns, table.Name, table.Capacity, table.ID)
	updated, err := scanTable(row, table.ID)
	if err != nil {
		return err
	}
	*table = *updated
	return nil
}

func (r *PGTableRepository) SetReservation(ctx context.Context, tableID int64, reservationID *int64) (*domain.Table, error) {
	row := r.db.QueryRow(ctx, `UPDATE tables SET reservation_id=$1, updated_at=now()
		WHERE table_id=$2 RETURNING `+tableColumns, reservationID, tableID)
	return scanTable(row, tableID)
}

func scanTable(row pgx.Row, id int64) (*domain.Table, error) {
	var t domain.Table
	if err := row.Scan(&t.ID, &t.Name, &t.Capacity, &t.ReservationID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &t, nil
}

var _ TableRepository = (*PGTableRepository)(nil)
