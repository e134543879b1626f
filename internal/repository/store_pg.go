package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	pool         *pgxpool.Pool
	reservations ReservationRepository
	tables       TableRepository
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{
		pool:         pool,
		reservations: NewReservationRepository(pool),
		tables:       NewTableRepository(pool),
	}
}

func (s *PGStore) Reservations() ReservationRepository { return s.reservations }

func (s *PGStore) Tables() TableRepository { return s.tables }

func (s *PGStore) Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t pgTx) Reservations() ReservationRepository { return &PGReservationRepository{db: t.tx} }

func (t pgTx) Tables() TableRepository { return &PGTableRepository{db: t.tx} }

var _ Store = (*PGStore)(nil)
