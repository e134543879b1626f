package tables

import (
	"context"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/Domenick1991/periodic-tables/internal/repository"
	"github.com/Domenick1991/periodic-tables/internal/validation"
	"github.com/sirupsen/logrus"
)

type TableUseCase interface {
	Create(ctx context.Context, payload validation.Payload) (*domain.Table, error)
	List(ctx context.Context) ([]domain.Table, error)
	Get(ctx context.Context, id int64) (*domain.Table, error)
	Update(ctx context.Context, id int64, payload validation.Payload) (*domain.Table, error)
}

type Cache interface {
	GetTables(ctx context.Context) ([]domain.Table, error)
	SetTables(ctx context.Context, tables []domain.Table) error
	InvalidateTables(ctx context.Context) error
}

type TableService struct {
	store     repository.Store
	validator *validation.Validator
	cache     Cache
	log       logrus.FieldLogger
}

type TableServiceOption func(*TableService)

func WithCache(cache Cache) TableServiceOption {
	return func(s *TableService) {
		s.cache = cache
	}
}

func WithLogger(log logrus.FieldLogger) TableServiceOption {
	return func(s *TableService) {
		s.log = log
	}
}

func NewTableService(store repository.Store, validator *validation.Validator, opts ...TableServiceOption) *TableService {
	s := &TableService{
		store:     store,
		validator: validator,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TableService) Create(ctx context.Context, payload validation.Payload) (*domain.Table, error) {
	input, err := s.validator.Table(payload)
	if err != nil {
		return nil, err
	}

	table := &domain.Table{Name: input.Name, Capacity: input.Capacity}
	if err := s.store.Tables().Create(ctx, table); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return table, nil
}

// List serves from the cache when it holds a copy and refills it otherwise.
func (s *TableService) List(ctx context.Context) ([]domain.Table, error) {
	if s.cache != nil {
		cached, err := s.cache.GetTables(ctx)
		if err != nil {
			s.log.WithError(err).Warn("table cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	tables, err := s.store.Tables().List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetTables(ctx, tables); err != nil {
			s.log.WithError(err).Warn("table cache write failed")
		}
	}
	return tables, nil
}

func (s *TableService) Get(ctx context.Context, id int64) (*domain.Table, error) {
	return s.store.Tables().GetByID(ctx, id)
}

// Update renames or resizes a table. The seated reservation, if any, stays.
func (s *TableService) Update(ctx context.Context, id int64, payload validation.Payload) (*domain.Table, error) {
	input, err := s.validator.Table(payload)
	if err != nil {
		return nil, err
	}

	var updated *domain.Table
	err = s.store.Do(ctx, func(ctx context.Context, tx repository.Tx) error {
		table, err := tx.Tables().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		table.Name = input.Name
		table.Capacity = input.Capacity
		if err := tx.Tables().Update(ctx, table); err != nil {
			return err
		}
		updated = table
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *TableService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTables(ctx); err != nil {
		s.log.WithError(err).Warn("table cache invalidation failed")
	}
}

var _ TableUseCase = (*TableService)(nil)
