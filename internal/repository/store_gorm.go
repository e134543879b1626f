package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type reservationRecord struct {
	ID              int64     `gorm:"column:reservation_id;primaryKey;autoIncrement"`
	FirstName       string    `gorm:"column:first_name;type:varchar(255);not null"`
	LastName        string    `gorm:"column:last_name;type:varchar(255);not null"`
	MobileNumber    string    `gorm:"column:mobile_number;type:varchar(64);not null"`
	People          int       `gorm:"column:people;not null"`
	ReservationDate string    `gorm:"column:reservation_date;type:varchar(10);not null;index:idx_reservations_date,priority:1"`
	ReservationTime string    `gorm:"column:reservation_time;type:varchar(5);not null;index:idx_reservations_date,priority:2"`
	Status          string    `gorm:"column:status;type:varchar(16);not null;default:booked"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null"`
}

func (reservationRecord) TableName() string { return "reservations" }

type tableRecord struct {
	ID            int64     `gorm:"column:table_id;primaryKey;autoIncrement"`
	Name          string    `gorm:"column:table_name;type:varchar(255);not null"`
	Capacity      int       `gorm:"column:capacity;not null"`
	ReservationID *int64    `gorm:"column:reservation_id"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

func (tableRecord) TableName() string { return "tables" }

// OpenGorm connects to a MySQL or SQLite database. SQL is logged through log at warn level.
func OpenGorm(driver, dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

// GormStore implements Store on top of gorm. Inside Do the same type is
// reused with the transaction handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&reservationRecord{}, &tableRecord{})
}

func (s *GormStore) Reservations() ReservationRepository {
	return &GormReservationRepository{db: s.db}
}

func (s *GormStore) Tables() TableRepository {
	return &GormTableRepository{db: s.db}
}

func (s *GormStore) Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &GormStore{db: tx})
	})
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect has row locks.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func notFound(err error, entity string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
	}
	return err
}

// mobileDigits strips the same characters as the Postgres translate() call.
const mobileDigits = `REPLACE(REPLACE(REPLACE(REPLACE(mobile_number, '(', ''), ')', ''), ' ', ''), '-', '')`

type GormReservationRepository struct {
	db *gorm.DB
}

func (r *GormReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	if reservation.Status == "" {
		reservation.Status = domain.ReservationStatusBooked
	}
	rec := toReservationRecord(reservation)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	*reservation = rec.toDomain()
	return nil
}

func (r *GormReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *GormReservationRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.first(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormReservationRepository) first(db *gorm.DB, id int64) (*domain.Reservation, error) {
	var rec reservationRecord
	if err := db.First(&rec, "reservation_id = ?", id).Error; err != nil {
		return nil, notFound(err, "reservation", id)
	}
	res := rec.toDomain()
	return &res, nil
}

func (r *GormReservationRepository) ListByDate(ctx context.Context, date string) ([]domain.Reservation, error) {
	var recs []reservationRecord
	err := r.db.WithContext(ctx).
		Where("reservation_date = ? AND status NOT IN ?", date,
			[]string{string(domain.ReservationStatusFinished), string(domain.ReservationStatusCancelled)}).
		Order("reservation_time").Order("reservation_id").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return toReservations(recs), nil
}

func (r *GormReservationRepository) SearchByMobile(ctx context.Context, digits string) ([]domain.Reservation, error) {
	var recs []reservationRecord
	err := r.db.WithContext(ctx).
		Where(mobileDigits+" LIKE ?", "%"+digits+"%").
		Order("reservation_date").Order("reservation_time").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return toReservations(recs), nil
}

func (r *GormReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	db := r.db.WithContext(ctx)
	err := db.Model(&reservationRecord{}).Where("reservation_id = ?", reservation.ID).Updates(map[string]any{
		"first_name":       reservation.FirstName,
		"last_name":        reservation.LastName,
		"mobile_number":    reservation.MobileNumber,
		"people":           reservation.People,
		"reservation_date": reservation.ReservationDate,
		"reservation_time": reservation.ReservationTime,
		"status":           string(reservation.Status),
		"updated_at":       time.Now(),
	}).Error
	if err != nil {
		return err
	}
	updated, err := r.first(db, reservation.ID)
	if err != nil {
		return err
	}
	*reservation = *updated
	return nil
}

func (r *GormReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error) {
	db := r.db.WithContext(ctx)
	err := db.Model(&reservationRecord{}).Where("reservation_id = ?", id).Updates(map[string]any{
		"status":     string(status),
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return r.first(db, id)
}

type GormTableRepository struct {
	db *gorm.DB
}

func (r *GormTableRepository) Create(ctx context.Context, table *domain.Table) error {
	rec := toTableRecord(table)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert table: %w", err)
	}
	*table = rec.toDomain()
	return nil
}

func (r *GormTableRepository) GetByID(ctx context.Context, id int64) (*domain.Table, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *GormTableRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Table, error) {
	return r.first(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormTableRepository) first(db *gorm.DB, id int64) (*domain.Table, error) {
	var rec tableRecord
	if err := db.First(&rec, "table_id = ?", id).Error; err != nil {
		return nil, notFound(err, "table", id)
	}
	t := rec.toDomain()
	return &t, nil
}

func (r *GormTableRepository) List(ctx context.Context) ([]domain.Table, error) {
	var recs []tableRecord
	if err := r.db.WithContext(ctx).Order("table_name").Order("table_id").Find(&recs).Error; err != nil {
		return nil, err
	}
	tables := make([]domain.Table, 0, len(recs))
	for _, rec := range recs {
		tables = append(tables, rec.toDomain())
	}
	return tables, nil
}

func (r *GormTableRepository) Update(ctx context.Context, table *domain.Table) error {
	db := r.db.WithContext(ctx)
	err := db.Model(&tableRecord{}).Where("table_id = ?", table.ID).Updates(map[string]any{
		"table_name": table.Name,
		"capacity":   table.Capacity,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return err
	}
	updated, err := r.first(db, table.ID)
	if err != nil {
		return err
	}
	*table = *updated
	return nil
}

func (r *GormTableRepository) SetReservation(ctx context.Context, tableID int64, reservationID *int64) (*domain.Table, error) {
	db := r.db.WithContext(ctx)
	err := db.Model(&tableRecord{}).Where("table_id = ?", tableID).Updates(map[string]any{
		"reservation_id": reservationID,
		"updated_at":     time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return r.first(db, tableID)
}

func toReservationRecord(r *domain.Reservation) reservationRecord {
	return reservationRecord{
		ID:              r.ID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		MobileNumber:    r.MobileNumber,
		People:          r.People,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		Status:          string(r.Status),
	}
}

func (rec reservationRecord) toDomain() domain.Reservation {
	return domain.Reservation{
		ID:              rec.ID,
		FirstName:       rec.FirstName,
		LastName:        rec.LastName,
		MobileNumber:    rec.MobileNumber,
		People:          rec.People,
		ReservationDate: rec.ReservationDate,
		ReservationTime: rec.ReservationTime,
		Status:          domain.ReservationStatus(rec.Status),
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

func toReservations(recs []reservationRecord) []domain.Reservation {
	out := make([]domain.Reservation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out
}

func toTableRecord(t *domain.Table) tableRecord {
	return tableRecord{
		ID:            t.ID,
		Name:          t.Name,
		Capacity:      t.Capacity,
		ReservationID: t.ReservationID,
	}
}

func (rec tableRecord) toDomain() domain.Table {
	return domain.Table{
		ID:            rec.ID,
		Name:          rec.Name,
		Capacity:      rec.Capacity,
		ReservationID: rec.ReservationID,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

var (
	_ Store                 = (*GormStore)(nil)
	_ ReservationRepository = (*GormReservationRepository)(nil)
	_ TableRepository       = (*GormTableRepository)(nil)
)
