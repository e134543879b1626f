package domain

import "time"

// Table is a seating resource. ReservationID is set while a party is seated there.
type Table struct {
	ID            int64
	Name          string
	Capacity      int
	ReservationID *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (t *Table) Occupied() bool {
	return t.ReservationID != nil
}
