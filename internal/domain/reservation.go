package domain

import (
	"fmt"
	"time"
)

type ReservationStatus string

const (
	ReservationStatusBooked    ReservationStatus = "booked"
	ReservationStatusSeated    ReservationStatus = "seated"
	ReservationStatusFinished  ReservationStatus = "finished"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

var reservationStatuses = []ReservationStatus{
	ReservationStatusBooked,
	ReservationStatusSeated,
	ReservationStatusFinished,
	ReservationStatusCancelled,
}

// allowedTransitions lists the outgoing edges of the reservation state machine.
// finished and cancelled have none.
var allowedTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusBooked: {ReservationStatusSeated, ReservationStatusCancelled},
	ReservationStatusSeated: {ReservationStatusFinished},
}

type Reservation struct {
	ID              int64
	FirstName       string
	LastName        string
	MobileNumber    string
	People          int
	ReservationDate string
	ReservationTime string
	Status          ReservationStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ReservationStatuses() []ReservationStatus {
	out := make([]ReservationStatus, len(reservationStatuses))
	copy(out, reservationStatuses)
	return out
}

func (s ReservationStatus) Valid() bool {
	for _, known := range reservationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s ReservationStatus) Terminal() bool {
	return s == ReservationStatusFinished || s == ReservationStatusCancelled
}

// CheckTransition reports whether a reservation may move from one status to another.
// Staying in the same status is always allowed.
func CheckTransition(from, to ReservationStatus) error {
	if from == to {
		return nil
	}
	if from.Terminal() {
		if from == ReservationStatusFinished {
			return ErrFinishedStatusImmutable
		}
		return ErrCancelledStatusImmutable
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return ErrInvalidTransition
}

// CheckStatusChange is CheckTransition for writes that touch the reservation
// row alone. Seated and finished also change table occupancy, so they are
// only reachable by seating and finishing at a table.
func CheckStatusChange(from, to ReservationStatus) error {
	if err := CheckTransition(from, to); err != nil || from == to {
		return err
	}
	if to == ReservationStatusSeated || to == ReservationStatusFinished {
		return fmt.Errorf("%s to %s requires a table: %w", from, to, ErrInvalidTransition)
	}
	return nil
}
