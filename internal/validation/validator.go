package validation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Domenick1991/periodic-tables/internal/domain"
)

const (
	fieldFirstName     = "first_name"
	fieldLastName      = "last_name"
	fieldMobileNumber  = "mobile_number"
	fieldPeople        = "people"
	fieldDate          = "reservation_date"
	fieldTime          = "reservation_time"
	fieldStatus        = "status"
	fieldTableName     = "table_name"
	fieldCapacity      = "capacity"
	fieldReservationID = "reservation_id"
)

type ReservationInput struct {
	FirstName       string
	LastName        string
	MobileNumber    string
	People          int
	ReservationDate string
	ReservationTime string
	// Status is empty when an update did not mention it.
	Status domain.ReservationStatus
}

// Apply copies the validated fields onto r, leaving its status alone when the
// input carries none.
func (in ReservationInput) Apply(r *domain.Reservation) {
	r.FirstName = in.FirstName
	r.LastName = in.LastName
	r.MobileNumber = in.MobileNumber
	r.People = in.People
	r.ReservationDate = in.ReservationDate
	r.ReservationTime = in.ReservationTime
	if in.Status != "" {
		r.Status = in.Status
	}
}

type TableInput struct {
	Name     string
	Capacity int
}

type Option func(*Validator)

// WithClock replaces time.Now for the future-date rule.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// Validator owns one pipeline per entity and operation. It is immutable after
// construction and safe for concurrent use.
type Validator struct {
	rules Rules
	now   func() time.Time

	createReservation Pipeline
	updateReservation Pipeline
	statusChange      Pipeline
	table             Pipeline
	seat              Pipeline
}

func NewValidator(rules Rules, opts ...Option) (*Validator, error) {
	if err := rules.validate(); err != nil {
		return nil, err
	}
	if rules.Location == nil {
		rules.Location = time.Local
	}
	rules.ClosedDays = append([]time.Weekday(nil), rules.ClosedDays...)

	v := &Validator{rules: rules, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}

	reservation := Pipeline{
		required(fieldFirstName),
		required(fieldLastName),
		required(fieldMobileNumber),
		dateFormat(fieldDate),
		timeFormat(fieldTime),
		positiveInteger(fieldPeople),
		{Name: "future", Check: v.inFuture},
		{Name: "open_day", Check: v.openDay},
		{Name: "service_window", Check: v.withinServiceWindow},
	}
	v.createReservation = reservation.Then(Rule{Name: "initial_status", Check: initialStatus})
	v.updateReservation = reservation.Then(Rule{Name: "status", Check: optionalStatus})
	v.statusChange = Pipeline{{Name: "status", Check: knownStatus}}
	v.table = Pipeline{
		required(fieldTableName),
		minLength(fieldTableName, 2),
		positiveInteger(fieldCapacity),
	}
	v.seat = Pipeline{
		present(fieldReservationID),
		positiveID(fieldReservationID),
	}
	return v, nil
}

// NewReservation validates a creation payload. The returned status is always booked.
func (v *Validator) NewReservation(p Payload) (ReservationInput, error) {
	if err := v.createReservation.Run(p); err != nil {
		return ReservationInput{}, err
	}
	in := reservationInput(p)
	in.Status = domain.ReservationStatusBooked
	return in, nil
}

// ReservationUpdate validates a full-field update payload.
func (v *Validator) ReservationUpdate(p Payload) (ReservationInput, error) {
	if err := v.updateReservation.Run(p); err != nil {
		return ReservationInput{}, err
	}
	return reservationInput(p), nil
}

func (v *Validator) Status(p Payload) (domain.ReservationStatus, error) {
	if err := v.statusChange.Run(p); err != nil {
		return "", err
	}
	return domain.ReservationStatus(asString(p[fieldStatus])), nil
}

func (v *Validator) Table(p Payload) (TableInput, error) {
	if err := v.table.Run(p); err != nil {
		return TableInput{}, err
	}
	capacity, _ := asPositiveInt(p[fieldCapacity], math.MaxInt32)
	return TableInput{Name: p[fieldTableName].(string), Capacity: int(capacity)}, nil
}

// Seat validates the body of a seat request and returns the reservation id.
func (v *Validator) Seat(p Payload) (int64, error) {
	if err := v.seat.Run(p); err != nil {
		return 0, err
	}
	id, _ := asPositiveInt(p[fieldReservationID], math.MaxInt64)
	return id, nil
}

// Date validates a date used as a list filter.
func (v *Validator) Date(s string) error {
	if !IsDate(s) {
		return domain.NewValidationError(domain.ErrInvalidFormat, "date",
			fmt.Sprintf("date must be in YYYY-MM-DD format: '%s'", s))
	}
	return nil
}

// Today is the current calendar date in the restaurant's time zone.
func (v *Validator) Today() string {
	return v.now().In(v.rules.Location).Format(dateLayout)
}

func (v *Validator) inFuture(p Payload) error {
	date, clock := p[fieldDate].(string), p[fieldTime].(string)
	at, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, v.rules.Location)
	if err != nil {
		return domain.NewValidationError(domain.ErrInvalidFormat, fieldDate, err.Error())
	}
	if !at.After(v.now()) {
		return domain.NewValidationError(domain.ErrNotInFuture, fieldDate,
			fmt.Sprintf("reservation date/time must be in the future: %s %s", date, clock))
	}
	return nil
}

func (v *Validator) openDay(p Payload) error {
	day, _ := time.Parse(dateLayout, p[fieldDate].(string))
	if v.rules.Closed(day.Weekday()) {
		return domain.NewValidationError(domain.ErrClosedDay, fieldDate,
			fmt.Sprintf("the restaurant is closed on %ss", day.Weekday()))
	}
	return nil
}

func (v *Validator) withinServiceWindow(p Payload) error {
	minutes, _ := ParseClock(p[fieldTime].(string))
	if minutes < v.rules.OpenTime || minutes > v.rules.LastSeating() {
		return domain.NewValidationError(domain.ErrOutsideServiceWindow, fieldTime,
			fmt.Sprintf("reservation time must be between %s and %s",
				FormatClock(v.rules.OpenTime), FormatClock(v.rules.LastSeating())))
	}
	return nil
}

func initialStatus(p Payload) error {
	s := asString(p[fieldStatus])
	if s != "" && domain.ReservationStatus(s) != domain.ReservationStatusBooked {
		return domain.NewValidationError(domain.ErrInvalidInitialStatus, fieldStatus,
			fmt.Sprintf("invalid status %q: a new reservation must have no status or a status of 'booked'", s))
	}
	return nil
}

func optionalStatus(p Payload) error {
	if asString(p[fieldStatus]) == "" {
		return nil
	}
	return knownStatus(p)
}

func knownStatus(p Payload) error {
	s := asString(p[fieldStatus])
	if !domain.ReservationStatus(s).Valid() {
		return domain.NewValidationError(domain.ErrInvalidStatus, fieldStatus,
			fmt.Sprintf("invalid status %q: status must be one of %s", s, statusList()))
	}
	return nil
}

func present(field string) Rule {
	return Rule{
		Name: "required:" + field,
		Check: func(p Payload) error {
			if v, ok := p[field]; !ok || v == nil || v == "" {
				return domain.NewValidationError(domain.ErrMissingField, field,
					fmt.Sprintf("the '%s' property is required", field))
			}
			return nil
		},
	}
}

func reservationInput(p Payload) ReservationInput {
	people, _ := asPositiveInt(p[fieldPeople], math.MaxInt32)
	return ReservationInput{
		FirstName:       p[fieldFirstName].(string),
		LastName:        p[fieldLastName].(string),
		MobileNumber:    p[fieldMobileNumber].(string),
		People:          int(people),
		ReservationDate: p[fieldDate].(string),
		ReservationTime: p[fieldTime].(string),
		Status:          domain.ReservationStatus(asString(p[fieldStatus])),
	}
}

func statusList() string {
	statuses := domain.ReservationStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
