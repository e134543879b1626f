package validation

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2030-01-01 is a Tuesday.
var fixedNow = time.Date(2030, time.January, 1, 12, 0, 0, 0, time.UTC)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	rules := DefaultRules()
	rules.Location = time.UTC
	v, err := NewValidator(rules, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return v
}

func validReservation() Payload {
	return Payload{
		"first_name":       "Rick",
		"last_name":        "Sanchez",
		"mobile_number":    "(202) 555-0164",
		"people":           json.Number("4"),
		"reservation_date": "2030-01-02",
		"reservation_time": "18:00",
	}
}

func with(p Payload, key string, value any) Payload {
	out := Payload{}
	for k, v := range p {
		out[k] = v
	}
	if value == nil {
		delete(out, key)
	} else {
		out[key] = value
	}
	return out
}

func TestNewReservation_Valid(t *testing.T) {
	v := newTestValidator(t)

	in, err := v.NewReservation(validReservation())

	require.NoError(t, err)
	assert.Equal(t, "Rick", in.FirstName)
	assert.Equal(t, "Sanchez", in.LastName)
	assert.Equal(t, "(202) 555-0164", in.MobileNumber)
	assert.Equal(t, 4, in.People)
	assert.Equal(t, "2030-01-02", in.ReservationDate)
	assert.Equal(t, "18:00", in.ReservationTime)
	assert.Equal(t, domain.ReservationStatusBooked, in.Status)
}

func TestNewReservation_MissingFields(t *testing.T) {
	v := newTestValidator(t)

	for _, field := range []string{"first_name", "last_name", "mobile_number"} {
		t.Run("absent "+field, func(t *testing.T) {
			_, err := v.NewReservation(with(validReservation(), field, nil))
			assert.ErrorIs(t, err, domain.ErrMissingField)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, field, verr.Field)
			assert.Equal(t, "required:"+field, verr.Rule)
		})
		t.Run("empty "+field, func(t *testing.T) {
			_, err := v.NewReservation(with(validReservation(), field, ""))
			assert.ErrorIs(t, err, domain.ErrMissingField)
		})
	}
}

func TestNewReservation_EmptyPayload(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.NewReservation(nil)

	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestNewReservation_People(t *testing.T) {
	v := newTestValidator(t)

	invalid := map[string]any{
		"zero":           json.Number("0"),
		"negative":       json.Number("-1"),
		"fraction":       json.Number("2.5"),
		"numeric string": "3",
		"bool":           true,
	}
	for name, people := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := v.NewReservation(with(validReservation(), "people", people))
			assert.ErrorIs(t, err, domain.ErrNotPositiveInteger)
		})
	}
	t.Run("absent", func(t *testing.T) {
		_, err := v.NewReservation(with(validReservation(), "people", nil))
		assert.ErrorIs(t, err, domain.ErrNotPositiveInteger)
	})

	for _, people := range []json.Number{"1", "50"} {
		in, err := v.NewReservation(with(validReservation(), "people", people))
		require.NoError(t, err, people)
		n, _ := people.Int64()
		assert.Equal(t, int(n), in.People)
	}
}

func TestNewReservation_DateFormatCheckedBeforeFuture(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.NewReservation(with(validReservation(), "reservation_date", "2099-13-45"))

	require.ErrorIs(t, err, domain.ErrInvalidFormat)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "date_format:reservation_date", verr.Rule)
}

func TestNewReservation_InvalidFormats(t *testing.T) {
	v := newTestValidator(t)

	cases := map[string]Payload{
		"date without dashes": with(validReservation(), "reservation_date", "20300102"),
		"date with suffix":    with(validReservation(), "reservation_date", "2030-01-02T00:00"),
		"date missing":        with(validReservation(), "reservation_date", nil),
		"time with seconds":   with(validReservation(), "reservation_time", "18:00:00"),
		"time out of range":   with(validReservation(), "reservation_time", "25:61"),
		"time missing":        with(validReservation(), "reservation_time", nil),
		"first name not text": with(validReservation(), "first_name", json.Number("7")),
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.NewReservation(p)
			assert.ErrorIs(t, err, domain.ErrInvalidFormat)
		})
	}
}

func TestNewReservation_NotInFuture(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.NewReservation(with(validReservation(), "reservation_date", "2029-12-31"))
	assert.ErrorIs(t, err, domain.ErrNotInFuture)

	exactlyNow := with(with(validReservation(), "reservation_date", "2030-01-01"), "reservation_time", "12:00")
	_, err = v.NewReservation(exactlyNow)
	assert.ErrorIs(t, err, domain.ErrNotInFuture)
}

func TestNewReservation_ClosedDay(t *testing.T) {
	v := newTestValidator(t)

	for _, clock := range []string{"09:00", "10:30", "18:00", "23:00"} {
		p := with(with(validReservation(), "reservation_date", "2030-01-08"), "reservation_time", clock)
		_, err := v.NewReservation(p)
		assert.ErrorIs(t, err, domain.ErrClosedDay, clock)
	}
}

func TestNewReservation_ServiceWindow(t *testing.T) {
	v := newTestValidator(t)

	for _, clock := range []string{"10:30", "12:00", "21:30"} {
		_, err := v.NewReservation(with(validReservation(), "reservation_time", clock))
		assert.NoError(t, err, clock)
	}
	for _, clock := range []string{"00:00", "10:00", "10:29", "21:31", "22:30"} {
		_, err := v.NewReservation(with(validReservation(), "reservation_time", clock))
		assert.ErrorIs(t, err, domain.ErrOutsideServiceWindow, clock)
	}
}

func TestNewReservation_InitialStatus(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.NewReservation(with(validReservation(), "status", "booked"))
	assert.NoError(t, err)

	for _, status := range []string{"seated", "finished", "cancelled", "unknown"} {
		_, err := v.NewReservation(with(validReservation(), "status", status))
		assert.ErrorIs(t, err, domain.ErrInvalidInitialStatus, status)
	}
}

func TestReservationUpdate_Status(t *testing.T) {
	v := newTestValidator(t)

	in, err := v.ReservationUpdate(validReservation())
	require.NoError(t, err)
	assert.Empty(t, in.Status)

	in, err = v.ReservationUpdate(with(validReservation(), "status", "cancelled"))
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, in.Status)

	_, err = v.ReservationUpdate(with(validReservation(), "status", "gone"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = v.ReservationUpdate(with(validReservation(), "reservation_time", "22:00"))
	assert.ErrorIs(t, err, domain.ErrOutsideServiceWindow)
}

func TestStatus(t *testing.T) {
	v := newTestValidator(t)

	for _, s := range domain.ReservationStatuses() {
		got, err := v.Status(Payload{"status": string(s)})
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	for _, p := range []Payload{{"status": "unknown"}, {}, {"status": json.Number("1")}} {
		_, err := v.Status(p)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	}
}

func TestTable(t *testing.T) {
	v := newTestValidator(t)

	in, err := v.Table(Payload{"table_name": "Bar #1", "capacity": json.Number("6")})
	require.NoError(t, err)
	assert.Equal(t, TableInput{Name: "Bar #1", Capacity: 6}, in)

	_, err = v.Table(Payload{"capacity": json.Number("6")})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = v.Table(Payload{"table_name": "A", "capacity": json.Number("6")})
	assert.ErrorIs(t, err, domain.ErrTooShort)

	for _, capacity := range []any{json.Number("0"), json.Number("-2"), json.Number("1.5"), "6", nil} {
		_, err = v.Table(Payload{"table_name": "Patio", "capacity": capacity})
		assert.ErrorIs(t, err, domain.ErrNotPositiveInteger)
	}
}

func TestSeat(t *testing.T) {
	v := newTestValidator(t)

	id, err := v.Seat(Payload{"reservation_id": json.Number("12")})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = v.Seat(Payload{})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = v.Seat(Payload{"reservation_id": "twelve"})
	assert.ErrorIs(t, err, domain.ErrNotPositiveInteger)
}

func TestSeat_BigintIDs(t *testing.T) {
	v := newTestValidator(t)

	id, err := v.Seat(Payload{"reservation_id": json.Number("3000000000")})
	require.NoError(t, err)
	assert.Equal(t, int64(3000000000), id)

	id, err = v.Seat(Payload{"reservation_id": json.Number("9223372036854775807")})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), id)

	_, err = v.Seat(Payload{"reservation_id": json.Number("9223372036854775808")})
	assert.ErrorIs(t, err, domain.ErrNotPositiveInteger)

	_, err = v.Table(Payload{"table_name": "Patio", "capacity": json.Number("3000000000")})
	assert.ErrorIs(t, err, domain.ErrNotPositiveInteger)
}

func TestDateAndToday(t *testing.T) {
	v := newTestValidator(t)

	assert.NoError(t, v.Date("2030-02-28"))
	assert.ErrorIs(t, v.Date("2030-02-30"), domain.ErrInvalidFormat)
	assert.ErrorIs(t, v.Date(""), domain.ErrInvalidFormat)
	assert.Equal(t, "2030-01-01", v.Today())
}

func TestPipelineOrder(t *testing.T) {
	v := newTestValidator(t)

	assert.Equal(t, []string{
		"required:first_name",
		"required:last_name",
		"required:mobile_number",
		"date_format:reservation_date",
		"time_format:reservation_time",
		"positive_integer:people",
		"future",
		"open_day",
		"service_window",
		"initial_status",
	}, v.createReservation.Names())
}

func TestPipeline_ShortCircuits(t *testing.T) {
	var ran []string
	rule := func(name string, err error) Rule {
		return Rule{Name: name, Check: func(Payload) error {
			ran = append(ran, name)
			return err
		}}
	}
	p := Pipeline{
		rule("first", nil),
		rule("second", domain.NewValidationError(domain.ErrTooShort, "x", "")),
		rule("third", nil),
	}

	err := p.Run(Payload{})

	assert.ErrorIs(t, err, domain.ErrTooShort)
	assert.Equal(t, []string{"first", "second"}, ran)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "second", verr.Rule)
}

func TestNewValidator_RejectsEmptyWindow(t *testing.T) {
	rules := DefaultRules()
	rules.LastSeatingBuffer = 13 * 60

	_, err := NewValidator(rules)

	assert.Error(t, err)
}

func TestNewValidator_CopiesClosedDays(t *testing.T) {
	rules := DefaultRules()
	rules.Location = time.UTC
	v, err := NewValidator(rules, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	rules.ClosedDays[0] = time.Wednesday

	_, err = v.NewReservation(validReservation())
	assert.NoError(t, err)
}
