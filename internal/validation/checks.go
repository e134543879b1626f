package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/Domenick1991/periodic-tables/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

func required(field string) Rule {
	return Rule{
		Name: "required:" + field,
		Check: func(p Payload) error {
			v, ok := p[field]
			if !ok || v == nil {
				return domain.NewValidationError(domain.ErrMissingField, field,
					fmt.Sprintf("the '%s' property is required", field))
			}
			s, isString := v.(string)
			if !isString {
				return domain.NewValidationError(domain.ErrInvalidFormat, field,
					fmt.Sprintf("the '%s' property must be a string", field))
			}
			if s == "" {
				return domain.NewValidationError(domain.ErrMissingField, field,
					fmt.Sprintf("the '%s' property is required", field))
			}
			return nil
		},
	}
}

// minLength assumes required(field) ran first.
func minLength(field string, n int) Rule {
	return Rule{
		Name: "min_length:" + field,
		Check: func(p Payload) error {
			s, _ := p[field].(string)
			if len([]rune(s)) < n {
				return domain.NewValidationError(domain.ErrTooShort, field,
					fmt.Sprintf("the '%s' property must be at least %d characters long", field, n))
			}
			return nil
		},
	}
}

// positiveInteger accepts whole numbers in 1..MaxInt32, the range of the
// integer columns it guards.
func positiveInteger(field string) Rule {
	return positiveUpTo("positive_integer:"+field, field, math.MaxInt32)
}

// positiveID accepts any positive bigint row id.
func positiveID(field string) Rule {
	return positiveUpTo("positive_id:"+field, field, math.MaxInt64)
}

func positiveUpTo(name, field string, limit int64) Rule {
	return Rule{
		Name: name,
		Check: func(p Payload) error {
			if _, ok := asPositiveInt(p[field], limit); !ok {
				return domain.NewValidationError(domain.ErrNotPositiveInteger, field,
					fmt.Sprintf("the '%s' property must be a whole number greater than zero: %v", field, p[field]))
			}
			return nil
		},
	}
}

func dateFormat(field string) Rule {
	return Rule{
		Name: "date_format:" + field,
		Check: func(p Payload) error {
			s, _ := p[field].(string)
			if !IsDate(s) {
				return domain.NewValidationError(domain.ErrInvalidFormat, field,
					fmt.Sprintf("the '%s' property must be a date in YYYY-MM-DD format: '%s'", field, s))
			}
			return nil
		},
	}
}

func timeFormat(field string) Rule {
	return Rule{
		Name: "time_format:" + field,
		Check: func(p Payload) error {
			s, _ := p[field].(string)
			if !timePattern.MatchString(s) {
				return invalidTime(field, s)
			}
			if _, err := time.Parse(timeLayout, s); err != nil {
				return invalidTime(field, s)
			}
			return nil
		},
	}
}

func invalidTime(field, s string) error {
	return domain.NewValidationError(domain.ErrInvalidFormat, field,
		fmt.Sprintf("the '%s' property must be a time in HH:MM format: '%s'", field, s))
}

// IsDate reports whether s is a real calendar date written as YYYY-MM-DD.
func IsDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// asPositiveInt reports whether v is a whole number in 1..limit.
func asPositiveInt(v any, limit int64) (int64, bool) {
	var n int64
	switch x := v.(type) {
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			f, ferr := x.Float64()
			if ferr != nil || !wholeUpTo(f, limit) {
				return 0, false
			}
			i = int64(f)
		}
		n = i
	case float64:
		if !wholeUpTo(x, limit) {
			return 0, false
		}
		n = int64(x)
	case int:
		n = int64(x)
	case int64:
		n = x
	default:
		return 0, false
	}
	if n <= 0 || n > limit {
		return 0, false
	}
	return n, true
}

// wholeUpTo reports whether f is a whole number in 1..limit. float64(limit)+1 is
// an exact power of two for both int32 and int64 limits.
func wholeUpTo(f float64, limit int64) bool {
	return f == math.Trunc(f) && f >= 1 && f < float64(limit)+1
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
