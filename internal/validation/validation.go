// Package validation holds the format checks shared by every resource and the
// validator/v10 rule set built on top of them. Nothing here performs I/O.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DateLayout is the wire format of calendar dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format of 24-hour clock times.
	TimeLayout = "15:04"
	// FeatureCount is the length of an EEG feature vector.
	FeatureCount = 115
)

var (
	personNamePattern = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
)

var (
	// ErrFeatureShape reports a feature vector that is not a list of FeatureCount values.
	ErrFeatureShape = errors.New("features must be an array of exactly 115 values")
	// ErrFeatureValue reports an element that cannot be read as a float.
	ErrFeatureValue = errors.New("features must contain valid numeric values")
)

// IsValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsValidTime reports whether s is a 24-hour HH:MM time between 00:00 and 23:59.
func IsValidTime(s string) bool {
	// The hour element parses one digit too; keep HH:MM so times sort as strings.
	if len(s) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// IsValidPersonName reports whether s is non-blank and made of letters, spaces,
// hyphens and apostrophes only.
func IsValidPersonName(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && personNamePattern.MatchString(s)
}

// IsValidFeatureVector reports whether v holds exactly FeatureCount values that
// all convert to float64.
func IsValidFeatureVector(v any) bool {
	_, err := ParseFeatureVector(v)
	return err == nil
}

// ParseFeatureVector converts a decoded JSON value into a feature vector. The
// shape is checked before any element so a wrong-length input always reports
// ErrFeatureShape.
func ParseFeatureVector(v any) ([]float64, error) {
	var items []any
	switch raw := v.(type) {
	case []any:
		items = raw
	case []float64:
		if len(raw) != FeatureCount {
			return nil, ErrFeatureShape
		}
		return append([]float64(nil), raw...), nil
	default:
		return nil, ErrFeatureShape
	}
	if len(items) != FeatureCount {
		return nil, ErrFeatureShape
	}

	out := make([]float64, len(items))
	for i, item := range items {
		f, err := toFloat(item)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, ErrFeatureValue)
		}
		out[i] = f
	}
	return out, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	case interface{ Float64() (float64, error) }:
		return n.Float64()
	}
	return 0, ErrFeatureValue
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Rule tags registered on the shared validator.
const (
	TagCalendarDate = "calendar_date"
	TagClockTime    = "clock_time"
	TagNotBlank     = "not_blank"
	TagTimeList     = "time_list"
	TagSeizureFlag  = "seizure_flag"
)

// Validator returns the shared validator with the format rules registered.
// Field names in errors are the json names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegister(v, TagCalendarDate, stringRule(IsValidDate))
		mustRegister(v, TagClockTime, stringRule(IsValidTime))
		mustRegister(v, TagNotBlank, stringRule(func(s string) bool { return strings.TrimSpace(s) != "" }))
		mustRegister(v, TagTimeList, isNonEmptyList)
		mustRegister(v, TagSeizureFlag, func(fl validator.FieldLevel) bool {
			_, ok := ParseSeizureFlag(fl.Field().Interface())
			return ok
		})
		validate = v
	})
	return validate
}

// ParseSeizureFlag reads a decoded occurred value. The numbers 0 and 1 in any
// numeric representation are accepted, and so are false and true.
func ParseSeizureFlag(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, false
	}
	switch f {
	case 0:
		return 0, true
	case 1:
		return 1, true
	}
	return 0, false
}

// stringRule only passes string fields that satisfy check.
func stringRule(check func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		f := fl.Field()
		return f.Kind() == reflect.String && check(f.String())
	}
}

func isNonEmptyList(fl validator.FieldLevel) bool {
	f := fl.Field()
	return (f.Kind() == reflect.Slice || f.Kind() == reflect.Array) && f.Len() > 0
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}
