package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

const day = 24 * time.Hour

// TimeOfDay is an offset from midnight stored in a Postgres TIME column.
type TimeOfDay time.Duration

// NewTimeOfDay builds a TimeOfDay from its clock components.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	value = strings.TrimSpace(value)

	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return TimeOfDayFromTime(t), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
}

// TimeOfDayFromTime keeps the wall clock part of t.
func TimeOfDayFromTime(t time.Time) TimeOfDay {
	return TimeOfDay(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second)
}

func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t)
}

// String renders "HH:MM".
func (t TimeOfDay) String() string {
	d := time.Duration(t)

	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// Value implements driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	d := time.Duration(t)
	if d < 0 || d >= day {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimeOfDay, d)
	}

	return fmt.Sprintf("%s:%02d", t.String(), int(d%time.Minute/time.Second)), nil
}

// Scan implements sql.Scanner.
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeOfDayFromTime(v)

		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeOfDay, src)
	}
}

func (t *TimeOfDay) scanString(value string) error {
	parsed, err := ParseTimeOfDay(value)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTimeOfDay, err)
	}

	return t.scanString(value)
}
