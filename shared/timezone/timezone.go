package timezone

import (
	"salon/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var location = sync.OnceValue(func() *time.Location {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, using UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
})

// GetLocation returns the application timezone.
func GetLocation() *time.Location {
	return location()
}

func Now() time.Time {
	return time.Now().In(location())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

// Parse reads value as a wall-clock time in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, location()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// At returns the instant sinceMidnight after the start of date's calendar day, in the
// application timezone. Only the year, month and day of date are used.
func At(date time.Time, sinceMidnight time.Duration) time.Time {
	year, month, day := date.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, location()).Add(sinceMidnight)
}

// Today returns the start of the current day in the application timezone.
func Today() time.Time {
	return At(Now(), 0)
}
