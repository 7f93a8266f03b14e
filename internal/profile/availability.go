package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/averyhq/avery/internal/logging"
)

// AvailabilityForDate resolves the user's working window for a calendar
// date ("2006-01-02"). Non-working days come back with Available=false and
// a reason; working days carry full start/end datetimes localized in the
// profile's timezone.
func (s *Store) AvailabilityForDate(userID, date string) (DayAvailability, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return DayAvailability{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	p := s.Profile(userID)
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		// SetTimezone validates on write, so this only happens when the
		// record was edited out of band. Degrade to UTC rather than fail.
		s.logger.Warn("profile has unloadable timezone, using UTC",
			logging.UserID(userID), logging.Timezone(p.Timezone), logging.Err(err))
		loc = time.UTC
		p.Timezone = "UTC"
	}

	weekday := strings.ToLower(day.Weekday().String())
	hours := p.WorkingHours[weekday]
	if !hours.Enabled {
		return DayAvailability{
			Available: false,
			Timezone:  p.Timezone,
			Reason:    "Not a working day",
		}, nil
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hours.Start, loc)
	if err != nil {
		return DayAvailability{}, fmt.Errorf("bad working hours start for %s: %w", weekday, err)
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hours.End, loc)
	if err != nil {
		return DayAvailability{}, fmt.Errorf("bad working hours end for %s: %w", weekday, err)
	}

	return DayAvailability{
		Available: true,
		Start:     start.Format(time.RFC3339),
		End:       end.Format(time.RFC3339),
		Timezone:  p.Timezone,
	}, nil
}
