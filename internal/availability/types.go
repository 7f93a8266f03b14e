package availability

import "time"

// Interval is a half-open [Start, End) span in UTC. Busy intervals carry
// the calendar they came from.
type Interval struct {
	Start      time.Time
	End        time.Time
	CalendarID string
	Summary    string
}

// Overlaps reports whether two intervals share any time.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Slot is a proposed meeting slot rendered in the display timezone.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BusyTime is an occupied span rendered in the display timezone.
type BusyTime struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	CalendarID string `json:"calendar_id,omitempty"`
}

// WorkingHours describes the working window applied to a check.
type WorkingHours struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	StartFull string `json:"start_full"`
	EndFull   string `json:"end_full"`
	Timezone  string `json:"timezone"`
}

// CheckRequest asks for free slots for one account on one date.
type CheckRequest struct {
	Email           string
	Date            string
	DurationMinutes int
	MaxSuggestions  int
	DisplayTimezone string
}

// CheckResult is the structured outcome of an availability check. Identity,
// configuration and transport conditions are reported in-band (Success
// false plus Error, or Warning for degraded results), never as bare Go
// errors, so the agent on the other side of the tool boundary always gets
// something it can reason about.
type CheckResult struct {
	Success           bool          `json:"success"`
	Error             string        `json:"error,omitempty"`
	Email             string        `json:"email"`
	Date              string        `json:"date"`
	WorkingDay        bool          `json:"working_day"`
	Reason            string        `json:"reason,omitempty"`
	UserTimezone      string        `json:"user_timezone,omitempty"`
	DisplayTimezone   string        `json:"display_timezone,omitempty"`
	WorkingHours      *WorkingHours `json:"working_hours,omitempty"`
	RequestedDuration int           `json:"requested_duration,omitempty"`
	FreeSlots         []Slot        `json:"free_slots"`
	BusyTimes         []BusyTime    `json:"busy_times"`
	CalendarsChecked  int           `json:"calendars_checked"`
	Warning           string        `json:"warning,omitempty"`
	Message           string        `json:"message,omitempty"`
}

// ListRequest asks for the events visible on one account's own calendars.
type ListRequest struct {
	Email           string
	StartTime       string
	EndTime         string
	MaxResults      int
	DisplayTimezone string
}

// EventView is an event rendered for the caller: display-timezone
// datetimes with the UTC instants kept for reference.
type EventView struct {
	ID         string `json:"id"`
	CalendarID string `json:"calendar_id,omitempty"`
	Summary    string `json:"summary"`
	Start      string `json:"start"`
	End        string `json:"end"`
	StartUTC   string `json:"start_utc,omitempty"`
	EndUTC     string `json:"end_utc,omitempty"`
	AllDay     bool   `json:"all_day,omitempty"`
	Location   string `json:"location,omitempty"`
	MeetLink   string `json:"meet_link,omitempty"`
}

// GetRequest asks for one event by ID on one account's calendars.
type GetRequest struct {
	Email           string
	EventID         string
	CalendarID      string
	DisplayTimezone string
}

// GetResult is the structured outcome of a single-event fetch.
type GetResult struct {
	Success         bool       `json:"success"`
	Error           string     `json:"error,omitempty"`
	Email           string     `json:"email"`
	DisplayTimezone string     `json:"display_timezone,omitempty"`
	Event           *EventView `json:"event,omitempty"`
}

// ListResult is the structured outcome of an event listing.
type ListResult struct {
	Success          bool        `json:"success"`
	Error            string      `json:"error,omitempty"`
	Email            string      `json:"email"`
	StartTime        string      `json:"start_time"`
	EndTime          string      `json:"end_time"`
	DisplayTimezone  string      `json:"display_timezone,omitempty"`
	Events           []EventView `json:"events"`
	CalendarsChecked int         `json:"calendars_checked"`
	Warning          string      `json:"warning,omitempty"`
}
