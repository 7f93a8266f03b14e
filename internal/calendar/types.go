package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// Event is a calendar event as it crosses the transport boundary.
// Start and End are the raw wire strings: RFC3339 for timed events,
// "2006-01-02" for all-day events (AllDay is set in that case and the
// event carries no instant boundaries).
type Event struct {
	ID          string         `json:"id"`
	CalendarID  string         `json:"calendar_id,omitempty"`
	Summary     string         `json:"summary"`
	Description string         `json:"description,omitempty"`
	Location    string         `json:"location,omitempty"`
	Start       string         `json:"start"`
	End         string         `json:"end"`
	AllDay      bool           `json:"all_day,omitempty"`
	Organizer   string         `json:"organizer,omitempty"`
	Status      string         `json:"status,omitempty"`
	Attendees   []AttendeeInfo `json:"attendees,omitempty"`
	MeetLink    string         `json:"meet_link,omitempty"`
}

// AttendeeInfo represents information about an event attendee.
type AttendeeInfo struct {
	Email          string `json:"email"`
	DisplayName    string `json:"display_name,omitempty"`
	ResponseStatus string `json:"response_status,omitempty"` // "needsAction", "declined", "tentative", "accepted"
	Optional       bool   `json:"optional,omitempty"`
	Organizer      bool   `json:"organizer,omitempty"`
}

// CalendarInfo represents information about a calendar.
type CalendarInfo struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	TimeZone    string `json:"timezone,omitempty"`
	Primary     bool   `json:"primary,omitempty"`
	AccessRole  string `json:"access_role,omitempty"` // "owner", "writer", "reader", "freeBusyReader"
}

// EventInput represents the input for creating a calendar event.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string
}

// toEvent converts a Google Calendar event to the transport Event type.
func toEvent(event *calendar.Event) Event {
	e := Event{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Status:      event.Status,
	}

	if event.Start != nil {
		if event.Start.DateTime != "" {
			e.Start = event.Start.DateTime
		} else if event.Start.Date != "" {
			e.Start = event.Start.Date
			e.AllDay = true
		}
	}
	if event.End != nil {
		if event.End.DateTime != "" {
			e.End = event.End.DateTime
		} else if event.End.Date != "" {
			e.End = event.End.Date
			e.AllDay = true
		}
	}

	if event.Organizer != nil {
		e.Organizer = event.Organizer.Email
	}

	for _, att := range event.Attendees {
		e.Attendees = append(e.Attendees, AttendeeInfo{
			Email:          att.Email,
			DisplayName:    att.DisplayName,
			ResponseStatus: att.ResponseStatus,
			Optional:       att.Optional,
			Organizer:      att.Organizer,
		})
	}

	if event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				e.MeetLink = ep.Uri
				break
			}
		}
	}

	return e
}

// toCalendarInfo converts a Google Calendar list entry to CalendarInfo.
func toCalendarInfo(entry *calendar.CalendarListEntry) CalendarInfo {
	return CalendarInfo{
		ID:          entry.Id,
		Summary:     entry.Summary,
		Description: entry.Description,
		TimeZone:    entry.TimeZone,
		Primary:     entry.Primary,
		AccessRole:  entry.AccessRole,
	}
}
