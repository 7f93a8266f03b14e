package calendar

import (
	"testing"

	gcal "google.golang.org/api/calendar/v3"
)

func TestToEvent_TimedEvent(t *testing.T) {
	e := toEvent(&gcal.Event{
		Id:      "evt1",
		Summary: "Standup",
		Status:  "confirmed",
		Start:   &gcal.EventDateTime{DateTime: "2026-03-02T09:00:00-08:00"},
		End:     &gcal.EventDateTime{DateTime: "2026-03-02T09:15:00-08:00"},
		Organizer: &gcal.EventOrganizer{
			Email: "boss@example.com",
		},
	})

	if e.ID != "evt1" {
		t.Errorf("ID = %q, want %q", e.ID, "evt1")
	}
	if e.Start != "2026-03-02T09:00:00-08:00" {
		t.Errorf("Start = %q, want the raw wire string", e.Start)
	}
	if e.AllDay {
		t.Error("timed event should not be marked all-day")
	}
	if e.Organizer != "boss@example.com" {
		t.Errorf("Organizer = %q, want %q", e.Organizer, "boss@example.com")
	}
}

func TestToEvent_AllDayEvent(t *testing.T) {
	e := toEvent(&gcal.Event{
		Id:      "evt2",
		Summary: "Company Holiday",
		Start:   &gcal.EventDateTime{Date: "2026-03-02"},
		End:     &gcal.EventDateTime{Date: "2026-03-03"},
	})

	if !e.AllDay {
		t.Error("date-only event should be marked all-day")
	}
	if e.Start != "2026-03-02" {
		t.Errorf("Start = %q, want the date string", e.Start)
	}
	if e.End != "2026-03-03" {
		t.Errorf("End = %q, want the date string", e.End)
	}
}

func TestToEvent_Attendees(t *testing.T) {
	e := toEvent(&gcal.Event{
		Id: "evt3",
		Attendees: []*gcal.EventAttendee{
			{Email: "a@example.com", ResponseStatus: "accepted", Organizer: true},
			{Email: "b@example.com", ResponseStatus: "needsAction", Optional: true},
		},
	})

	if len(e.Attendees) != 2 {
		t.Fatalf("len(Attendees) = %d, want 2", len(e.Attendees))
	}
	if !e.Attendees[0].Organizer {
		t.Error("first attendee should be the organizer")
	}
	if !e.Attendees[1].Optional {
		t.Error("second attendee should be optional")
	}
}

func TestToEvent_MeetLink(t *testing.T) {
	e := toEvent(&gcal.Event{
		Id: "evt4",
		ConferenceData: &gcal.ConferenceData{
			EntryPoints: []*gcal.EntryPoint{
				{EntryPointType: "phone", Uri: "tel:+1-555-0100"},
				{EntryPointType: "video", Uri: "https://meet.example.com/abc"},
			},
		},
	})

	if e.MeetLink != "https://meet.example.com/abc" {
		t.Errorf("MeetLink = %q, want the video entry point", e.MeetLink)
	}
}

func TestToCalendarInfo(t *testing.T) {
	info := toCalendarInfo(&gcal.CalendarListEntry{
		Id:         "jane@example.com",
		Summary:    "Jane's Calendar",
		TimeZone:   "America/New_York",
		Primary:    true,
		AccessRole: "owner",
	})

	if info.ID != "jane@example.com" {
		t.Errorf("ID = %q, want %q", info.ID, "jane@example.com")
	}
	if !info.Primary {
		t.Error("Primary should be true")
	}
	if info.AccessRole != "owner" {
		t.Errorf("AccessRole = %q, want %q", info.AccessRole, "owner")
	}
}
