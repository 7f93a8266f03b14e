package availability

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averyhq/avery/internal/calendar"
	"github.com/averyhq/avery/internal/identity"
	"github.com/averyhq/avery/internal/profile"
)

// 2026-03-02 is a Monday, 2026-03-07 a Saturday.
const (
	testMonday   = "2026-03-02"
	testSaturday = "2026-03-07"
	testEmail    = "jane@example.com"
)

func newTestEngine(t *testing.T, transport calendar.Transport, config Config) (*Engine, *profile.Store) {
	t.Helper()
	store, err := profile.NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, store.AddEmail("user_1", testEmail))
	require.NoError(t, store.SaveCalendarSelection("user_1", []string{testEmail}))

	resolver := identity.NewResolver(store, nil)
	factory := func(ctx context.Context, email string) (calendar.Transport, error) {
		if transport == nil {
			return nil, errors.New("no transport configured")
		}
		return transport, nil
	}
	return NewEngine(store, resolver, factory, config, nil), store
}

func TestCheckAvailability_EmptyDay(t *testing.T) {
	transport := &fakeTransport{}
	engine, _ := newTestEngine(t, transport, Config{})

	got := engine.CheckAvailability(context.Background(), CheckRequest{
		Email:           testEmail,
		Date:            testMonday,
		DurationMinutes: 30,
		MaxSuggestions:  16,
	})

	require.True(t, got.Success, "error: %s", got.Error)
	assert.True(t, got.WorkingDay)
	assert.Equal(t, 1, got.CalendarsChecked)
	require.Len(t, got.FreeSlots, 16)
	assert.Equal(t, "2026-03-02T09:00:00Z", got.FreeSlots[0].Start)
	assert.Equal(t, "2026-03-02T17:00:00Z", got.FreeSlots[15].End)
	assert.Empty(t, got.BusyTimes)
	require.NotNil(t, got.WorkingHours)
	assert.Equal(t, "09:00", got.WorkingHours.Start)
	assert.Equal(t, "17:00", got.WorkingHours.End)
	assert.Equal(t, "UTC", got.UserTimezone)
}

func TestCheckAvailability_BusyHourSplitsDay(t *testing.T) {
	transport := &fakeTransport{events: map[string][]calendar.Event{
		testEmail: {
			{ID: "lunch", CalendarID: testEmail, Summary: "Lunch sync",
				Start: "2026-03-02T12:00:00Z", End: "2026-03-02T13:00:00Z"},
		},
	}}
	engine, _ := newTestEngine(t, transport, Config{})

	got := engine.CheckAvailability(context.Background(), CheckRequest{
		Email:           testEmail,
		Date:            testMonday,
		DurationMinutes: 60,
		MaxSuggestions:  10,
	})

	require.True(t, got.Success, "error: %s", got.Error)
	require.Len(t, got.FreeSlots, 7)
	assert.Equal(t, "2026-03-02T09:00:00Z", got.FreeSlots[0].Start)
	assert.Equal(t, "2026-03-02T13:00:00Z", got.FreeSlots[3].Start)
	require.Len(t, got.BusyTimes, 1)
	assert.Equal(t, "2026-03-02T12:00:00Z", got.BusyTimes[0].Start)
	assert.Equal(t, 60, got.RequestedDuration)
}

func TestCheckAvailability_NonWorkingDay(t *testing.T) {
	engine, _ := newTestEngine(t, &fakeTransport{}, Config{})

	got := engine.CheckAvailability(context.Background(), CheckRequest{
		Email: testEmail,
		Date:  testSaturday,
	})

	require.True(t, got.Success)
	assert.False(t, got.WorkingDay)
	assert.Equal(t, "Not a working day", got.Reason)
	assert.Empty(t, got.FreeSlots)
	assert.Empty(t, got.BusyTimes)
}

func TestCheckAvailability_UnknownEmail(t *testing.T) {
	engine, _ := newTestEngine(t, &fakeTransport{}, Config{})

	got := engine.CheckAvailability(context.Background(), CheckRequest{
		Email: "unknown@x.com",
		Date:  testMonday,
	})

	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "not connected")
	assert.NotNil(t, got.FreeSlots, "failure results still carry a well-formed shape")
}

func TestCheckAvailability_DisplayTimezone(t *testing.T) {
	engine, store := newTestEngine(t, &fakeTransport{}, Config{})
	require.NoError(t, store.SetTimezone("user_1", "UTC"))

	got := engine.CheckAvailability(context.Background(), CheckRequest{
		Email:           testEmail,
		Date:            testMonday,
		DurationMinutes: 60,
		MaxSuggestions:  1,
		DisplayTimezone: "America/Los_Angeles",
	})

	require.True(t, got.Success, "error: %s", got.Error)
	assert.Equal(t, "America/Los_Angeles", got.DisplayTimezone)
	require.Len(t, got.FreeSlots, 1)
	// 09:00 UTC is 01:00 in Los Angeles (PST).
	assert.Equal(t, "2026-03-02T01:00:00-08:00", got.FreeSlots[0].Start)
	assert.Equal(t, "UTC", got.UserTimezone)
}

func TestCheckAvailability_DefaultDisplayTimezoneFromConfig(t *testing.T) {
	engine, _ := newTestEngine(t, &fakeTransport{}, Config{DefaultDisplayTimezone: "Europe/Berlin"})

	got := engine.CheckAvailability(context.Background(), CheckRequest{
		Email: testEmail,
		Date:  testMonday,
	})

	require.True(t, got.Success, "error: %s", got.Error)
	assert.Equal(t, "Europe/Berlin", got.DisplayTimezone)
	assert.True(t, strings.HasSuffix(got.FreeSlots[0].Start, "+01:00"))
}

func TestCheckAvailability_InvalidDisplayTimezone(t *testing.T) {
	engine, _ := newTestEngine(t, &fakeTransport{}, Config{})

	got := engine.CheckAvailability(context.Background(), CheckRequest{
		Email:           testEmail,
		Date:            testMonday,
		DisplayTimezone: "Mars/Olympus_Mons",
	})

	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "display timezone")
}

func TestCheckAvailability_InvalidDate(t *testing.T) {
	engine, _ := newTestEngine(t, &fakeTransport{}, Config{})

	got := engine.CheckAvailability(context.Background(), CheckRequest{
		Email: testEmail,
		Date:  "next monday",
	})

	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "invalid date")
}

func TestCheckAvailability_TotalAggregationFailure(t *testing.T) {
	transport := &fakeTransport{failing: map[string]error{
		testEmail: errors.New("api unreachable"),
	}}
	engine, _ := newTestEngine(t, transport, Config{})

	got := engine.CheckAvailability(context.Background(), CheckRequest{
		Email: testEmail,
		Date:  testMonday,
	})

	// Still a success-shaped result, annotated as degraded.
	require.True(t, got.Success)
	assert.Zero(t, got.CalendarsChecked)
	assert.NotEmpty(t, got.Warning)
	assert.NotEmpty(t, got.FreeSlots)
}

func TestCheckAvailability_UserTimezoneWindow(t *testing.T) {
	transport := &fakeTransport{}
	engine, store := newTestEngine(t, transport, Config{})
	require.NoError(t, store.SetTimezone("user_1", "America/Los_Angeles"))

	got := engine.CheckAvailability(context.Background(), CheckRequest{
		Email:           testEmail,
		Date:            testMonday,
		DurationMinutes: 30,
		MaxSuggestions:  1,
	})

	require.True(t, got.Success, "error: %s", got.Error)
	assert.Equal(t, "America/Los_Angeles", got.UserTimezone)
	// Working hours are 09:00 local; rendered in UTC (default display
	// zone) the first slot starts at 17:00Z.
	require.Len(t, got.FreeSlots, 1)
	assert.Equal(t, "2026-03-02T17:00:00Z", got.FreeSlots[0].Start)
	require.NotNil(t, got.WorkingHours)
	assert.Equal(t, "2026-03-02T09:00:00-08:00", got.WorkingHours.StartFull)
	assert.Equal(t, "America/Los_Angeles", got.WorkingHours.Timezone)
}

func TestCheckAvailability_NoUsableCalendar(t *testing.T) {
	// No selection and a transport whose calendar list has nothing usable.
	store, err := profile.NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, store.AddEmail("user_1", testEmail))

	transport := &fakeTransport{calendars: []calendar.CalendarInfo{
		{ID: "shared@group.calendar.google.com", AccessRole: "reader"},
	}}
	resolver := identity.NewResolver(store, nil)
	factory := func(ctx context.Context, email string) (calendar.Transport, error) { return transport, nil }
	engine := NewEngine(store, resolver, factory, Config{}, nil)

	got := engine.CheckAvailability(context.Background(), CheckRequest{
		Email: testEmail,
		Date:  testMonday,
	})

	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "calendars")
}

func TestListEvents(t *testing.T) {
	transport := &fakeTransport{events: map[string][]calendar.Event{
		testEmail: {
			{ID: "e1", CalendarID: testEmail, Summary: "Planning",
				Start: "2026-03-02T10:00:00Z", End: "2026-03-02T11:00:00Z"},
			{ID: "e2", CalendarID: testEmail, Summary: "Offsite",
				Start: "2026-03-03", End: "2026-03-04", AllDay: true},
		},
	}}
	engine, _ := newTestEngine(t, transport, Config{})

	got := engine.ListEvents(context.Background(), ListRequest{
		Email:           testEmail,
		StartTime:       "2026-03-02T00:00:00Z",
		EndTime:         "2026-03-05T00:00:00Z",
		DisplayTimezone: "Europe/Berlin",
	})

	require.True(t, got.Success, "error: %s", got.Error)
	assert.Equal(t, 1, got.CalendarsChecked)
	require.Len(t, got.Events, 2)

	timed := got.Events[0]
	assert.Equal(t, "e1", timed.ID)
	assert.Equal(t, "2026-03-02T11:00:00+01:00", timed.Start)
	assert.Equal(t, "2026-03-02T10:00:00Z", timed.StartUTC)

	allDay := got.Events[1]
	assert.Equal(t, "e2", allDay.ID)
	assert.True(t, allDay.AllDay)
	assert.Equal(t, "2026-03-03", allDay.Start, "all-day events stay dates")
}

func TestListEvents_Defaults(t *testing.T) {
	engine, _ := newTestEngine(t, &fakeTransport{}, Config{})

	got := engine.ListEvents(context.Background(), ListRequest{Email: testEmail})

	require.True(t, got.Success, "error: %s", got.Error)
	assert.NotEmpty(t, got.StartTime)
	assert.NotEmpty(t, got.EndTime)
}

func TestListEvents_InvalidRange(t *testing.T) {
	engine, _ := newTestEngine(t, &fakeTransport{}, Config{})

	got := engine.ListEvents(context.Background(), ListRequest{
		Email:     testEmail,
		StartTime: "2026-03-05T00:00:00Z",
		EndTime:   "2026-03-02T00:00:00Z",
	})
	assert.False(t, got.Success)

	got = engine.ListEvents(context.Background(), ListRequest{
		Email:     testEmail,
		StartTime: "whenever",
	})
	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "start time")
}

func TestListEvents_UnknownEmail(t *testing.T) {
	engine, _ := newTestEngine(t, &fakeTransport{}, Config{})

	got := engine.ListEvents(context.Background(), ListRequest{Email: "unknown@x.com"})
	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "not connected")
}
