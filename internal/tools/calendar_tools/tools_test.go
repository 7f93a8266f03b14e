package calendar_tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averyhq/avery/internal/availability"
	"github.com/averyhq/avery/internal/calendar"
	"github.com/averyhq/avery/internal/server"
)

const testEmail = "jane@example.com"

type fakeTransport struct {
	events       map[string][]calendar.Event
	created      []calendar.EventInput
	createErr    error
	createdEvent *calendar.Event
}

func (f *fakeTransport) ListEvents(ctx context.Context, calendarID string, start, end time.Time, maxResults int64) ([]calendar.Event, error) {
	return f.events[calendarID], nil
}

func (f *fakeTransport) GetEvent(ctx context.Context, calendarID, eventID string) (*calendar.Event, error) {
	for _, event := range f.events[calendarID] {
		if event.ID == eventID {
			return &event, nil
		}
	}
	return nil, errors.New("event not found")
}

func (f *fakeTransport) ListCalendars(ctx context.Context) ([]calendar.CalendarInfo, error) {
	return []calendar.CalendarInfo{{ID: testEmail, Primary: true}}, nil
}

func (f *fakeTransport) CreateEvent(ctx context.Context, calendarID string, input calendar.EventInput) (*calendar.Event, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	if f.createdEvent != nil {
		return f.createdEvent, nil
	}
	return &calendar.Event{ID: "created", CalendarID: calendarID, Summary: input.Summary}, nil
}

func newToolContext(t *testing.T, transport *fakeTransport) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{ProfileDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	require.NoError(t, sc.Store().AddEmail("user_1", testEmail))
	require.NoError(t, sc.Store().SaveCalendarSelection("user_1", []string{testEmail}))
	sc.SetCalendarTransport(testEmail, transport)
	return sc
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, v interface{}) {
	t.Helper()
	require.False(t, result.IsError, "expected a structured result, got tool error")
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	require.NoError(t, json.Unmarshal([]byte(text.Text), v))
}

func TestHandleCheckAvailability(t *testing.T) {
	transport := &fakeTransport{events: map[string][]calendar.Event{
		testEmail: {
			{ID: "lunch", CalendarID: testEmail, Summary: "Lunch",
				Start: "2026-03-02T12:00:00Z", End: "2026-03-02T13:00:00Z"},
		},
	}}
	sc := newToolContext(t, transport)

	result, err := handleCheckAvailability(context.Background(), callRequest(map[string]interface{}{
		"email":           testEmail,
		"date":            "2026-03-02",
		"durationMinutes": float64(60),
		"maxSuggestions":  float64(10),
	}), sc)
	require.NoError(t, err)

	var got availability.CheckResult
	decodeResult(t, result, &got)
	require.True(t, got.Success, "error: %s", got.Error)
	assert.True(t, got.WorkingDay)
	assert.Len(t, got.FreeSlots, 7)
	assert.Len(t, got.BusyTimes, 1)
}

func TestHandleCheckAvailability_UnknownEmail(t *testing.T) {
	sc := newToolContext(t, &fakeTransport{})

	result, err := handleCheckAvailability(context.Background(), callRequest(map[string]interface{}{
		"email": "stranger@example.com",
		"date":  "2026-03-02",
	}), sc)
	require.NoError(t, err)

	// Domain failures come back as structured results, not tool errors.
	var got availability.CheckResult
	decodeResult(t, result, &got)
	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "not connected")
}

func TestHandleCheckAvailability_MissingArgs(t *testing.T) {
	sc := newToolContext(t, &fakeTransport{})

	result, err := handleCheckAvailability(context.Background(), callRequest(map[string]interface{}{
		"date": "2026-03-02",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = handleCheckAvailability(context.Background(), callRequest(map[string]interface{}{
		"email": testEmail,
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleListEvents(t *testing.T) {
	transport := &fakeTransport{events: map[string][]calendar.Event{
		testEmail: {
			{ID: "e1", CalendarID: testEmail, Summary: "Planning",
				Start: "2026-03-02T10:00:00Z", End: "2026-03-02T11:00:00Z"},
		},
	}}
	sc := newToolContext(t, transport)

	result, err := handleListEvents(context.Background(), callRequest(map[string]interface{}{
		"email":     testEmail,
		"startTime": "2026-03-02T00:00:00Z",
		"endTime":   "2026-03-03T00:00:00Z",
	}), sc)
	require.NoError(t, err)

	var got availability.ListResult
	decodeResult(t, result, &got)
	require.True(t, got.Success, "error: %s", got.Error)
	require.Len(t, got.Events, 1)
	assert.Equal(t, "e1", got.Events[0].ID)
}

func TestHandleGetEvent(t *testing.T) {
	transport := &fakeTransport{events: map[string][]calendar.Event{
		testEmail: {
			{ID: "e1", CalendarID: testEmail, Summary: "Planning",
				Start: "2026-03-02T10:00:00Z", End: "2026-03-02T11:00:00Z"},
		},
	}}
	sc := newToolContext(t, transport)

	result, err := handleGetEvent(context.Background(), callRequest(map[string]interface{}{
		"email":           testEmail,
		"eventId":         "e1",
		"displayTimezone": "America/New_York",
	}), sc)
	require.NoError(t, err)

	var got availability.GetResult
	decodeResult(t, result, &got)
	require.True(t, got.Success, "error: %s", got.Error)
	require.NotNil(t, got.Event)
	assert.Equal(t, "Planning", got.Event.Summary)
	assert.Equal(t, "2026-03-02T05:00:00-05:00", got.Event.Start)
	assert.Equal(t, "2026-03-02T10:00:00Z", got.Event.StartUTC)
}

func TestHandleGetEvent_NotFound(t *testing.T) {
	sc := newToolContext(t, &fakeTransport{})

	result, err := handleGetEvent(context.Background(), callRequest(map[string]interface{}{
		"email":   testEmail,
		"eventId": "ghost",
	}), sc)
	require.NoError(t, err)

	var got availability.GetResult
	decodeResult(t, result, &got)
	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "not found")
}

func TestHandleGetEvent_MissingEventID(t *testing.T) {
	sc := newToolContext(t, &fakeTransport{})

	result, err := handleGetEvent(context.Background(), callRequest(map[string]interface{}{
		"email": testEmail,
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleCreateEvent(t *testing.T) {
	transport := &fakeTransport{}
	sc := newToolContext(t, transport)

	result, err := handleCreateEvent(context.Background(), callRequest(map[string]interface{}{
		"email":     testEmail,
		"summary":   "Design review",
		"start":     "2026-03-02T14:00:00",
		"end":       "2026-03-02T15:00:00",
		"timeZone":  "America/New_York",
		"attendees": "bob@example.com, carol@example.com",
	}), sc)
	require.NoError(t, err)

	var got createEventResult
	decodeResult(t, result, &got)
	require.True(t, got.Success, "error: %s", got.Error)
	assert.Equal(t, testEmail, got.Calendar)

	require.Len(t, transport.created, 1)
	input := transport.created[0]
	assert.Equal(t, "Design review", input.Summary)
	assert.Equal(t, "America/New_York", input.TimeZone)
	assert.Equal(t, []string{"bob@example.com", "carol@example.com"}, input.Attendees)
	// Naive timestamps are interpreted in the given zone.
	assert.Equal(t, "14:00", input.Start.Format("15:04"))
}

func TestHandleCreateEvent_InvalidWindow(t *testing.T) {
	sc := newToolContext(t, &fakeTransport{})

	result, err := handleCreateEvent(context.Background(), callRequest(map[string]interface{}{
		"email":   testEmail,
		"summary": "Backwards",
		"start":   "2026-03-02T15:00:00Z",
		"end":     "2026-03-02T14:00:00Z",
	}), sc)
	require.NoError(t, err)

	var got createEventResult
	decodeResult(t, result, &got)
	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "before end")
}

func TestHandleCreateEvent_TransportFailure(t *testing.T) {
	transport := &fakeTransport{createErr: errors.New("quota exceeded")}
	sc := newToolContext(t, transport)

	result, err := handleCreateEvent(context.Background(), callRequest(map[string]interface{}{
		"email":   testEmail,
		"summary": "Doomed",
		"start":   "2026-03-02T14:00:00Z",
		"end":     "2026-03-02T15:00:00Z",
	}), sc)
	require.NoError(t, err)

	var got createEventResult
	decodeResult(t, result, &got)
	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "quota exceeded")
}
