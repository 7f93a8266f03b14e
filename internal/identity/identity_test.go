package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averyhq/avery/internal/calendar"
	"github.com/averyhq/avery/internal/profile"
)

// fakeTransport satisfies calendar.Transport for resolver tests.
type fakeTransport struct {
	calendars []calendar.CalendarInfo
	listErr   error
	listCalls int
}

func (f *fakeTransport) ListEvents(ctx context.Context, calendarID string, start, end time.Time, maxResults int64) ([]calendar.Event, error) {
	return nil, nil
}

func (f *fakeTransport) GetEvent(ctx context.Context, calendarID, eventID string) (*calendar.Event, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTransport) ListCalendars(ctx context.Context) ([]calendar.CalendarInfo, error) {
	f.listCalls++
	return f.calendars, f.listErr
}

func (f *fakeTransport) CreateEvent(ctx context.Context, calendarID string, input calendar.EventInput) (*calendar.Event, error) {
	return nil, errors.New("not implemented")
}

func newTestResolver(t *testing.T) (*Resolver, *profile.Store) {
	t.Helper()
	store, err := profile.NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	return NewResolver(store, nil), store
}

func TestResolve(t *testing.T) {
	r, store := newTestResolver(t)
	require.NoError(t, store.AddEmail("user_1", "jane@example.com"))
	require.NoError(t, store.AddEmail("user_1", "jane@corp.example.com"))
	require.NoError(t, store.AddEmail("user_2", "bob@example.com"))

	got, err := r.Resolve("jane@corp.example.com")
	require.NoError(t, err)
	assert.Equal(t, "user_1", got)

	got, err = r.Resolve("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user_2", got)
}

func TestResolve_UnknownEmail(t *testing.T) {
	r, store := newTestResolver(t)
	require.NoError(t, store.AddEmail("user_1", "jane@example.com"))

	_, err := r.Resolve("stranger@example.com")
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestSelfCalendars_FromSelection(t *testing.T) {
	r, store := newTestResolver(t)
	require.NoError(t, store.AddEmail("user_1", "jane@example.com"))
	require.NoError(t, store.SaveCalendarSelection("user_1", []string{
		"jane@example.com",
		"jane@example.com-team-offsite",
		"shared-room@resource.calendar.google.com",
	}))

	transport := &fakeTransport{}
	got, err := r.SelfCalendars(context.Background(), "jane@example.com", transport)
	require.NoError(t, err)
	assert.Equal(t, []string{"jane@example.com", "jane@example.com-team-offsite"}, got)
	assert.Zero(t, transport.listCalls, "transport should not be consulted when selection matches")
}

func TestSelfCalendars_FallbackToPrimary(t *testing.T) {
	r, store := newTestResolver(t)
	require.NoError(t, store.AddEmail("user_1", "jane@example.com"))

	transport := &fakeTransport{calendars: []calendar.CalendarInfo{
		{ID: "shared@group.calendar.google.com", AccessRole: "reader"},
		{ID: "jane@example.com", Primary: true, AccessRole: "owner"},
	}}

	got, err := r.SelfCalendars(context.Background(), "jane@example.com", transport)
	require.NoError(t, err)
	assert.Equal(t, []string{"jane@example.com"}, got)
}

func TestSelfCalendars_FallbackToOwnerRole(t *testing.T) {
	r, store := newTestResolver(t)
	require.NoError(t, store.AddEmail("user_1", "jane@example.com"))

	transport := &fakeTransport{calendars: []calendar.CalendarInfo{
		{ID: "shared@group.calendar.google.com", AccessRole: "reader"},
		{ID: "owned@group.calendar.google.com", AccessRole: "owner"},
	}}

	got, err := r.SelfCalendars(context.Background(), "jane@example.com", transport)
	require.NoError(t, err)
	assert.Equal(t, []string{"owned@group.calendar.google.com"}, got)
}

func TestSelfCalendars_NoUsableCalendar(t *testing.T) {
	r, store := newTestResolver(t)
	require.NoError(t, store.AddEmail("user_1", "jane@example.com"))

	transport := &fakeTransport{calendars: []calendar.CalendarInfo{
		{ID: "shared@group.calendar.google.com", AccessRole: "reader"},
	}}

	_, err := r.SelfCalendars(context.Background(), "jane@example.com", transport)
	assert.ErrorIs(t, err, ErrNoUsableCalendar)
}

func TestSelfCalendars_UnknownEmail(t *testing.T) {
	r, _ := newTestResolver(t)

	_, err := r.SelfCalendars(context.Background(), "stranger@example.com", &fakeTransport{})
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestSelfCalendars_ListFailure(t *testing.T) {
	r, store := newTestResolver(t)
	require.NoError(t, store.AddEmail("user_1", "jane@example.com"))

	transport := &fakeTransport{listErr: errors.New("api unreachable")}
	_, err := r.SelfCalendars(context.Background(), "jane@example.com", transport)
	assert.Error(t, err)
}
