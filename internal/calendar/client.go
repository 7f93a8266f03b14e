package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/averyhq/avery/internal/google"
)

// Transport is the calendar access surface the availability engine depends
// on. It is satisfied by Client and by test fakes, keeping the engine free
// of any Google API types.
type Transport interface {
	// ListEvents returns the events on one calendar between start and end.
	// maxResults <= 0 means the transport's default page size.
	ListEvents(ctx context.Context, calendarID string, start, end time.Time, maxResults int64) ([]Event, error)

	// GetEvent fetches a single event by ID from one calendar.
	GetEvent(ctx context.Context, calendarID, eventID string) (*Event, error)

	// ListCalendars returns the calendars visible to the account.
	ListCalendars(ctx context.Context) ([]CalendarInfo, error)

	// CreateEvent inserts a new event on the given calendar.
	CreateEvent(ctx context.Context, calendarID string, input EventInput) (*Event, error)
}

// TransportFactory builds a Transport for one connected account email.
// Injected into the server context so tests can substitute fakes.
type TransportFactory func(ctx context.Context, email string) (Transport, error)

// Client wraps the Google Calendar service for a single connected account.
type Client struct {
	svc   *calendar.Service
	email string
}

var _ Transport = (*Client)(nil)

// Email returns the account email this client is associated with.
func (c *Client) Email() string {
	return c.email
}

// NewClientForEmail creates a Calendar client authenticated as the account
// identified by email, using the provided token provider.
func NewClientForEmail(ctx context.Context, email string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account: %w", err)
	}

	conf, err := google.OAuthConfig()
	if err != nil {
		return nil, err
	}
	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))

	// Force HTTP/1.1, some Google endpoints misbehave over HTTP/2.
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{ForceAttemptHTTP2: false}
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{svc: svc, email: email}, nil
}

// NewClient creates a Calendar client using the default file-based token
// provider.
func NewClient(ctx context.Context, email string) (*Client, error) {
	return NewClientForEmail(ctx, email, google.NewFileTokenProvider())
}

// ListEvents lists events in a calendar within a time range, expanded to
// single instances and ordered by start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, start, end time.Time, maxResults int64) ([]Event, error) {
	call := c.svc.Events.List(calendarID).
		Context(ctx).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	events, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	result := make([]Event, 0, len(events.Items))
	for _, item := range events.Items {
		e := toEvent(item)
		e.CalendarID = calendarID
		result = append(result, e)
	}
	return result, nil
}

// GetEvent fetches one event by its ID.
func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (*Event, error) {
	item, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	e := toEvent(item)
	e.CalendarID = calendarID
	return &e, nil
}

// ListCalendars lists all calendars accessible to the account.
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	list, err := c.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	calendars := make([]CalendarInfo, 0, len(list.Items))
	for _, entry := range list.Items {
		calendars = append(calendars, toCalendarInfo(entry))
	}
	return calendars, nil
}

// CreateEvent creates a new calendar event.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*Event, error) {
	if input.TimeZone == "" {
		input.TimeZone = "UTC"
	}
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
	}

	for _, email := range input.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	e := toEvent(created)
	e.CalendarID = calendarID
	return &e, nil
}
