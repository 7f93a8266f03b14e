package availability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/averyhq/avery/internal/calendar"
	"github.com/averyhq/avery/internal/identity"
	"github.com/averyhq/avery/internal/logging"
	"github.com/averyhq/avery/internal/profile"
	"github.com/averyhq/avery/internal/timezone"
)

// Defaults applied to requests that leave the knobs unset.
const (
	DefaultDurationMinutes = 30
	DefaultMaxSuggestions  = 5
	DefaultMaxEvents       = 50
	defaultListWindow      = 7 * 24 * time.Hour
)

// Config tunes engine behavior.
type Config struct {
	// DefaultDisplayTimezone is used when a request names no display
	// timezone. Empty means UTC.
	DefaultDisplayTimezone string
	// IncludeAllDay makes date-only events count as busy time.
	IncludeAllDay bool
}

// Engine computes availability across a user's calendars. All collaborators
// are injected; the engine holds no global state and is safe for concurrent
// use.
type Engine struct {
	store      *profile.Store
	resolver   *identity.Resolver
	transports calendar.TransportFactory
	aggregator *Aggregator
	logger     *slog.Logger
	config     Config
}

// NewEngine wires an engine from its collaborators.
func NewEngine(store *profile.Store, resolver *identity.Resolver, transports calendar.TransportFactory, config Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	aggregator := NewAggregator(logger)
	aggregator.IncludeAllDay = config.IncludeAllDay
	return &Engine{
		store:      store,
		resolver:   resolver,
		transports: transports,
		aggregator: aggregator,
		logger:     logger,
		config:     config,
	}
}

// displayZone resolves the display timezone priority: explicit request,
// then the configured default, then UTC.
func (e *Engine) displayZone(requested string) (string, *time.Location, error) {
	name := requested
	if name == "" {
		name = e.config.DefaultDisplayTimezone
	}
	if name == "" {
		name = "UTC"
	}
	loc, err := timezone.LoadZone(name)
	if err != nil {
		return "", nil, err
	}
	return name, loc, nil
}

// CheckAvailability resolves the account, applies the user's working hours
// for the date, aggregates busy time across the user's own calendars and
// synthesizes free slots in the display timezone.
func (e *Engine) CheckAvailability(ctx context.Context, req CheckRequest) CheckResult {
	result := CheckResult{
		Email:     req.Email,
		Date:      req.Date,
		FreeSlots: []Slot{},
		BusyTimes: []BusyTime{},
	}
	fail := func(format string, args ...interface{}) CheckResult {
		result.Success = false
		result.Error = fmt.Sprintf(format, args...)
		return result
	}

	durationMinutes := req.DurationMinutes
	if durationMinutes <= 0 {
		durationMinutes = DefaultDurationMinutes
	}
	maxSuggestions := req.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}
	result.RequestedDuration = durationMinutes

	zoneName, loc, err := e.displayZone(req.DisplayTimezone)
	if err != nil {
		return fail("invalid display timezone %q", req.DisplayTimezone)
	}
	result.DisplayTimezone = zoneName

	userID, err := e.resolver.Resolve(req.Email)
	if err != nil {
		return fail("calendar not connected for %s", req.Email)
	}

	day, err := e.store.AvailabilityForDate(userID, req.Date)
	if err != nil {
		return fail("invalid date %q, expected YYYY-MM-DD", req.Date)
	}

	userProfile := e.store.Profile(userID)
	result.UserTimezone = userProfile.Timezone

	if !day.Available {
		result.Success = true
		result.WorkingDay = false
		result.Reason = day.Reason
		result.Message = fmt.Sprintf("%s is not a working day for %s", req.Date, userProfile.Display())
		return result
	}
	result.WorkingDay = true

	windowStart, err := time.Parse(time.RFC3339, day.Start)
	if err != nil {
		return fail("unusable working hours for %s", req.Date)
	}
	windowEnd, err := time.Parse(time.RFC3339, day.End)
	if err != nil {
		return fail("unusable working hours for %s", req.Date)
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	dayHours := userProfile.WorkingHours[strings.ToLower(date.Weekday().String())]
	result.WorkingHours = &WorkingHours{
		Start:     dayHours.Start,
		End:       dayHours.End,
		StartFull: day.Start,
		EndFull:   day.End,
		Timezone:  userProfile.Timezone,
	}

	transport, err := e.transports(ctx, req.Email)
	if err != nil {
		return fail("calendar access unavailable for %s: %v", req.Email, err)
	}

	calendarIDs, err := e.resolver.SelfCalendars(ctx, req.Email, transport)
	if err != nil {
		return fail("cannot determine calendars for %s: %v", req.Email, err)
	}

	agg := e.aggregator.Aggregate(ctx, transport, calendarIDs, windowStart.UTC(), windowEnd.UTC())
	result.CalendarsChecked = agg.CalendarsChecked
	if agg.CalendarsChecked == 0 && len(calendarIDs) > 0 {
		result.Warning = fmt.Sprintf("all %d calendars failed to answer; availability may be incomplete", len(calendarIDs))
	}

	slots := SynthesizeSlots(windowStart.UTC(), windowEnd.UTC(),
		time.Duration(durationMinutes)*time.Minute, agg.Busy, maxSuggestions)

	for _, s := range slots {
		result.FreeSlots = append(result.FreeSlots, Slot{
			Start: s.Start.In(loc).Format(time.RFC3339),
			End:   s.End.In(loc).Format(time.RFC3339),
		})
	}
	for _, b := range agg.Busy {
		result.BusyTimes = append(result.BusyTimes, BusyTime{
			Start:      b.Start.In(loc).Format(time.RFC3339),
			End:        b.End.In(loc).Format(time.RFC3339),
			CalendarID: b.CalendarID,
		})
	}

	if len(result.FreeSlots) == 0 {
		result.Message = fmt.Sprintf("no free %d-minute slots on %s within working hours", durationMinutes, req.Date)
	} else {
		result.Message = fmt.Sprintf("found %d free %d-minute slots on %s", len(result.FreeSlots), durationMinutes, req.Date)
	}

	e.logger.Info("availability check completed",
		logging.Operation("availability.check"),
		logging.UserHash(req.Email),
		logging.UserID(userID),
		slog.Int("free_slots", len(result.FreeSlots)),
		slog.Int("calendars_checked", result.CalendarsChecked))

	result.Success = true
	return result
}

// ListEvents aggregates events across the user's own calendars without
// slot synthesis. Missing boundaries default to a seven-day window from
// now.
func (e *Engine) ListEvents(ctx context.Context, req ListRequest) ListResult {
	result := ListResult{
		Email:  req.Email,
		Events: []EventView{},
	}
	fail := func(format string, args ...interface{}) ListResult {
		result.Success = false
		result.Error = fmt.Sprintf(format, args...)
		return result
	}

	zoneName, loc, err := e.displayZone(req.DisplayTimezone)
	if err != nil {
		return fail("invalid display timezone %q", req.DisplayTimezone)
	}
	result.DisplayTimezone = zoneName

	start := time.Now().UTC()
	if req.StartTime != "" {
		start, err = timezone.Parse(req.StartTime, time.UTC)
		if err != nil {
			return fail("invalid start time %q", req.StartTime)
		}
		start = start.UTC()
	}
	end := start.Add(defaultListWindow)
	if req.EndTime != "" {
		end, err = timezone.Parse(req.EndTime, time.UTC)
		if err != nil {
			return fail("invalid end time %q", req.EndTime)
		}
		end = end.UTC()
	}
	if !start.Before(end) {
		return fail("start time must be before end time")
	}
	result.StartTime = start.Format(time.RFC3339)
	result.EndTime = end.Format(time.RFC3339)

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxEvents
	}

	if _, err := e.resolver.Resolve(req.Email); err != nil {
		return fail("calendar not connected for %s", req.Email)
	}

	transport, err := e.transports(ctx, req.Email)
	if err != nil {
		return fail("calendar access unavailable for %s: %v", req.Email, err)
	}

	calendarIDs, err := e.resolver.SelfCalendars(ctx, req.Email, transport)
	if err != nil {
		return fail("cannot determine calendars for %s: %v", req.Email, err)
	}

	agg := e.aggregator.CollectEvents(ctx, transport, calendarIDs, start, end, maxResults)
	result.CalendarsChecked = agg.CalendarsChecked
	if agg.CalendarsChecked == 0 && len(calendarIDs) > 0 {
		result.Warning = fmt.Sprintf("all %d calendars failed to answer; event list may be incomplete", len(calendarIDs))
	}

	for _, event := range agg.Events {
		result.Events = append(result.Events, eventView(event, loc))
	}

	result.Success = true
	return result
}

// GetEvent fetches a single event by ID. Without an explicit calendar the
// user's own calendars are searched in selection order.
func (e *Engine) GetEvent(ctx context.Context, req GetRequest) GetResult {
	result := GetResult{Email: req.Email}
	fail := func(format string, args ...interface{}) GetResult {
		result.Success = false
		result.Error = fmt.Sprintf(format, args...)
		return result
	}

	zoneName, loc, err := e.displayZone(req.DisplayTimezone)
	if err != nil {
		return fail("invalid display timezone %q", req.DisplayTimezone)
	}
	result.DisplayTimezone = zoneName

	if req.EventID == "" {
		return fail("event id is required")
	}

	if _, err := e.resolver.Resolve(req.Email); err != nil {
		return fail("calendar not connected for %s", req.Email)
	}

	transport, err := e.transports(ctx, req.Email)
	if err != nil {
		return fail("calendar access unavailable for %s: %v", req.Email, err)
	}

	calendarIDs := []string{req.CalendarID}
	if req.CalendarID == "" {
		calendarIDs, err = e.resolver.SelfCalendars(ctx, req.Email, transport)
		if err != nil {
			return fail("cannot determine calendars for %s: %v", req.Email, err)
		}
	}

	for _, calendarID := range calendarIDs {
		event, err := transport.GetEvent(ctx, calendarID, req.EventID)
		if err != nil {
			continue
		}
		view := eventView(*event, loc)
		result.Event = &view
		result.Success = true
		return result
	}
	return fail("event %q not found on %s's calendars", req.EventID, req.Email)
}

// eventView renders an event in the display timezone, keeping the UTC
// instants for reference.
func eventView(event calendar.Event, loc *time.Location) EventView {
	view := EventView{
		ID:         event.ID,
		CalendarID: event.CalendarID,
		Summary:    event.Summary,
		AllDay:     event.AllDay,
		Location:   event.Location,
		MeetLink:   event.MeetLink,
	}
	if event.AllDay {
		// All-day events are dates, not instants; no conversion.
		view.Start = event.Start
		view.End = event.End
		return view
	}
	if s, err := timezone.Parse(event.Start, time.UTC); err == nil {
		view.Start = s.In(loc).Format(time.RFC3339)
		view.StartUTC = s.UTC().Format(time.RFC3339)
	} else {
		view.Start = event.Start
	}
	if t, err := timezone.Parse(event.End, time.UTC); err == nil {
		view.End = t.In(loc).Format(time.RFC3339)
		view.EndUTC = t.UTC().Format(time.RFC3339)
	} else {
		view.End = event.End
	}
	return view
}
