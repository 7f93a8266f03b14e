package availability

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/averyhq/avery/internal/calendar"
	"github.com/averyhq/avery/internal/logging"
	"github.com/averyhq/avery/internal/timezone"
)

const defaultCallTimeout = 15 * time.Second

// Aggregator fans one event query out per calendar and merges the results
// into a single time-ordered view. A failing calendar degrades the result
// instead of failing it: the failure is logged and the calendar skipped.
type Aggregator struct {
	logger      *slog.Logger
	callTimeout time.Duration

	// IncludeAllDay controls whether date-only (all-day) events count as
	// busy time. Off by default: an all-day "Company Holiday" marker
	// should not block every slot of the day.
	IncludeAllDay bool
}

// NewAggregator creates an aggregator with the default per-calendar call
// timeout.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger, callTimeout: defaultCallTimeout}
}

// AggregateResult carries the merged busy intervals plus how many
// calendars actually answered.
type AggregateResult struct {
	Busy             []Interval
	Events           []calendar.Event
	CalendarsChecked int
	FailedCalendars  []string
}

// Aggregate queries every calendar for events between start and end (UTC)
// and returns the merged busy intervals sorted ascending by start.
func (a *Aggregator) Aggregate(ctx context.Context, transport calendar.Transport, calendarIDs []string, start, end time.Time) AggregateResult {
	result := a.collect(ctx, transport, calendarIDs, start, end, 0)

	for _, event := range result.Events {
		if iv, ok := a.toBusyInterval(event); ok {
			result.Busy = append(result.Busy, iv)
		}
	}
	sort.Slice(result.Busy, func(i, j int) bool {
		return result.Busy[i].Start.Before(result.Busy[j].Start)
	})
	return result
}

// CollectEvents queries every calendar and returns the merged events
// sorted ascending by start, without busy-interval reduction.
func (a *Aggregator) CollectEvents(ctx context.Context, transport calendar.Transport, calendarIDs []string, start, end time.Time, maxResults int) AggregateResult {
	result := a.collect(ctx, transport, calendarIDs, start, end, int64(maxResults))
	if maxResults > 0 && len(result.Events) > maxResults {
		result.Events = result.Events[:maxResults]
	}
	return result
}

func (a *Aggregator) collect(ctx context.Context, transport calendar.Transport, calendarIDs []string, start, end time.Time, perCalendarMax int64) AggregateResult {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result AggregateResult
	)

	for _, calendarID := range calendarIDs {
		wg.Add(1)
		go func(calendarID string) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
			defer cancel()

			events, err := transport.ListEvents(callCtx, calendarID, start, end, perCalendarMax)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.logger.Warn("calendar query failed, skipping calendar",
					logging.Operation("availability.aggregate"),
					logging.Calendar(calendarID),
					logging.Err(err))
				result.FailedCalendars = append(result.FailedCalendars, calendarID)
				return
			}
			result.CalendarsChecked++
			result.Events = append(result.Events, events...)
		}(calendarID)
	}
	wg.Wait()

	// Calendars render wire timestamps in their own zones, so comparing the
	// raw strings mis-orders a multi-calendar merge. Sort on the parsed
	// instants; unparseable starts sort first.
	sort.SliceStable(result.Events, func(i, j int) bool {
		return eventStart(result.Events[i]).Before(eventStart(result.Events[j]))
	})
	return result
}

func eventStart(event calendar.Event) time.Time {
	t, err := timezone.Parse(event.Start, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// toBusyInterval converts an event to a busy interval. Cancelled events
// never block time; all-day events only do when IncludeAllDay is set.
func (a *Aggregator) toBusyInterval(event calendar.Event) (Interval, bool) {
	if event.Status == "cancelled" {
		return Interval{}, false
	}
	if event.AllDay && !a.IncludeAllDay {
		return Interval{}, false
	}
	if event.Start == "" || event.End == "" {
		return Interval{}, false
	}

	start, err := timezone.Parse(event.Start, time.UTC)
	if err != nil {
		a.logger.Warn("event with unparseable start, skipping",
			logging.Calendar(event.CalendarID), logging.Err(err))
		return Interval{}, false
	}
	end, err := timezone.Parse(event.End, time.UTC)
	if err != nil {
		a.logger.Warn("event with unparseable end, skipping",
			logging.Calendar(event.CalendarID), logging.Err(err))
		return Interval{}, false
	}

	return Interval{
		Start:      start.UTC(),
		End:        end.UTC(),
		CalendarID: event.CalendarID,
		Summary:    event.Summary,
	}, true
}
