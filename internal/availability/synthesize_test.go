package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func busyAt(t *testing.T, start, end string) Interval {
	t.Helper()
	return Interval{Start: mustTime(t, start), End: mustTime(t, end)}
}

// Full default working day, no busy intervals: slots tile the whole window
// back-to-back and the last slot ends exactly at the window end.
func TestSynthesizeSlots_EmptyDayFillsWindow(t *testing.T) {
	windowStart := mustTime(t, "2026-03-02T09:00:00Z")
	windowEnd := mustTime(t, "2026-03-02T17:00:00Z")

	slots := SynthesizeSlots(windowStart, windowEnd, 30*time.Minute, nil, 16)

	require.Len(t, slots, 16)
	assert.Equal(t, windowStart, slots[0].Start)
	assert.Equal(t, windowEnd, slots[len(slots)-1].End)
	for i, s := range slots {
		assert.Equal(t, 30*time.Minute, s.End.Sub(s.Start), "slot %d duration", i)
		if i > 0 {
			assert.Equal(t, slots[i-1].End, s.Start, "slot %d should be back-to-back", i)
		}
	}
}

// One lunch meeting splits the day: three morning slots, four afternoon
// slots, nothing overlapping the busy hour.
func TestSynthesizeSlots_BusyHourSplitsDay(t *testing.T) {
	windowStart := mustTime(t, "2026-03-02T09:00:00Z")
	windowEnd := mustTime(t, "2026-03-02T17:00:00Z")
	busy := []Interval{busyAt(t, "2026-03-02T12:00:00Z", "2026-03-02T13:00:00Z")}

	slots := SynthesizeSlots(windowStart, windowEnd, time.Hour, busy, 10)

	require.Len(t, slots, 7)
	wantStarts := []string{
		"2026-03-02T09:00:00Z", "2026-03-02T10:00:00Z", "2026-03-02T11:00:00Z",
		"2026-03-02T13:00:00Z", "2026-03-02T14:00:00Z", "2026-03-02T15:00:00Z",
		"2026-03-02T16:00:00Z",
	}
	for i, want := range wantStarts {
		assert.Equal(t, mustTime(t, want), slots[i].Start, "slot %d start", i)
	}
	for _, s := range slots {
		assert.False(t, s.Overlaps(busy[0]), "slot %v overlaps busy hour", s)
	}
}

func TestSynthesizeSlots_MaxResults(t *testing.T) {
	windowStart := mustTime(t, "2026-03-02T09:00:00Z")
	windowEnd := mustTime(t, "2026-03-02T17:00:00Z")

	slots := SynthesizeSlots(windowStart, windowEnd, 30*time.Minute, nil, 3)
	assert.Len(t, slots, 3)

	// max <= 0 means unlimited.
	slots = SynthesizeSlots(windowStart, windowEnd, 30*time.Minute, nil, 0)
	assert.Len(t, slots, 16)
}

func TestSynthesizeSlots_WindowExactlyOneDuration(t *testing.T) {
	windowStart := mustTime(t, "2026-03-02T09:00:00Z")
	windowEnd := mustTime(t, "2026-03-02T09:30:00Z")

	slots := SynthesizeSlots(windowStart, windowEnd, 30*time.Minute, nil, 10)

	require.Len(t, slots, 1)
	assert.Equal(t, windowStart, slots[0].Start)
	assert.Equal(t, windowEnd, slots[0].End)
}

func TestSynthesizeSlots_WindowNarrowerThanDuration(t *testing.T) {
	windowStart := mustTime(t, "2026-03-02T09:00:00Z")
	windowEnd := mustTime(t, "2026-03-02T09:29:00Z")

	slots := SynthesizeSlots(windowStart, windowEnd, 30*time.Minute, nil, 10)
	assert.Empty(t, slots)
}

// Overlapping and contained busy intervals must not move the cursor
// backward; no merge pass is needed.
func TestSynthesizeSlots_OverlappingBusyIntervals(t *testing.T) {
	windowStart := mustTime(t, "2026-03-02T09:00:00Z")
	windowEnd := mustTime(t, "2026-03-02T17:00:00Z")
	busy := []Interval{
		busyAt(t, "2026-03-02T10:00:00Z", "2026-03-02T12:00:00Z"),
		busyAt(t, "2026-03-02T10:30:00Z", "2026-03-02T11:00:00Z"), // contained
		busyAt(t, "2026-03-02T11:30:00Z", "2026-03-02T12:30:00Z"), // overlapping
	}

	slots := SynthesizeSlots(windowStart, windowEnd, time.Hour, busy, 0)

	require.NotEmpty(t, slots)
	assert.Equal(t, mustTime(t, "2026-03-02T09:00:00Z"), slots[0].Start)
	// Next free time is after the overlapping cluster ends at 12:30.
	assert.Equal(t, mustTime(t, "2026-03-02T12:30:00Z"), slots[1].Start)
	for _, s := range slots {
		for _, b := range busy {
			assert.False(t, s.Overlaps(b), "slot %v overlaps busy %v", s, b)
		}
	}
}

func TestSynthesizeSlots_BusyCoversWholeWindow(t *testing.T) {
	windowStart := mustTime(t, "2026-03-02T09:00:00Z")
	windowEnd := mustTime(t, "2026-03-02T17:00:00Z")
	busy := []Interval{busyAt(t, "2026-03-02T08:00:00Z", "2026-03-02T18:00:00Z")}

	slots := SynthesizeSlots(windowStart, windowEnd, 30*time.Minute, busy, 10)
	assert.Empty(t, slots)
}

func TestSynthesizeSlots_BusyOutsideWindow(t *testing.T) {
	windowStart := mustTime(t, "2026-03-02T09:00:00Z")
	windowEnd := mustTime(t, "2026-03-02T11:00:00Z")
	busy := []Interval{
		busyAt(t, "2026-03-02T06:00:00Z", "2026-03-02T07:00:00Z"),
		busyAt(t, "2026-03-02T18:00:00Z", "2026-03-02T19:00:00Z"),
	}

	slots := SynthesizeSlots(windowStart, windowEnd, time.Hour, busy, 0)

	require.Len(t, slots, 2)
	assert.Equal(t, windowStart, slots[0].Start)
	assert.Equal(t, windowEnd, slots[1].End)
}

func TestSynthesizeSlots_DegenerateInputs(t *testing.T) {
	start := mustTime(t, "2026-03-02T09:00:00Z")

	assert.Empty(t, SynthesizeSlots(start, start, 30*time.Minute, nil, 10), "empty window")
	assert.Empty(t, SynthesizeSlots(start.Add(time.Hour), start, 30*time.Minute, nil, 10), "inverted window")
	assert.Empty(t, SynthesizeSlots(start, start.Add(time.Hour), 0, nil, 10), "zero duration")
}

// Identical inputs always yield identical output.
func TestSynthesizeSlots_Deterministic(t *testing.T) {
	windowStart := mustTime(t, "2026-03-02T09:00:00Z")
	windowEnd := mustTime(t, "2026-03-02T17:00:00Z")
	busy := []Interval{
		busyAt(t, "2026-03-02T09:45:00Z", "2026-03-02T10:15:00Z"),
		busyAt(t, "2026-03-02T14:00:00Z", "2026-03-02T15:30:00Z"),
	}

	first := SynthesizeSlots(windowStart, windowEnd, 30*time.Minute, busy, 0)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, SynthesizeSlots(windowStart, windowEnd, 30*time.Minute, busy, 0))
	}

	// Ordering and mutual non-overlap.
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i].Start.After(first[i-1].Start), "slots must be strictly ascending")
		assert.False(t, first[i].Start.Before(first[i-1].End), "slots must not overlap each other")
	}
}
