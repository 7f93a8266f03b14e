package availability

import "time"

// SynthesizeSlots proposes meeting slots of exactly duration inside the
// window [windowStart, windowEnd), avoiding the given busy intervals.
//
// busy must be sorted ascending by start. The algorithm is a single
// monotonic cursor: slots are emitted back-to-back from the cursor until
// the next busy interval starts, then the cursor jumps to that interval's
// end. Because the cursor never moves backward, overlapping or duplicate
// busy intervals need no merge pass. All times are expected in one zone
// (the engine passes UTC); no conversion happens here.
//
// max <= 0 means no limit.
func SynthesizeSlots(windowStart, windowEnd time.Time, duration time.Duration, busy []Interval, max int) []Interval {
	if duration <= 0 || !windowStart.Before(windowEnd) {
		return nil
	}

	var slots []Interval
	full := func() bool { return max > 0 && len(slots) >= max }

	cursor := windowStart
	for _, b := range busy {
		gapEnd := b.Start
		if gapEnd.After(windowEnd) {
			gapEnd = windowEnd
		}
		for !full() && !cursor.Add(duration).After(gapEnd) {
			slots = append(slots, Interval{Start: cursor, End: cursor.Add(duration)})
			cursor = cursor.Add(duration)
		}
		if full() {
			return slots
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
		if !cursor.Before(windowEnd) {
			return slots
		}
	}

	for !full() && !cursor.Add(duration).After(windowEnd) {
		slots = append(slots, Interval{Start: cursor, End: cursor.Add(duration)})
		cursor = cursor.Add(duration)
	}
	return slots
}
