// Package availability is the scheduling core: it turns "when can this
// person meet on this date" into concrete free slots.
//
// The pipeline is resolve, window, aggregate, synthesize. The identity
// resolver maps the account email to a user, the profile store supplies
// the working-hours window in the user's timezone, the aggregator fans out
// one query per calendar and merges busy intervals in UTC, and the
// synthesizer walks the window with a monotonic cursor emitting
// back-to-back candidate slots. Timezone conversion happens only at the
// edges; everything between is UTC.
package availability
