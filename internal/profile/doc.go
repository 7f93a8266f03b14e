// Package profile persists per-user scheduling configuration: working
// hours, timezone, name fields, owned calendar emails, and calendar
// selections.
//
// Storage is deliberately simple: one JSON file per user per record kind
// under a single data directory. Reads merge persisted partial records
// over defaults, so a profile lookup always yields a complete record
// (all seven weekdays, a valid timezone) even for users that have never
// been written.
package profile
