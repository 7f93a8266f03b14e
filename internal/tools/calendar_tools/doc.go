// Package calendar_tools provides MCP tools for calendar availability and
// event management.
//
// The availability tools go through the availability engine, which resolves
// the account email to a user profile, applies working hours, aggregates
// busy time across the user's connected calendars and synthesizes free
// slots. Results are structured JSON with an explicit success flag, so
// domain failures (unknown account, bad date, degraded aggregation) come
// back as inspectable results rather than protocol errors.
package calendar_tools
