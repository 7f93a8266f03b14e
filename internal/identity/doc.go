// Package identity resolves calendar account emails to internal user IDs
// and decides which calendars stand in for a user's own schedule. The
// email a caller hands to the scheduling tools is never trusted as a
// calendar ID directly; it is resolved through the persisted email
// mappings first.
package identity
