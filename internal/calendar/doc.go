// Package calendar provides Google Calendar access for connected accounts.
//
// The Transport interface is the seam between the scheduling engine and
// the Google Calendar API: the engine only ever sees Transport, Event and
// CalendarInfo, never google.golang.org/api types. Client is the real
// implementation, one instance per connected account email.
package calendar
