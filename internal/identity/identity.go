package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/averyhq/avery/internal/calendar"
	"github.com/averyhq/avery/internal/logging"
	"github.com/averyhq/avery/internal/profile"
)

// Sentinel errors returned by the resolver.
var (
	// ErrIdentityNotFound indicates an email no known user owns.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrNoUsableCalendar indicates an account with no selected calendars
	// and no usable fallback.
	ErrNoUsableCalendar = errors.New("no usable calendar")
)

// Resolver maps calendar account emails to internal user IDs and resolves
// which calendars represent a user's own schedule.
type Resolver struct {
	store  *profile.Store
	logger *slog.Logger
}

// NewResolver creates a resolver over the given profile store.
func NewResolver(store *profile.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve returns the user ID that owns email. The scan is over persisted
// email mappings; an unknown email yields ErrIdentityNotFound.
func (r *Resolver) Resolve(email string) (string, error) {
	users, err := r.store.ListUsers()
	if err != nil {
		return "", fmt.Errorf("failed to scan user records: %w", err)
	}
	for _, userID := range users {
		if r.store.EmailMapping(userID).Owns(email) {
			return userID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrIdentityNotFound, logging.AnonymizeEmail(email))
}

// SelfCalendars returns the calendar IDs representing email's own schedule:
// the user's selected calendars filtered to the account, falling back to
// the account's primary calendar, then to its first owner-role calendar.
// The transport is only consulted when the fallback is needed.
func (r *Resolver) SelfCalendars(ctx context.Context, email string, transport calendar.Transport) ([]string, error) {
	userID, err := r.Resolve(email)
	if err != nil {
		return nil, err
	}

	var selfCals []string
	for _, calID := range r.store.SelectedCalendars(userID) {
		// A calendar belongs to the account when its ID is the email
		// itself or an email-prefixed resource ID.
		if calID == email || strings.HasPrefix(calID, email) {
			selfCals = append(selfCals, calID)
		}
	}
	if len(selfCals) > 0 {
		return selfCals, nil
	}

	r.logger.Debug("no selected calendars for account, falling back to calendar list",
		logging.UserID(userID), logging.UserHash(email))

	infos, err := transport.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars for fallback: %w", err)
	}
	for _, info := range infos {
		if info.Primary {
			return []string{info.ID}, nil
		}
	}
	for _, info := range infos {
		if info.AccessRole == "owner" {
			return []string{info.ID}, nil
		}
	}
	return nil, fmt.Errorf("%w for account %s", ErrNoUsableCalendar, logging.AnonymizeEmail(email))
}
