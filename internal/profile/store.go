package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/averyhq/avery/internal/logging"
)

// Sentinel errors returned by the store.
var (
	// ErrInvalidTimezone indicates a zone name that is not in the IANA database.
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrInvalidWorkingHours indicates a malformed working-hours record.
	ErrInvalidWorkingHours = errors.New("invalid working hours")
	// ErrEmailNotOwned indicates an email that is not in the user's mapping.
	ErrEmailNotOwned = errors.New("email not owned by user")
)

// Record kinds, one JSON file per user per kind.
const (
	kindProfile   = "profile"
	kindMapping   = "email_mapping"
	kindSelection = "calendar_selection"
)

var userFilePattern = regexp.MustCompile(`^user_(.+)_(profile|email_mapping|calendar_selection)\.json$`)

// Store persists user scheduling records as one JSON file per user per
// record kind under a single data directory. All reads merge persisted
// partial records over defaults, so lookups never fail on missing files.
type Store struct {
	dir    string
	logger *slog.Logger

	mu sync.Mutex
}

// NewStore creates the data directory if needed and returns a store over it.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the store's data directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(userID, kind string) string {
	return filepath.Join(s.dir, fmt.Sprintf("user_%s_%s.json", userID, kind))
}

// load reads a record into v. A missing file is not an error; found
// reports whether the record existed.
func (s *Store) load(userID, kind string, v interface{}) (found bool, err error) {
	data, err := os.ReadFile(s.path(userID, kind))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s record: %w", kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s record: %w", kind, err)
	}
	return true, nil
}

func (s *Store) save(userID, kind string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", kind, err)
	}
	if err := os.WriteFile(s.path(userID, kind), data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s record: %w", kind, err)
	}
	return nil
}

// Profile returns the user's profile merged over defaults. It never fails:
// missing or unreadable records yield the default profile, and every
// returned profile has all seven weekdays and a non-empty timezone.
func (s *Store) Profile(userID string) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked(userID)
}

func (s *Store) profileLocked(userID string) Profile {
	var stored Profile
	found, err := s.load(userID, kindProfile, &stored)
	if err != nil {
		s.logger.Warn("unreadable profile record, using defaults",
			logging.UserID(userID), logging.Err(err))
	}
	merged := DefaultProfile(userID)
	if !found || err != nil {
		return merged
	}
	if stored.FirstName != "" {
		merged.FirstName = stored.FirstName
	}
	if stored.LastName != "" {
		merged.LastName = stored.LastName
	}
	if stored.DisplayName != "" {
		merged.DisplayName = stored.DisplayName
	}
	if stored.Email != "" {
		merged.Email = stored.Email
	}
	if stored.Timezone != "" {
		merged.Timezone = stored.Timezone
	}
	// Persisted days override defaults day by day, so a record that only
	// mentions tuesday still yields a complete week.
	for day, hours := range stored.WorkingHours {
		if _, ok := merged.WorkingHours[day]; ok {
			merged.WorkingHours[day] = hours
		}
	}
	return merged
}

// SetTimezone validates zone against the IANA database and persists it.
func (s *Store) SetTimezone(userID, zone string) error {
	if _, err := time.LoadLocation(zone); err != nil || zone == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, zone)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profileLocked(userID)
	p.Timezone = zone
	return s.save(userID, kindProfile, p)
}

// SetWorkingHours validates and persists a working-hours map. Days absent
// from hours keep their current values.
func (s *Store) SetWorkingHours(userID string, hours map[string]DayHours) error {
	for day, dh := range hours {
		if !validWeekday(day) {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidWorkingHours, day)
		}
		if _, err := time.Parse("15:04", dh.Start); err != nil {
			return fmt.Errorf("%w: bad start time %q for %s", ErrInvalidWorkingHours, dh.Start, day)
		}
		if _, err := time.Parse("15:04", dh.End); err != nil {
			return fmt.Errorf("%w: bad end time %q for %s", ErrInvalidWorkingHours, dh.End, day)
		}
		if dh.Start >= dh.End {
			return fmt.Errorf("%w: start %q not before end %q for %s", ErrInvalidWorkingHours, dh.Start, dh.End, day)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profileLocked(userID)
	for day, dh := range hours {
		p.WorkingHours[day] = dh
	}
	return s.save(userID, kindProfile, p)
}

// SetName persists the user's name fields. Empty arguments leave the
// corresponding stored values untouched.
func (s *Store) SetName(userID, first, last, display, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profileLocked(userID)
	if first != "" {
		p.FirstName = first
	}
	if last != "" {
		p.LastName = last
	}
	if display != "" {
		p.DisplayName = display
	}
	if email != "" {
		p.Email = email
	}
	return s.save(userID, kindProfile, p)
}

func validWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// EmailMapping returns the user's email mapping, defaulting to an empty
// mapping when none is persisted.
func (s *Store) EmailMapping(userID string) EmailMapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mappingLocked(userID)
}

func (s *Store) mappingLocked(userID string) EmailMapping {
	m := EmailMapping{UserID: userID, OwnedEmails: []string{}}
	if _, err := s.load(userID, kindMapping, &m); err != nil {
		s.logger.Warn("unreadable email mapping, using empty mapping",
			logging.UserID(userID), logging.Err(err))
		return EmailMapping{UserID: userID, OwnedEmails: []string{}}
	}
	if m.OwnedEmails == nil {
		m.OwnedEmails = []string{}
	}
	m.UserID = userID
	return m
}

// AddEmail records email as owned by the user. The first owned email
// becomes the primary. Adding an already-owned email is a no-op.
func (s *Store) AddEmail(userID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.mappingLocked(userID)
	if m.Owns(email) {
		return nil
	}
	m.OwnedEmails = append(m.OwnedEmails, email)
	if m.PrimaryEmail == "" {
		m.PrimaryEmail = email
	}
	return s.save(userID, kindMapping, m)
}

// RemoveEmail drops email from the mapping. Removing the primary promotes
// the first remaining email; removing the last email clears the primary.
func (s *Store) RemoveEmail(userID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.mappingLocked(userID)
	if !m.Owns(email) {
		return fmt.Errorf("%w: %s", ErrEmailNotOwned, logging.AnonymizeEmail(email))
	}
	remaining := m.OwnedEmails[:0]
	for _, e := range m.OwnedEmails {
		if e != email {
			remaining = append(remaining, e)
		}
	}
	m.OwnedEmails = remaining
	if m.PrimaryEmail == email {
		if len(m.OwnedEmails) > 0 {
			m.PrimaryEmail = m.OwnedEmails[0]
		} else {
			m.PrimaryEmail = ""
		}
	}
	return s.save(userID, kindMapping, m)
}

// SetPrimaryEmail marks an already-owned email as primary.
func (s *Store) SetPrimaryEmail(userID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.mappingLocked(userID)
	if !m.Owns(email) {
		return fmt.Errorf("%w: %s", ErrEmailNotOwned, logging.AnonymizeEmail(email))
	}
	m.PrimaryEmail = email
	return s.save(userID, kindMapping, m)
}

// OwnedEmails returns the user's owned emails in insertion order.
func (s *Store) OwnedEmails(userID string) []string {
	return s.EmailMapping(userID).OwnedEmails
}

// HasConnectedCalendars reports whether the user owns at least one email.
func (s *Store) HasConnectedCalendars(userID string) bool {
	return len(s.OwnedEmails(userID)) > 0
}

// SelectedCalendars returns the user's persisted calendar selection, or
// an empty list when none exists.
func (s *Store) SelectedCalendars(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := CalendarSelection{UserID: userID, Calendars: []string{}}
	if _, err := s.load(userID, kindSelection, &sel); err != nil {
		s.logger.Warn("unreadable calendar selection, using empty selection",
			logging.UserID(userID), logging.Err(err))
		return []string{}
	}
	if sel.Calendars == nil {
		return []string{}
	}
	return sel.Calendars
}

// SaveCalendarSelection persists the user's calendar selection.
func (s *Store) SaveCalendarSelection(userID string, calendars []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := CalendarSelection{UserID: userID, Calendars: calendars}
	return s.save(userID, kindSelection, sel)
}

// ListUsers returns the sorted IDs of every user with at least one
// persisted record.
func (s *Store) ListUsers() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}
	seen := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if m := userFilePattern.FindStringSubmatch(entry.Name()); m != nil {
			seen[m[1]] = true
		}
	}
	users := make([]string, 0, len(seen))
	for id := range seen {
		users = append(users, id)
	}
	sort.Strings(users)
	return users, nil
}

// Disconnect removes every persisted record for the user.
func (s *Store) Disconnect(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kind := range []string{kindProfile, kindMapping, kindSelection} {
		if err := os.Remove(s.path(userID, kind)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s record: %w", kind, err)
		}
	}
	return nil
}
