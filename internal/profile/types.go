package profile

// Weekday keys used in working-hours maps, in calendar order.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DayHours describes the working window for a single weekday.
// Times are zone-less "HH:MM" strings interpreted in the profile's timezone.
type DayHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Profile is a user's scheduling configuration. Persisted records may be
// partial; Store.Profile always merges them over DefaultProfile so callers
// see a complete record.
type Profile struct {
	UserID       string              `json:"user_id"`
	FirstName    string              `json:"first_name,omitempty"`
	LastName     string              `json:"last_name,omitempty"`
	DisplayName  string              `json:"display_name,omitempty"`
	Email        string              `json:"email,omitempty"`
	Timezone     string              `json:"timezone"`
	WorkingHours map[string]DayHours `json:"working_hours"`
}

// Display returns the best human-readable name for the user: explicit
// display name, then first+last, then first, then email, then the user ID.
func (p Profile) Display() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.FirstName != "" && p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	if p.Email != "" {
		return p.Email
	}
	return p.UserID
}

// EmailMapping records which calendar account emails a user owns.
type EmailMapping struct {
	UserID       string   `json:"user_id"`
	PrimaryEmail string   `json:"primary_email"`
	OwnedEmails  []string `json:"owned_emails"`
}

// Owns reports whether email is one of the mapping's owned emails.
func (m EmailMapping) Owns(email string) bool {
	for _, e := range m.OwnedEmails {
		if e == email {
			return true
		}
	}
	return false
}

// CalendarSelection records which calendars a user has chosen to include
// in availability computations.
type CalendarSelection struct {
	UserID    string   `json:"user_id"`
	Calendars []string `json:"calendars"`
}

// DayAvailability is the result of a working-hours lookup for one date.
// Start and End are full datetimes in the profile's timezone.
type DayAvailability struct {
	Available bool   `json:"available"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
	Timezone  string `json:"timezone"`
	Reason    string `json:"reason,omitempty"`
}

// DefaultWorkingHours returns the fallback schedule: Monday through Friday
// 09:00-17:00 enabled, Saturday and Sunday disabled.
func DefaultWorkingHours() map[string]DayHours {
	hours := make(map[string]DayHours, len(Weekdays))
	for _, day := range Weekdays {
		switch day {
		case "saturday", "sunday":
			hours[day] = DayHours{Enabled: false, Start: "09:00", End: "17:00"}
		default:
			hours[day] = DayHours{Enabled: true, Start: "09:00", End: "17:00"}
		}
	}
	return hours
}

// DefaultProfile returns a complete profile with fallback values for userID.
func DefaultProfile(userID string) Profile {
	return Profile{
		UserID:       userID,
		Timezone:     "UTC",
		WorkingHours: DefaultWorkingHours(),
	}
}
