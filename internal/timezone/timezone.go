package timezone

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/averyhq/avery/internal/logging"
)

// Sentinel errors returned by the conversion functions.
var (
	// ErrUnknownZone indicates a zone name that is not in the IANA database.
	ErrUnknownZone = errors.New("unknown timezone")
	// ErrMalformedTimestamp indicates input that cannot be parsed as a
	// date or datetime in any accepted layout.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// Layouts accepted for offset-less input, tried in order. Google wire
// formats use the T separator; humans and some upstreams use a space.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Layouts accepted for offset-qualified input.
var qualifiedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
}

// IsQualified reports whether value already carries timezone information:
// a trailing Z, an explicit + offset, or a negative offset (more '-'
// characters than the two date separators).
func IsQualified(value string) bool {
	if strings.HasSuffix(value, "Z") {
		return true
	}
	if strings.Contains(value, "+") {
		return true
	}
	return strings.Count(value, "-") > 2
}

// LoadZone resolves an IANA zone name, wrapping failures in ErrUnknownZone.
func LoadZone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}
	return loc, nil
}

// Parse interprets value as a timestamp. Offset-qualified input is parsed
// as-is; offset-less input is interpreted in loc. Date-only input becomes
// midnight in loc.
func Parse(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrMalformedTimestamp)
	}
	if IsQualified(value) {
		for _, layout := range qualifiedLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
}

// ToZone converts value into the target zone and renders it as ISO-8601
// with that zone's offset. Offset-less input is assumed to be UTC.
func ToZone(value, targetZone string) (string, error) {
	loc, err := LoadZone(targetZone)
	if err != nil {
		return "", err
	}
	t, err := Parse(value, time.UTC)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(time.RFC3339), nil
}

// FromZone converts value into UTC, rendered with a Z suffix. An explicit
// offset on the input wins; offset-less input is localized into sourceZone
// first. The source zone is validated either way.
func FromZone(value, sourceZone string) (string, error) {
	loc, err := LoadZone(sourceZone)
	if err != nil {
		return "", err
	}
	t, err := Parse(value, loc)
	if err != nil {
		return "", err
	}
	return t.UTC().Format("2006-01-02T15:04:05Z"), nil
}

// Normalize returns value in a form safe to hand to the calendar transport:
// offset-qualified input passes through unchanged, offset-less input is
// interpreted as UTC and Z-qualified. Unparseable input is an error.
func Normalize(value string) (string, error) {
	if IsQualified(value) {
		return value, nil
	}
	t, err := Parse(value, time.UTC)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02T15:04:05Z"), nil
}

// NormalizeForWire is the lenient boundary variant of Normalize, meant for
// code that must emit a wire timestamp and has nowhere to report an error:
// unparseable input falls back to the current instant and is logged as a
// data-quality signal. Nothing inside the engine calls it. The aggregation
// path deliberately uses the strict Parse and skips a malformed event with
// a warning instead, since substituting "now" there would fabricate busy
// time. It is exported for transport-facing callers that cannot skip.
func NormalizeForWire(value string, logger *slog.Logger) string {
	normalized, err := Normalize(value)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("unparseable timestamp on wire, substituting current time",
			logging.Err(err))
		return time.Now().UTC().Format("2006-01-02T15:04:05Z")
	}
	return normalized
}
