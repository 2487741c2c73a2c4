// Package timezone renders stored absolute instants for display in a party's
// own frame of reference. Persisted timestamps are always zone-agnostic; the
// IANA zone names carried on an interview are presentation metadata only and
// are never used to reinterpret a stored instant.
package timezone

import (
	"fmt"
	"time"
)

// Granularity controls how much of an instant is rendered.
type Granularity int

const (
	// DateOnly renders "Jan 2, 2006".
	DateOnly Granularity = iota
	// DateTime renders "Jan 2, 2006 at 3:04 PM".
	DateTime
	// DateTimeZone renders "Jan 2, 2006 at 3:04 PM MST".
	DateTimeZone
)

// InvalidZoneError reports an identifier the runtime's tz database does not know.
type InvalidZoneError struct {
	Zone string
}

func (e *InvalidZoneError) Error() string {
	return fmt.Sprintf("unknown timezone %q", e.Zone)
}

// Validate checks that name is a recognized IANA timezone identifier.
func Validate(name string) error {
	_, err := loadZone(name)
	return err
}

// FormatInZone renders the instant t in the given zone at the given granularity.
func FormatInZone(t time.Time, zone string, g Granularity) (string, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return "", err
	}
	local := t.In(loc)
	switch g {
	case DateOnly:
		return local.Format("Jan 2, 2006"), nil
	case DateTimeZone:
		return local.Format("Jan 2, 2006 at 3:04 PM MST"), nil
	default:
		return local.Format("Jan 2, 2006 at 3:04 PM"), nil
	}
}

// Abbreviation returns the zone's abbreviation (e.g. "EST", "WAT") at the
// instant t. The abbreviation depends on the instant because of DST.
func Abbreviation(t time.Time, zone string) (string, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return "", err
	}
	abbrev, _ := t.In(loc).Zone()
	return abbrev, nil
}

// OffsetMinutes returns the signed offset from UTC, in minutes, of the given
// zone at the instant t. The offset must be computed at the specific instant;
// a zone's generic offset goes stale across daylight-saving transitions.
func OffsetMinutes(t time.Time, zone string) (int, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return 0, err
	}
	_, offsetSeconds := t.In(loc).Zone()
	return offsetSeconds / 60, nil
}

// HoursBetween returns the difference in hours between zoneA and zoneB at the
// instant t. Positive means zoneA is ahead of zoneB.
func HoursBetween(t time.Time, zoneA, zoneB string) (float64, error) {
	offA, err := OffsetMinutes(t, zoneA)
	if err != nil {
		return 0, err
	}
	offB, err := OffsetMinutes(t, zoneB)
	if err != nil {
		return 0, err
	}
	return float64(offA-offB) / 60.0, nil
}

// SlotDisplay is a single absolute instant rendered once for each party.
type SlotDisplay struct {
	CompanyTime    string `json:"company_time"`
	CompanyZone    string `json:"company_zone"`
	CompanyAbbrev  string `json:"company_abbrev"`
	GraduateTime   string `json:"graduate_time"`
	GraduateZone   string `json:"graduate_zone"`
	GraduateAbbrev string `json:"graduate_abbrev"`
	Duration       string `json:"duration"`
}

// DualDisplay renders the same instant in the hiring party's and the
// candidate's zones, with each zone's abbreviation and a human duration label.
func DualDisplay(t time.Time, durationMinutes int, companyZone, graduateZone string) (*SlotDisplay, error) {
	companyTime, err := FormatInZone(t, companyZone, DateTime)
	if err != nil {
		return nil, err
	}
	companyAbbrev, err := Abbreviation(t, companyZone)
	if err != nil {
		return nil, err
	}
	graduateTime, err := FormatInZone(t, graduateZone, DateTime)
	if err != nil {
		return nil, err
	}
	graduateAbbrev, err := Abbreviation(t, graduateZone)
	if err != nil {
		return nil, err
	}

	return &SlotDisplay{
		CompanyTime:    companyTime,
		CompanyZone:    companyZone,
		CompanyAbbrev:  companyAbbrev,
		GraduateTime:   graduateTime,
		GraduateZone:   graduateZone,
		GraduateAbbrev: graduateAbbrev,
		Duration:       DurationLabel(durationMinutes),
	}, nil
}

// DurationLabel renders a minute count for humans: "45 minutes", "1 hour",
// "1 hour 30 minutes", "2 hours".
func DurationLabel(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	rest := minutes % 60
	label := fmt.Sprintf("%d hour", hours)
	if hours > 1 {
		label += "s"
	}
	if rest > 0 {
		label += fmt.Sprintf(" %d minutes", rest)
	}
	return label
}

func loadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, &InvalidZoneError{Zone: name}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &InvalidZoneError{Zone: name}
	}
	return loc, nil
}
