package timezone_test

import (
	"errors"
	"testing"
	"time"

	"go-hiring-backend/pkg/timezone"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, timezone.Validate("America/New_York"))
	assert.NoError(t, timezone.Validate("Asia/Tokyo"))
	assert.NoError(t, timezone.Validate("UTC"))

	err := timezone.Validate("Mars/Olympus_Mons")
	assert.Error(t, err)
	var zoneErr *timezone.InvalidZoneError
	assert.True(t, errors.As(err, &zoneErr))
	assert.Equal(t, "Mars/Olympus_Mons", zoneErr.Zone)

	assert.Error(t, timezone.Validate(""))
}

func TestOffsetMinutesDST(t *testing.T) {
	// New York is UTC-5 in winter, UTC-4 in summer. The offset must be
	// computed at the instant, not generically for the zone.
	winter := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	summer := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	off, err := timezone.OffsetMinutes(winter, "America/New_York")
	assert.NoError(t, err)
	assert.Equal(t, -300, off)

	off, err = timezone.OffsetMinutes(summer, "America/New_York")
	assert.NoError(t, err)
	assert.Equal(t, -240, off)

	// Tokyo has no DST
	off, err = timezone.OffsetMinutes(winter, "Asia/Tokyo")
	assert.NoError(t, err)
	assert.Equal(t, 540, off)
}

func TestHoursBetween(t *testing.T) {
	summer := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

	diff, err := timezone.HoursBetween(summer, "Asia/Tokyo", "America/New_York")
	assert.NoError(t, err)
	assert.Equal(t, 13.0, diff) // +9 vs -4 in July

	diff, err = timezone.HoursBetween(summer, "America/New_York", "Asia/Tokyo")
	assert.NoError(t, err)
	assert.Equal(t, -13.0, diff)

	// Half-hour zone
	diff, err = timezone.HoursBetween(summer, "Asia/Kolkata", "UTC")
	assert.NoError(t, err)
	assert.Equal(t, 5.5, diff)
}

func TestFormatInZone(t *testing.T) {
	instant := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	got, err := timezone.FormatInZone(instant, "America/New_York", timezone.DateOnly)
	assert.NoError(t, err)
	assert.Equal(t, "Jun 2, 2025", got)

	got, err = timezone.FormatInZone(instant, "America/New_York", timezone.DateTime)
	assert.NoError(t, err)
	assert.Equal(t, "Jun 2, 2025 at 5:00 AM", got)

	got, err = timezone.FormatInZone(instant, "America/New_York", timezone.DateTimeZone)
	assert.NoError(t, err)
	assert.Equal(t, "Jun 2, 2025 at 5:00 AM EDT", got)

	_, err = timezone.FormatInZone(instant, "Not/AZone", timezone.DateTime)
	assert.Error(t, err)
}

func TestFormatOffsetConsistency(t *testing.T) {
	// The same absolute instant rendered in two zones must differ by exactly
	// the zones' offset difference at that instant.
	instant := time.Date(2025, 3, 9, 6, 30, 0, 0, time.UTC) // inside the US spring-forward window

	offNY, err := timezone.OffsetMinutes(instant, "America/New_York")
	assert.NoError(t, err)
	offLA, err := timezone.OffsetMinutes(instant, "America/Los_Angeles")
	assert.NoError(t, err)

	locNY, _ := time.LoadLocation("America/New_York")
	locLA, _ := time.LoadLocation("America/Los_Angeles")

	wallDiff := instant.In(locNY).Sub(instant.In(locLA).Add(time.Duration(offNY-offLA) * time.Minute))
	assert.Equal(t, time.Duration(0), wallDiff)
}

func TestDualDisplay(t *testing.T) {
	instant := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	d, err := timezone.DualDisplay(instant, 45, "America/New_York", "Africa/Lagos")
	assert.NoError(t, err)
	assert.Equal(t, "Jun 2, 2025 at 5:00 AM", d.CompanyTime)
	assert.Equal(t, "EDT", d.CompanyAbbrev)
	assert.Equal(t, "Jun 2, 2025 at 10:00 AM", d.GraduateTime)
	assert.Equal(t, "WAT", d.GraduateAbbrev)
	assert.Equal(t, "45 minutes", d.Duration)

	_, err = timezone.DualDisplay(instant, 45, "America/New_York", "bogus")
	assert.Error(t, err)
}

func TestDurationLabel(t *testing.T) {
	assert.Equal(t, "15 minutes", timezone.DurationLabel(15))
	assert.Equal(t, "45 minutes", timezone.DurationLabel(45))
	assert.Equal(t, "1 hour", timezone.DurationLabel(60))
	assert.Equal(t, "1 hour 30 minutes", timezone.DurationLabel(90))
	assert.Equal(t, "2 hours", timezone.DurationLabel(120))
}
