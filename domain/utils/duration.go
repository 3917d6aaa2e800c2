package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"riobot/domain/entities"
)

// MaxTimeout is the longest member timeout the platform accepts
const MaxTimeout = 28 * 24 * time.Hour

// ErrDurationTooLong rejects timeouts past MaxTimeout
var ErrDurationTooLong = fmt.Errorf("%w: la durée maximum est de 28 jours", entities.ErrInvalidArgument)

var durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

var durationUnits = map[string]struct {
	unit time.Duration
	name string
}{
	"s": {time.Second, "seconde"},
	"m": {time.Minute, "minute"},
	"h": {time.Hour, "heure"},
	"d": {24 * time.Hour, "jour"},
}

// ParseTimeoutDuration parses "10s", "5m", "2h" or "1d" into a duration and
// its French label. Durations are positive and capped at MaxTimeout.
func ParseTimeoutDuration(input string) (time.Duration, string, error) {
	m := durationPattern.FindStringSubmatch(input)
	if m == nil {
		return 0, "", fmt.Errorf("%w: format de durée invalide %q", entities.ErrInvalidArgument, input)
	}
	value, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || value <= 0 {
		return 0, "", fmt.Errorf("%w: durée %q", entities.ErrInvalidArgument, input)
	}

	u := durationUnits[m[2]]
	if value > int64(MaxTimeout/u.unit) {
		return 0, "", ErrDurationTooLong
	}
	return time.Duration(value) * u.unit, FormatCount(value, u.name), nil
}

// FormatCount renders "1 minute" or "3 minutes"
func FormatCount(n int64, noun string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// FormatRemaining renders a cooldown in the largest useful units, e.g. "2h 05min"
func FormatRemaining(d time.Duration) string {
	if d < time.Second {
		d = time.Second
	}
	d = d.Round(time.Second)
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh %02dmin", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dmin %02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
