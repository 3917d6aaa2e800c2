package utils

import (
	"testing"
	"time"

	"riobot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeoutDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		expected  time.Duration
		label     string
		expectErr bool
	}{
		{name: "seconds", input: "10s", expected: 10 * time.Second, label: "10 secondes"},
		{name: "single minute", input: "1m", expected: time.Minute, label: "1 minute"},
		{name: "hours", input: "2h", expected: 2 * time.Hour, label: "2 heures"},
		{name: "days", input: "1d", expected: 24 * time.Hour, label: "1 jour"},
		{name: "maximum", input: "28d", expected: MaxTimeout, label: "28 jours"},
		{name: "over maximum", input: "29d", expectErr: true},
		{name: "over maximum in hours", input: "673h", expectErr: true},
		{name: "zero", input: "0m", expectErr: true},
		{name: "missing unit", input: "10", expectErr: true},
		{name: "unknown unit", input: "3w", expectErr: true},
		{name: "combined units", input: "1h30m", expectErr: true},
		{name: "negative", input: "-5m", expectErr: true},
		{name: "empty", input: "", expectErr: true},
		{name: "overflow", input: "99999999999999999999s", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, label, err := ParseTimeoutDuration(tt.input)
			if tt.expectErr {
				require.ErrorIs(t, err, entities.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestFormatRemaining(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       time.Duration
		expected string
	}{
		{0, "1s"},
		{42 * time.Second, "42s"},
		{90 * time.Second, "1min 30s"},
		{2*time.Hour + 5*time.Minute, "2h 05min"},
		{23*time.Hour + 59*time.Minute + 59*time.Second, "23h 59min"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatRemaining(tt.in))
	}
}
