package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMention(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"<@123>", 123, true},
		{"<@!456>", 456, true},
		{"789", 789, true},
		{"@someone", 0, false},
		{"<@abc>", 0, false},
		{"-5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseMention(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMedal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "🥇", Medal(1))
	assert.Equal(t, "🥉", Medal(3))
	assert.Equal(t, "4.", Medal(4))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "salo…", Truncate("salon-vocal", 5))
	assert.Equal(t, "é", Truncate("éé", 1))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	t.Parallel()

	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:R>", FormatDiscordTimestamp(ts, "R"))
}
