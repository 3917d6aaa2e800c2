package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWarnLedger_SequenceSurvivesClear(t *testing.T) {
	t.Parallel()

	now := time.Now()
	l := &WarnLedger{SubjectID: 7}
	first := l.Append(1, "spam", false, now)
	second := l.Append(1, "insultes", false, now)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, 2, l.Count())

	assert.Equal(t, 2, l.ClearAll())
	assert.Equal(t, 0, l.Count())

	third := l.Append(1, "flood", true, now)
	assert.Equal(t, int64(3), third.Seq)
	assert.True(t, third.Automatic)
}

func TestEscalationPolicy_SanctionFor(t *testing.T) {
	t.Parallel()

	p := DefaultEscalationPolicy()
	tests := []struct {
		count int
		want  SanctionKind
	}{
		{0, SanctionNone},
		{1, SanctionNone},
		{2, SanctionNone},
		{3, SanctionTimeout},
		{4, SanctionTimeout},
		{5, SanctionKick},
		{8, SanctionKick},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.SanctionFor(tt.count), "count %d", tt.count)
	}
}
