package entities

import "time"

// WarnRecord is one recorded infraction
type WarnRecord struct {
	Seq         int64     `json:"seq"`
	SubjectID   int64     `json:"subjectId"`
	ModeratorID int64     `json:"moderatorId"`
	Reason      string    `json:"reason"`
	Automatic   bool      `json:"automatic,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WarnLedger keeps a subject's warns. NextSeq survives ClearAll so sequence
// ids are never reused.
type WarnLedger struct {
	SubjectID int64        `json:"subjectId"`
	Records   []WarnRecord `json:"records"`
	NextSeq   int64        `json:"nextSeq"`
}

// Append records a warn and returns the new total
func (l *WarnLedger) Append(moderatorID int64, reason string, automatic bool, now time.Time) WarnRecord {
	l.NextSeq++
	rec := WarnRecord{
		Seq:         l.NextSeq,
		SubjectID:   l.SubjectID,
		ModeratorID: moderatorID,
		Reason:      reason,
		Automatic:   automatic,
		CreatedAt:   now,
	}
	l.Records = append(l.Records, rec)
	return rec
}

// Count returns the number of active warns
func (l *WarnLedger) Count() int {
	if l == nil {
		return 0
	}
	return len(l.Records)
}

// ClearAll drops every record and returns how many were removed
func (l *WarnLedger) ClearAll() int {
	n := len(l.Records)
	l.Records = nil
	return n
}

func (l *WarnLedger) Clone() *WarnLedger {
	if l == nil {
		return nil
	}
	c := *l
	c.Records = append([]WarnRecord(nil), l.Records...)
	return &c
}

// SanctionKind is the automatic action attached to a warn count
type SanctionKind string

const (
	SanctionNone    SanctionKind = "none"
	SanctionTimeout SanctionKind = "timeout"
	SanctionKick    SanctionKind = "kick"
)

// EscalationPolicy holds the warn thresholds
type EscalationPolicy struct {
	TimeoutThreshold int
	KickThreshold    int
	TimeoutDuration  time.Duration
}

// DefaultEscalationPolicy is timeout at 3 warns, kick at 5
func DefaultEscalationPolicy() EscalationPolicy {
	return EscalationPolicy{
		TimeoutThreshold: 3,
		KickThreshold:    5,
		TimeoutDuration:  time.Hour,
	}
}

// SanctionFor maps a warn total to its automatic action. Every count at or
// past a threshold fires again.
func (p EscalationPolicy) SanctionFor(count int) SanctionKind {
	switch {
	case p.KickThreshold > 0 && count >= p.KickThreshold:
		return SanctionKick
	case p.TimeoutThreshold > 0 && count >= p.TimeoutThreshold:
		return SanctionTimeout
	default:
		return SanctionNone
	}
}
