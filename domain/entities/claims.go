package entities

import (
	"fmt"
	"time"
)

// ClaimKind selects which single-winner registry a claim lives in
type ClaimKind string

const (
	ClaimKindWelcome ClaimKind = "welcome"
	ClaimKindDrop    ClaimKind = "drop"
)

// ClaimID identifies a contested reward. Welcome claims are keyed by the
// welcomed member, drops by the message carrying them.
type ClaimID struct {
	Kind ClaimKind
	ID   int64
}

func (c ClaimID) String() string {
	return fmt.Sprintf("%s:%d", c.Kind, c.ID)
}

// WelcomeClaim is the one-time reward attached to a member's welcome message
type WelcomeClaim struct {
	TargetUserID    int64     `json:"targetUserId"`
	GuildID         int64     `json:"guildId"`
	ChannelID       int64     `json:"channelId"`
	SourceMessageID int64     `json:"sourceMessageId"`
	Claimed         bool      `json:"claimed"`
	ClaimedBy       *int64    `json:"claimedBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (w *WelcomeClaim) Clone() *WelcomeClaim {
	if w == nil {
		return nil
	}
	c := *w
	if w.ClaimedBy != nil {
		id := *w.ClaimedBy
		c.ClaimedBy = &id
	}
	return &c
}

// DropStatus is the state of a currency drop
type DropStatus string

const (
	DropStatusOpen    DropStatus = "open"
	DropStatusClaimed DropStatus = "claimed"
	DropStatusExpired DropStatus = "expired"
)

// CurrencyDrop is a timed reward: the first claimant wins, otherwise it expires
type CurrencyDrop struct {
	MessageID int64      `json:"messageId"`
	ChannelID int64      `json:"channelId"`
	GuildID   int64      `json:"guildId"`
	Amount    int64      `json:"amount"`
	Status    DropStatus `json:"status"`
	ClaimedBy *int64     `json:"claimedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// IsOpenAt reports whether the drop still accepts claims at now
func (d *CurrencyDrop) IsOpenAt(now time.Time) bool {
	return d.Status == DropStatusOpen && now.Before(d.ExpiresAt)
}

func (d *CurrencyDrop) Clone() *CurrencyDrop {
	if d == nil {
		return nil
	}
	c := *d
	if d.ClaimedBy != nil {
		id := *d.ClaimedBy
		c.ClaimedBy = &id
	}
	return &c
}
