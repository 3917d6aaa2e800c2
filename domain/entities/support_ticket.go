package entities

import "time"

// TicketStatus is the lifecycle state of a support ticket.
// A deleted ticket has no record at all.
type TicketStatus string

const (
	TicketStatusOpen    TicketStatus = "open"
	TicketStatusClaimed TicketStatus = "claimed"
	TicketStatusClosing TicketStatus = "closing"
)

// TicketCategory is the subject selected when opening a ticket
type TicketCategory string

const (
	TicketCategorySupport     TicketCategory = "support"
	TicketCategoryReport      TicketCategory = "report"
	TicketCategoryPartnership TicketCategory = "partnership"
	TicketCategoryOther       TicketCategory = "other"
)

// TicketCategories lists the selectable categories in panel order
var TicketCategories = []TicketCategory{
	TicketCategorySupport,
	TicketCategoryReport,
	TicketCategoryPartnership,
	TicketCategoryOther,
}

// IsValid reports whether c is a known category
func (c TicketCategory) IsValid() bool {
	for _, known := range TicketCategories {
		if c == known {
			return true
		}
	}
	return false
}

// SupportTicket is a private support channel scoped to one requester
type SupportTicket struct {
	ChannelID      int64          `json:"channelId"`
	GuildID        int64          `json:"guildId"`
	RequesterID    int64          `json:"requesterId"`
	Category       TicketCategory `json:"category"`
	Status         TicketStatus   `json:"status"`
	ClaimedBy      *int64         `json:"claimedBy,omitempty"`
	CloseRequested *time.Time     `json:"closeRequestedAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// IsClosed reports whether the ticket no longer counts against its requester
func (t *SupportTicket) IsClosed() bool {
	return t.Status == TicketStatusClosing
}

// IsClaimed reports whether a staff member took the ticket
func (t *SupportTicket) IsClaimed() bool {
	return t.ClaimedBy != nil
}

func (t *SupportTicket) Clone() *SupportTicket {
	if t == nil {
		return nil
	}
	c := *t
	if t.ClaimedBy != nil {
		id := *t.ClaimedBy
		c.ClaimedBy = &id
	}
	if t.CloseRequested != nil {
		ts := *t.CloseRequested
		c.CloseRequested = &ts
	}
	return &c
}
