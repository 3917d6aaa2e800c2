package entities

import (
	"fmt"
	"time"
)

// PanelKind names a singleton display artifact
type PanelKind string

const (
	PanelKindLeaderboard  PanelKind = "leaderboard"
	PanelKindTicket       PanelKind = "ticket"
	PanelKindVoiceControl PanelKind = "voice_control"
)

// PanelArtifact tracks the one live message of a panel kind in a guild
type PanelArtifact struct {
	GuildID   int64     `json:"guildId"`
	Kind      PanelKind `json:"kind"`
	ChannelID int64     `json:"channelId"`
	MessageID *int64    `json:"messageId,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PanelRef returns the document key of a panel
func PanelRef(guildID int64, kind PanelKind) string {
	return fmt.Sprintf("%d:%s", guildID, kind)
}

// Marker is the footer signature used to recognize a panel in channel history
func (k PanelKind) Marker() string {
	return fmt.Sprintf("riobot:panel:%s", k)
}

func (p *PanelArtifact) Clone() *PanelArtifact {
	if p == nil {
		return nil
	}
	c := *p
	if p.MessageID != nil {
		id := *p.MessageID
		c.MessageID = &id
	}
	return &c
}
