package entities

import "time"

// VoiceChannel is an ephemeral voice room owned by the member who spawned it
type VoiceChannel struct {
	ChannelID int64     `json:"channelId"`
	GuildID   int64     `json:"guildId"`
	OwnerID   int64     `json:"ownerId"`
	Locked    bool      `json:"locked"`
	UserLimit int       `json:"userLimit"`
	CreatedAt time.Time `json:"createdAt"`
}

// MaxVoiceUserLimit is the platform's maximum voice user limit; 0 means unlimited
const MaxVoiceUserLimit = 99

// IsOwner reports whether userID owns the channel
func (v *VoiceChannel) IsOwner(userID int64) bool {
	return v != nil && v.OwnerID == userID
}

func (v *VoiceChannel) Clone() *VoiceChannel {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
