package entities

import "time"

// EmbedField is one name/value row of an embed
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// EmbedSpec is a platform-neutral rich message body
type EmbedSpec struct {
	Title        string
	Description  string
	Color        int
	Fields       []EmbedField
	Footer       string
	ThumbnailURL string
	ImageURL     string
	Timestamp    *time.Time
}

// ButtonStyle mirrors the platform's button styles
type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota + 1
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
)

// ButtonSpec is a clickable component carrying an encoded action
type ButtonSpec struct {
	Label    string
	Emoji    string
	Style    ButtonStyle
	CustomID string
	Disabled bool
}

// FileSpec is an attachment
type FileSpec struct {
	Name        string
	ContentType string
	Data        []byte
}

// MessageSpec is everything needed to send or edit a message.
// Buttons are laid out five per row.
type MessageSpec struct {
	Content string
	Embeds  []EmbedSpec
	Buttons []ButtonSpec
	Files   []FileSpec
	// ClearComponents removes existing buttons on edit when Buttons is empty
	ClearComponents bool
	// ReplyTo references the message being answered, if any
	ReplyTo int64
}

// PlatformMessage is the subset of a fetched message the core inspects
type PlatformMessage struct {
	ID        int64
	ChannelID int64
	AuthorID  int64
	Content   string
	Footers   []string
	CreatedAt time.Time
}

// HasMarker reports whether the message carries a panel signature
func (m PlatformMessage) HasMarker(marker string) bool {
	if m.Content == marker {
		return true
	}
	for _, f := range m.Footers {
		if f == marker {
			return true
		}
	}
	return false
}

// ChannelType is the kind of channel to create
type ChannelType int

const (
	ChannelTypeText ChannelType = iota
	ChannelTypeVoice
)

// Permission bits, using the platform's bit positions
const (
	PermKickMembers     int64 = 1 << 1
	PermBanMembers      int64 = 1 << 2
	PermManageChannels  int64 = 1 << 4
	PermViewChannel     int64 = 1 << 10
	PermSendMessages    int64 = 1 << 11
	PermManageMessages  int64 = 1 << 13
	PermAttachFiles     int64 = 1 << 15
	PermReadHistory     int64 = 1 << 16
	PermConnect         int64 = 1 << 20
	PermMoveMembers     int64 = 1 << 24
	PermModerateMembers int64 = 1 << 40
)

// PermissionOverwrite grants or denies permission bits for a role or member
type PermissionOverwrite struct {
	TargetID int64
	IsRole   bool
	Allow    int64
	Deny     int64
}

// ChannelSpec describes a channel to create
type ChannelSpec struct {
	Name       string
	Type       ChannelType
	ParentID   int64
	UserLimit  int
	Topic      string
	Overwrites []PermissionOverwrite
}

// ChannelEdit changes channel settings; nil fields are left unchanged
type ChannelEdit struct {
	Name      *string
	UserLimit *int
}
