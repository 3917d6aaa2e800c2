package interfaces

import (
	"context"
	"time"

	"riobot/domain/entities"
)

// Platform is the chat platform as seen by the core. Implementations map
// platform failures onto entities.ErrPlatformNotFound, ErrPlatformForbidden
// and ErrPlatformRateLimited.
type Platform interface {
	SelfID() int64

	SendMessage(ctx context.Context, channelID int64, msg entities.MessageSpec) (int64, error)
	EditMessage(ctx context.Context, channelID, messageID int64, msg entities.MessageSpec) error
	DeleteMessage(ctx context.Context, channelID, messageID int64) error
	FetchRecentMessages(ctx context.Context, channelID int64, limit int) ([]entities.PlatformMessage, error)
	BulkDeleteMessages(ctx context.Context, channelID int64, messageIDs []int64) error

	CreateChannel(ctx context.Context, guildID int64, spec entities.ChannelSpec) (int64, error)
	DeleteChannel(ctx context.Context, channelID int64) error
	EditChannel(ctx context.Context, channelID int64, edit entities.ChannelEdit) error
	RenameEntity(ctx context.Context, channelID int64, name string) error
	SetChannelPermission(ctx context.Context, channelID int64, overwrite entities.PermissionOverwrite) error
	RemoveChannelPermission(ctx context.Context, channelID, targetID int64) error

	MoveMember(ctx context.Context, guildID, userID int64, channelID *int64) error
	VoiceMemberCount(ctx context.Context, guildID, channelID int64) (int, error)
	GuildMemberCount(ctx context.Context, guildID int64) (int, error)

	SetMemberTimeout(ctx context.Context, guildID, userID int64, until *time.Time, reason string) error
	KickMember(ctx context.Context, guildID, userID int64, reason string) error
	BanMember(ctx context.Context, guildID, userID int64, reason string) error
}
