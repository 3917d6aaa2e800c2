package application

import (
	"context"
	"time"

	"riobot/domain/entities"
)

// PanelContentBuilder renders the current content of a panel kind. The bot
// layer implements it so the application layer stays free of platform types.
type PanelContentBuilder interface {
	BuildPanel(ctx context.Context, guildID int64, kind entities.PanelKind) (entities.MessageSpec, error)
}

// DropPresenter renders drop announcements
type DropPresenter interface {
	DropAnnouncement(amount int64, expiresAt time.Time) entities.MessageSpec
	DropExpired(drop *entities.CurrencyDrop) entities.MessageSpec
}

// BumpPresenter renders the periodic bump reminder
type BumpPresenter interface {
	BumpReminder() entities.MessageSpec
}

// GuildSource lists the guilds the bot is connected to
type GuildSource interface {
	GuildIDs() []int64
}
