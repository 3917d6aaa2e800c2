package panels

import (
	"context"
	"fmt"

	"riobot/bot/common"
	"riobot/bot/features/tickets"
	"riobot/bot/features/voice"
	"riobot/config"
	"riobot/domain/entities"
)

// LeaderboardSource renders the live leaderboard
type LeaderboardSource interface {
	LeaderboardPanel(ctx context.Context, guildID int64) (entities.MessageSpec, error)
}

// Builder renders the content of every panel kind
type Builder struct {
	config      *config.Config
	leaderboard LeaderboardSource
}

// NewBuilder creates the panel content builder
func NewBuilder(cfg *config.Config, leaderboard LeaderboardSource) *Builder {
	return &Builder{config: cfg, leaderboard: leaderboard}
}

// BuildPanel returns the current content of the guild's panel of kind
func (b *Builder) BuildPanel(ctx context.Context, guildID int64, kind entities.PanelKind) (entities.MessageSpec, error) {
	switch kind {
	case entities.PanelKindLeaderboard:
		return b.leaderboard.LeaderboardPanel(ctx, guildID)
	case entities.PanelKindTicket:
		return tickets.PanelContent(), nil
	case entities.PanelKindVoiceControl:
		return voice.PanelContent(b.config.VoiceSpawnerChannelID), nil
	default:
		return entities.MessageSpec{}, fmt.Errorf("%w: panel kind %q", entities.ErrInvalidArgument, kind)
	}
}

// BumpReminder is the periodic reminder posted in the bump channel
func (b *Builder) BumpReminder() entities.MessageSpec {
	return entities.MessageSpec{Embeds: []entities.EmbedSpec{{
		Title:       "⏰ C'est l'heure du bump !",
		Description: "Tape `/bump` pour faire remonter le serveur. Merci pour ton soutien ! 💙",
		Color:       common.ColorPrimary,
	}}}
}
