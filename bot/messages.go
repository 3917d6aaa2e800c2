package bot

import (
	"context"
	"errors"
	"time"

	"riobot/bot/common"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// permissions returns the effective permissions of a user in a channel, or
// zero when they cannot be computed
func (b *Bot) permissions(userID, channelID string) int64 {
	if b.session.State == nil {
		return 0
	}
	perms, err := b.session.State.UserChannelPermissions(userID, channelID)
	if err != nil {
		log.WithError(err).WithField("userId", userID).Debug("Failed to compute channel permissions")
		return 0
	}
	return perms
}

// handleMessageCreate runs anti-spam, then commands, then XP rewards
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Skip messages from bots, including our own
	if m.Author == nil || m.Author.Bot {
		return
	}
	// Skip direct messages
	if m.GuildID == "" {
		return
	}

	ctx := context.Background()
	perms := b.permissions(m.Author.ID, m.ChannelID)

	if b.antiSpam != nil {
		spam, err := b.antiSpam.Observe(ctx, interfaces.Activity{
			GuildID:   common.ParseID(m.GuildID),
			ChannelID: common.ParseID(m.ChannelID),
			UserID:    common.ParseID(m.Author.ID),
			MessageID: common.ParseID(m.ID),
			At:        messageTime(m.Message),
			Exempt:    perms&entities.PermManageMessages != 0,
		})
		if err != nil {
			log.WithError(err).WithField("userId", m.Author.ID).Warn("Anti-spam check failed")
		}
		if spam {
			return
		}
	}

	if cmd, ok := parseCommand(m, perms); ok {
		if b.dispatchCommand(ctx, cmd) {
			observability.GetMetrics().RecordMessageRead("command")
			return
		}
	}
	observability.GetMetrics().RecordMessageRead("chat")

	author := toMember(m.Author, m.Member)
	levelUp, err := b.economy.RewardMessage(ctx, author)
	if err != nil {
		log.WithError(err).WithField("userId", author.ID).Error("Failed to reward message")
		return
	}
	if levelUp == nil {
		return
	}
	if _, err := b.platform.SendMessage(ctx, common.ParseID(m.ChannelID), *levelUp); err != nil {
		log.WithError(err).WithField("userId", author.ID).Warn("Failed to announce level up")
	}
}

// handleMessageDelete forgets welcome claims whose message disappeared
func (b *Bot) handleMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.GuildID == "" {
		return
	}
	if err := b.welcome.MessageDeleted(context.Background(), common.ParseID(m.ID)); err != nil && !errors.Is(err, entities.ErrNotFound) {
		log.WithError(err).WithField("messageId", m.ID).Warn("Failed to drop welcome claim")
	}
}

func messageTime(m *discordgo.Message) time.Time {
	if m == nil || m.Timestamp.IsZero() {
		return time.Now()
	}
	return m.Timestamp
}
