package bot

import (
	"context"
	"time"

	"riobot/bot/common"
	"riobot/bot/features/drops"
	"riobot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleGuildMemberAdd greets a new member and refreshes the counter
func (b *Bot) handleGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.Member == nil || m.User == nil || m.User.Bot {
		return
	}
	ctx := context.Background()
	guildID := common.ParseID(m.GuildID)

	if err := b.welcome.MemberJoined(ctx, guildID, toMember(m.User, m.Member)); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"guildId": m.GuildID,
			"userId":  m.User.ID,
		}).Error("Failed to welcome member")
	}
	b.refreshMemberStats(ctx, guildID)
}

// handleGuildMemberRemove expires the member's welcome and refreshes the counter
func (b *Bot) handleGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	ctx := context.Background()
	if m.Member != nil && m.User != nil {
		if err := b.welcome.MemberLeft(ctx, common.ParseID(m.User.ID)); err != nil {
			log.WithError(err).WithField("userId", m.User.ID).Warn("Failed to expire welcome claim")
		}
	}
	b.refreshMemberStats(ctx, common.ParseID(m.GuildID))
}

func (b *Bot) refreshMemberStats(ctx context.Context, guildID int64) {
	if b.stats == nil {
		return
	}
	if err := b.stats.Refresh(ctx, guildID); err != nil {
		log.WithError(err).WithField("guildId", guildID).Warn("Failed to refresh member stats")
	}
}

// handleVoiceStateUpdate feeds join, leave and move transitions to the
// ephemeral voice lifecycle
func (b *Bot) handleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.VoiceState == nil {
		return
	}
	var from string
	if v.BeforeUpdate != nil {
		from = v.BeforeUpdate.ChannelID
	}
	if from == v.ChannelID {
		// mute, deafen and stream toggles
		return
	}

	member := toMember(nil, v.Member)
	if member.ID == 0 {
		member.ID = common.ParseID(v.UserID)
	}
	if v.Member != nil && v.Member.User != nil && v.Member.User.Bot {
		return
	}

	b.voice.StateChanged(context.Background(), interfaces.VoiceTransition{
		GuildID:       common.ParseID(v.GuildID),
		UserID:        member.ID,
		DisplayName:   member.Name,
		FromChannelID: common.ParseID(from),
		ToChannelID:   common.ParseID(v.ChannelID),
		At:            time.Now(),
	})
}

// handleReactionAdd lets members claim currency drops
func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID == "" {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}

	err := b.drops.HandleReaction(context.Background(), drops.Reaction{
		GuildID:   common.ParseID(r.GuildID),
		ChannelID: common.ParseID(r.ChannelID),
		MessageID: common.ParseID(r.MessageID),
		UserID:    common.ParseID(r.UserID),
		Emoji:     r.Emoji.Name,
	})
	if err != nil {
		log.WithError(err).WithField("messageId", r.MessageID).Error("Failed to handle drop reaction")
	}
}

// handleChannelDelete forgets tickets and voice channels removed by hand
func (b *Bot) handleChannelDelete(s *discordgo.Session, c *discordgo.ChannelDelete) {
	if c.Channel == nil || c.GuildID == "" {
		return
	}
	ctx := context.Background()
	channelID := common.ParseID(c.ID)

	switch c.Type {
	case discordgo.ChannelTypeGuildText:
		if err := b.tickets.ChannelDeleted(ctx, channelID); err != nil {
			log.WithError(err).WithField("channelId", c.ID).Warn("Failed to forget ticket")
		}
	case discordgo.ChannelTypeGuildVoice:
		if err := b.voice.ChannelDeleted(ctx, channelID); err != nil {
			log.WithError(err).WithField("channelId", c.ID).Warn("Failed to forget voice channel")
		}
	}
}
