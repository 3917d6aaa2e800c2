package bot

import (
	"context"
	"errors"
	"strings"

	"riobot/bot/common"
	"riobot/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type commandHandler func(ctx context.Context, cmd *common.Command) *common.Reply

// commandTable maps every text command and alias to its handler
func (b *Bot) commandTable() map[string]commandHandler {
	return map[string]commandHandler{
		// Profile
		"profil":      b.profile.HandleProfile,
		"stats":       b.profile.HandleProfile,
		"leaderboard": b.profile.HandleLeaderboard,
		"top":         b.profile.HandleLeaderboard,
		"help":        b.profile.HandleHelp,
		"aide":        b.profile.HandleHelp,

		// Economy
		"daily": b.economy.HandleDaily,
		"work":  b.economy.HandleWork,
		"pay":   b.economy.HandlePay,
		"shop":  b.economy.HandleShop,
		"buy":   b.economy.HandleBuy,

		// Moderation
		"ban":        b.moderation.HandleBan,
		"kick":       b.moderation.HandleKick,
		"mute":       b.moderation.HandleMute,
		"tempmute":   b.moderation.HandleTempMute,
		"unmute":     b.moderation.HandleUnmute,
		"warn":       b.moderation.HandleWarn,
		"warns":      b.moderation.HandleWarns,
		"clearwarns": b.moderation.HandleClearWarns,
		"say":        b.moderation.HandleSay,
		"sayembed":   b.moderation.HandleSayEmbed,
	}
}

// splitCommand extracts the lower-cased name, the arguments and the raw text
// after the name of a prefixed message
func splitCommand(content string) (name string, args []string, rest string, ok bool) {
	body, found := strings.CutPrefix(strings.TrimSpace(content), common.CommandPrefix)
	if !found || body == "" || strings.HasPrefix(body, " ") {
		return "", nil, "", false
	}

	fields := strings.Fields(body)
	name = strings.ToLower(fields[0])
	rest = strings.TrimSpace(strings.TrimPrefix(body, fields[0]))
	return name, fields[1:], rest, true
}

// orderedMentions returns the mentioned users in the order they appear in
// the arguments
func orderedMentions(args []string, users []*discordgo.User) []common.Member {
	byID := make(map[int64]*discordgo.User, len(users))
	for _, u := range users {
		byID[common.ParseID(u.ID)] = u
	}

	var mentions []common.Member
	seen := make(map[int64]bool)
	for _, arg := range args {
		id, ok := common.ParseMention(arg)
		if !ok || seen[id] {
			continue
		}
		u, known := byID[id]
		if !known {
			continue
		}
		seen[id] = true
		mentions = append(mentions, toMember(u, nil))
	}
	return mentions
}

// parseCommand turns a guild message into a command, if it is one
func parseCommand(m *discordgo.MessageCreate, permissions int64) (*common.Command, bool) {
	name, args, rest, ok := splitCommand(m.Content)
	if !ok {
		return nil, false
	}

	return &common.Command{
		GuildID:     common.ParseID(m.GuildID),
		ChannelID:   common.ParseID(m.ChannelID),
		MessageID:   common.ParseID(m.ID),
		Author:      toMember(m.Author, m.Member),
		Name:        name,
		Args:        args,
		Rest:        rest,
		Mentions:    orderedMentions(args, m.Mentions),
		RoleIDs:     roleIDs(m.Member),
		Permissions: permissions,
	}, true
}

// dispatchCommand runs a known command. Unknown names fall through to
// regular chat so they still earn XP.
func (b *Bot) dispatchCommand(ctx context.Context, cmd *common.Command) bool {
	handler, ok := b.commands[cmd.Name]
	if !ok {
		return false
	}

	log.WithFields(log.Fields{
		"command": cmd.Name,
		"userId":  cmd.Author.ID,
		"guildId": cmd.GuildID,
	}).Debug("Handling command")

	b.deliverCommandReply(ctx, cmd, handler(ctx, cmd))
	return true
}

// deliverCommandReply answers in the command's channel
func (b *Bot) deliverCommandReply(ctx context.Context, cmd *common.Command, reply *common.Reply) {
	if reply == nil || reply.Silent {
		return
	}

	msg := reply.Message
	if reply.DeleteSource {
		if err := b.platform.DeleteMessage(ctx, cmd.ChannelID, cmd.MessageID); err != nil && !errors.Is(err, entities.ErrPlatformNotFound) {
			log.WithError(err).WithField("command", cmd.Name).Warn("Failed to delete command message")
		}
	} else {
		msg.ReplyTo = cmd.MessageID
	}

	if _, err := b.platform.SendMessage(ctx, cmd.ChannelID, msg); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"command":   cmd.Name,
			"channelId": cmd.ChannelID,
		}).Error("Failed to send command reply")
		return
	}

	if reply.FollowUp != nil {
		if _, err := b.platform.SendMessage(ctx, cmd.ChannelID, *reply.FollowUp); err != nil {
			log.WithError(err).WithField("command", cmd.Name).Error("Failed to send follow-up")
		}
	}
}
