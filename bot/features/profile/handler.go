package profile

import (
	"context"
	"fmt"
	"time"

	"riobot/bot/common"
	"riobot/domain/entities"

	log "github.com/sirupsen/logrus"
)

// HandleProfile shows the author's profile, or the mentioned member's
func (f *Feature) HandleProfile(ctx context.Context, cmd *common.Command) *common.Reply {
	target := cmd.Author
	if m, ok := cmd.FirstMention(); ok {
		target = m
	}

	account, err := f.economy.GetAccount(ctx, target.ID)
	if err != nil {
		log.WithError(err).WithField("userId", target.ID).Error("Failed to load profile")
		return common.ErrorReply(err)
	}
	return common.Embed(profileEmbed(target.Name, target.AvatarURL, account, time.Now()))
}

// HandleLeaderboard shows the top members by XP
func (f *Feature) HandleLeaderboard(ctx context.Context, cmd *common.Command) *common.Reply {
	entries, err := f.economy.Leaderboard(ctx, common.LeaderboardSize)
	if err != nil {
		log.WithError(err).Error("Failed to load leaderboard")
		return common.ErrorReply(err)
	}
	names := f.resolveNames(ctx, cmd.GuildID, entries)
	return common.Embed(leaderboardEmbed(entries, names, time.Now()))
}

// HandleHelp lists the commands the author may use
func (f *Feature) HandleHelp(ctx context.Context, cmd *common.Command) *common.Reply {
	isOwner := f.config.OwnerID != 0 && cmd.Author.ID == f.config.OwnerID
	return common.Embed(helpEmbed(cmd.Permissions, isOwner, time.Now()))
}

// LeaderboardPanel builds the live leaderboard message, with a rendered
// table attached when the image can be drawn
func (f *Feature) LeaderboardPanel(ctx context.Context, guildID int64) (entities.MessageSpec, error) {
	entries, err := f.economy.Leaderboard(ctx, common.LeaderboardSize)
	if err != nil {
		return entities.MessageSpec{}, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	names := f.resolveNames(ctx, guildID, entries)

	embed := leaderboardEmbed(entries, names, time.Now())
	msg := entities.MessageSpec{}

	if len(entries) > 0 {
		png, err := f.images.Generate(entries, names)
		if err != nil {
			log.WithError(err).Warn("Failed to render leaderboard image")
		} else {
			embed.ImageURL = "attachment://" + leaderboardImageName
			msg.Files = []entities.FileSpec{{Name: leaderboardImageName, ContentType: "image/png", Data: png}}
		}
	}
	msg.Embeds = []entities.EmbedSpec{embed}
	return msg, nil
}
