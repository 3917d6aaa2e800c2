package welcome

import (
	"context"
	"errors"
	"fmt"
	"time"

	"riobot/bot/common"
	"riobot/domain/entities"

	log "github.com/sirupsen/logrus"
)

func welcomeMessage(cfg rewardConfig, m common.Member, now time.Time) entities.MessageSpec {
	embed := entities.EmbedSpec{
		Title:        "🎉 Nouveau membre !",
		Description:  fmt.Sprintf("Bienvenue %s sur le serveur !", common.Mention(m.ID)),
		Color:        common.ColorSuccess,
		ThumbnailURL: m.AvatarURL,
		Timestamp:    &now,
	}
	if cfg.rulesChannelID != 0 {
		embed.Fields = append(embed.Fields, entities.EmbedField{Name: "📜 Règles", Value: common.ChannelMention(cfg.rulesChannelID), Inline: true})
	}
	if cfg.generalChannelID != 0 {
		embed.Fields = append(embed.Fields, entities.EmbedField{Name: "💬 Général", Value: common.ChannelMention(cfg.generalChannelID), Inline: true})
	}

	return entities.MessageSpec{
		Embeds: []entities.EmbedSpec{embed},
		Buttons: []entities.ButtonSpec{{
			Label:    fmt.Sprintf("🎁 Souhaiter la bienvenue (%d rios)", cfg.reward),
			Style:    entities.ButtonSuccess,
			CustomID: common.WelcomeAction(m.ID).CustomID(),
		}},
	}
}

type rewardConfig struct {
	rulesChannelID   int64
	generalChannelID int64
	reward           int64
}

// MemberJoined posts the welcome message and registers its claim
func (f *Feature) MemberJoined(ctx context.Context, guildID int64, m common.Member) error {
	if f.config.WelcomeChannelID == 0 {
		return nil
	}

	now := time.Now()
	msg := welcomeMessage(rewardConfig{
		rulesChannelID:   f.config.RulesChannelID,
		generalChannelID: f.config.GeneralChannelID,
		reward:           f.config.WelcomeButtonReward,
	}, m, now)

	messageID, err := f.platform.SendMessage(ctx, f.config.WelcomeChannelID, msg)
	if err != nil {
		return fmt.Errorf("failed to send welcome message: %w", err)
	}

	if err := f.claims.RegisterWelcome(ctx, entities.WelcomeClaim{
		TargetUserID:    m.ID,
		GuildID:         guildID,
		ChannelID:       f.config.WelcomeChannelID,
		SourceMessageID: messageID,
		CreatedAt:       now,
	}); err != nil {
		// a button nobody can claim is worse than no button
		if delErr := f.platform.DeleteMessage(ctx, f.config.WelcomeChannelID, messageID); delErr != nil && !errors.Is(delErr, entities.ErrNotFound) {
			log.WithError(delErr).Warn("Failed to remove unregistered welcome message")
		}
		return err
	}

	log.WithFields(log.Fields{
		"guildId":   guildID,
		"userId":    m.ID,
		"messageId": messageID,
	}).Info("Welcome message posted")
	return nil
}

// HandleClaim resolves a press on a welcome button
func (f *Feature) HandleClaim(ctx context.Context, in *common.Interaction) *common.Reply {
	targetID, err := in.Action.Int64Arg()
	if err != nil {
		return common.Ephemeral("❌ Bouton expiré.")
	}

	result, err := f.claims.TryClaim(ctx, entities.ClaimID{Kind: entities.ClaimKindWelcome, ID: targetID}, in.User.ID, time.Now())
	if err != nil {
		if !common.IsUserError(err) {
			log.WithError(err).WithFields(log.Fields{
				"targetId":   targetID,
				"claimantId": in.User.ID,
			}).Error("Failed to claim welcome")
		}
		return common.ErrorReply(err)
	}
	if err := f.claims.RemoveWelcome(ctx, targetID); err != nil {
		log.WithError(err).WithField("targetId", targetID).Warn("Failed to clean up resolved welcome claim")
	}

	return &common.Reply{
		Update:  true,
		Message: entities.MessageSpec{ClearComponents: true},
		FollowUp: &entities.MessageSpec{
			Content: fmt.Sprintf("✅ %s a souhaité la bienvenue et a gagné **%d rios** ! 🎉", common.Mention(in.User.ID), result.Reward),
		},
	}
}

// MemberLeft expires the welcome of a member who left before anyone
// greeted them
func (f *Feature) MemberLeft(ctx context.Context, userID int64) error {
	return f.claims.RemoveWelcome(ctx, userID)
}

// MessageDeleted drops a welcome claim whose message was removed
func (f *Feature) MessageDeleted(ctx context.Context, messageID int64) error {
	return f.claims.RemoveWelcomeByMessage(ctx, messageID)
}
