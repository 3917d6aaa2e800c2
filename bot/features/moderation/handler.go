package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"riobot/bot/common"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/domain/services"
	"riobot/domain/utils"

	log "github.com/sirupsen/logrus"
)

const tempmuteUsage = "❌ Usage: `!tempmute @utilisateur <durée> [raison]`\n" +
	"Exemple: `!tempmute @user 10m Spam`\n" +
	"Durées: s (secondes), m (minutes), h (heures), d (jours)"

// sanction describes one manual moderation command
type sanction struct {
	permission int64
	denied     string
	usage      string
	cannot     string
	failed     string
}

var (
	banSanction = sanction{
		permission: entities.PermBanMembers,
		denied:     "❌ Tu n'as pas la permission de bannir des membres.",
		usage:      "❌ Usage: `!ban @utilisateur [raison]`",
		cannot:     "❌ Je ne peux pas bannir ce membre.",
		failed:     "❌ Une erreur est survenue lors du bannissement.",
	}
	kickSanction = sanction{
		permission: entities.PermKickMembers,
		denied:     "❌ Tu n'as pas la permission d'expulser des membres.",
		usage:      "❌ Usage: `!kick @utilisateur [raison]`",
		cannot:     "❌ Je ne peux pas expulser ce membre.",
		failed:     "❌ Une erreur est survenue lors de l'expulsion.",
	}
	muteSanction = sanction{
		permission: entities.PermModerateMembers,
		denied:     "❌ Tu n'as pas la permission de mute des membres.",
		usage:      "❌ Usage: `!mute @utilisateur [raison]`",
		cannot:     "❌ Je ne peux pas mute ce membre.",
		failed:     "❌ Une erreur est survenue lors du mute.",
	}
	tempmuteSanction = sanction{
		permission: entities.PermModerateMembers,
		denied:     "❌ Tu n'as pas la permission de mute des membres.",
		usage:      tempmuteUsage,
		cannot:     "❌ Je ne peux pas mute ce membre.",
		failed:     "❌ Une erreur est survenue lors du mute temporaire.",
	}
	unmuteSanction = sanction{
		permission: entities.PermModerateMembers,
		denied:     "❌ Tu n'as pas la permission de unmute des membres.",
		usage:      "❌ Usage: `!unmute @utilisateur`",
		cannot:     "❌ Je ne peux pas unmute ce membre.",
		failed:     "❌ Une erreur est survenue lors du unmute.",
	}
	warnSanction = sanction{
		permission: entities.PermModerateMembers,
		denied:     "❌ Tu n'as pas la permission d'avertir des membres.",
		usage:      "❌ Usage: `!warn @utilisateur [raison]`",
	}
)

// target checks the author's permission and resolves the mentioned member
func (s sanction) target(cmd *common.Command) (common.Member, *common.Reply) {
	if !cmd.Can(s.permission) {
		return common.Member{}, common.Text(s.denied)
	}
	target, ok := cmd.FirstMention()
	if !ok {
		return common.Member{}, common.Text(s.usage)
	}
	if target.ID == cmd.Author.ID {
		return common.Member{}, common.Text("❌ Tu ne peux pas te sanctionner toi-même.")
	}
	return target, nil
}

// platformFailure turns a failed platform call into the command's reply
func (s sanction) platformFailure(cmd *common.Command, target common.Member, err error) *common.Reply {
	fields := log.Fields{
		"guildId":     cmd.GuildID,
		"moderatorId": cmd.Author.ID,
		"targetId":    target.ID,
		"command":     cmd.Name,
	}
	if errors.Is(err, entities.ErrPlatformForbidden) || errors.Is(err, entities.ErrNotFound) {
		log.WithError(err).WithFields(fields).Warn("Moderation action refused by platform")
		return common.Text(s.cannot)
	}
	log.WithError(err).WithFields(fields).Error("Moderation action failed")
	return common.Text(s.failed)
}

// reasonFrom joins the arguments after skip, ignoring mention tokens
func reasonFrom(args []string, skip int) string {
	if len(args) <= skip {
		return services.DefaultReason
	}
	reason := strings.TrimSpace(strings.Join(args[skip:], " "))
	if reason == "" {
		return services.DefaultReason
	}
	return reason
}

// HandleBan bans the mentioned member
func (f *Feature) HandleBan(ctx context.Context, cmd *common.Command) *common.Reply {
	target, reply := banSanction.target(cmd)
	if reply != nil {
		return reply
	}
	reason := reasonFrom(cmd.Args, 1)
	if err := f.platform.BanMember(ctx, cmd.GuildID, target.ID, reason); err != nil {
		return banSanction.platformFailure(cmd, target, err)
	}
	log.WithFields(log.Fields{"targetId": target.ID, "moderatorId": cmd.Author.ID}).Info("Member banned")
	return common.Embed(sanctionEmbed("🔨 Membre banni", common.ColorDanger, target, cmd.Author, "", reason, f.now()))
}

// HandleKick removes the mentioned member from the guild
func (f *Feature) HandleKick(ctx context.Context, cmd *common.Command) *common.Reply {
	target, reply := kickSanction.target(cmd)
	if reply != nil {
		return reply
	}
	reason := reasonFrom(cmd.Args, 1)
	if err := f.platform.KickMember(ctx, cmd.GuildID, target.ID, reason); err != nil {
		return kickSanction.platformFailure(cmd, target, err)
	}
	log.WithFields(log.Fields{"targetId": target.ID, "moderatorId": cmd.Author.ID}).Info("Member kicked")
	return common.Embed(sanctionEmbed("👢 Membre expulsé", common.ColorKick, target, cmd.Author, "", reason, f.now()))
}

// HandleMute times the member out for the longest duration the platform allows
func (f *Feature) HandleMute(ctx context.Context, cmd *common.Command) *common.Reply {
	target, reply := muteSanction.target(cmd)
	if reply != nil {
		return reply
	}
	reason := reasonFrom(cmd.Args, 1)
	now := f.now()
	until := now.Add(utils.MaxTimeout)
	if err := f.platform.SetMemberTimeout(ctx, cmd.GuildID, target.ID, &until, reason); err != nil {
		return muteSanction.platformFailure(cmd, target, err)
	}
	return common.Embed(sanctionEmbed("🔇 Membre muté", common.ColorMute, target, cmd.Author, "Permanent (28 jours)", reason, now))
}

// HandleTempMute times the member out for the given duration
func (f *Feature) HandleTempMute(ctx context.Context, cmd *common.Command) *common.Reply {
	target, reply := tempmuteSanction.target(cmd)
	if reply != nil {
		return reply
	}
	if len(cmd.Args) < 2 {
		return common.Text(tempmuteUsage)
	}
	duration, label, err := utils.ParseTimeoutDuration(cmd.Args[1])
	if errors.Is(err, utils.ErrDurationTooLong) {
		return common.Text("❌ La durée maximum est de 28 jours.")
	}
	if err != nil {
		return common.Text("❌ Format de durée invalide. Utilise: 10s, 5m, 2h, 1d")
	}

	reason := reasonFrom(cmd.Args, 2)
	now := f.now()
	until := now.Add(duration)
	if err := f.platform.SetMemberTimeout(ctx, cmd.GuildID, target.ID, &until, reason); err != nil {
		return tempmuteSanction.platformFailure(cmd, target, err)
	}
	return common.Embed(sanctionEmbed("⏱️ Membre temporairement muté", common.ColorWarning, target, cmd.Author, label, reason, now))
}

// HandleUnmute lifts the member's timeout
func (f *Feature) HandleUnmute(ctx context.Context, cmd *common.Command) *common.Reply {
	target, reply := unmuteSanction.target(cmd)
	if reply != nil {
		return reply
	}
	if err := f.platform.SetMemberTimeout(ctx, cmd.GuildID, target.ID, nil, ""); err != nil {
		return unmuteSanction.platformFailure(cmd, target, err)
	}
	return common.Embed(sanctionEmbed("🔊 Membre démuté", common.ColorSuccess, target, cmd.Author, "", "", f.now()))
}

// HandleWarn records a warn and reports any automatic sanction
func (f *Feature) HandleWarn(ctx context.Context, cmd *common.Command) *common.Reply {
	target, reply := warnSanction.target(cmd)
	if reply != nil {
		return reply
	}
	now := f.now()
	outcome, err := f.moderation.AddWarn(ctx, interfaces.WarnInput{
		GuildID:     cmd.GuildID,
		ChannelID:   cmd.ChannelID,
		SubjectID:   target.ID,
		ModeratorID: cmd.Author.ID,
		Reason:      reasonFrom(cmd.Args, 1),
		At:          now,
	})
	if err != nil {
		log.WithError(err).WithField("subjectId", target.ID).Error("Failed to add warn")
		return common.ErrorReply(err)
	}
	return common.Embed(warnEmbed(target, cmd.Author, outcome, f.config.WarnTimeoutDuration, now))
}

// HandleWarns lists the mentioned member's warns
func (f *Feature) HandleWarns(ctx context.Context, cmd *common.Command) *common.Reply {
	if !cmd.Can(entities.PermModerateMembers) {
		return common.Text(warnSanction.denied)
	}
	target, ok := cmd.FirstMention()
	if !ok {
		return common.Text("❌ Usage: `!warns @utilisateur`")
	}
	records, err := f.moderation.ListWarns(ctx, target.ID)
	if err != nil {
		log.WithError(err).WithField("subjectId", target.ID).Error("Failed to list warns")
		return common.ErrorReply(err)
	}
	if len(records) == 0 {
		return common.Text(fmt.Sprintf("✅ %s n'a aucun avertissement.", common.Mention(target.ID)))
	}
	return common.Embed(warnsEmbed(target, records, f.now()))
}

// HandleClearWarns removes the mentioned member's warns
func (f *Feature) HandleClearWarns(ctx context.Context, cmd *common.Command) *common.Reply {
	if !cmd.Can(entities.PermModerateMembers) {
		return common.Text(warnSanction.denied)
	}
	target, ok := cmd.FirstMention()
	if !ok {
		return common.Text("❌ Usage: `!clearwarns @utilisateur`")
	}
	removed, err := f.moderation.ClearWarns(ctx, target.ID)
	if err != nil {
		log.WithError(err).WithField("subjectId", target.ID).Error("Failed to clear warns")
		return common.ErrorReply(err)
	}
	if removed == 0 {
		return common.Text(fmt.Sprintf("✅ %s n'a aucun avertissement.", common.Mention(target.ID)))
	}
	return common.Text(fmt.Sprintf("🧹 %s supprimés pour %s.",
		utils.FormatCount(int64(removed), "avertissement"), common.Mention(target.ID)))
}

// HandleSay repeats the text as the bot, owner only
func (f *Feature) HandleSay(ctx context.Context, cmd *common.Command) *common.Reply {
	if reply := f.ownerOnly(cmd, "❌ Usage: `!say <message>`"); reply != nil {
		return reply
	}
	return &common.Reply{Message: entities.MessageSpec{Content: cmd.Rest}, DeleteSource: true}
}

// HandleSayEmbed repeats the text inside an embed, owner only
func (f *Feature) HandleSayEmbed(ctx context.Context, cmd *common.Command) *common.Reply {
	if reply := f.ownerOnly(cmd, "❌ Usage: `!sayembed <message>`"); reply != nil {
		return reply
	}
	now := f.now()
	return &common.Reply{
		Message: entities.MessageSpec{Embeds: []entities.EmbedSpec{{
			Description: cmd.Rest,
			Color:       common.ColorPrimary,
			Timestamp:   &now,
		}}},
		DeleteSource: true,
	}
}

func (f *Feature) ownerOnly(cmd *common.Command, usage string) *common.Reply {
	if f.config.OwnerID == 0 || cmd.Author.ID != f.config.OwnerID {
		return common.Text("❌ Cette commande est réservée au propriétaire du bot.")
	}
	if strings.TrimSpace(cmd.Rest) == "" {
		return common.Text(usage)
	}
	return nil
}
