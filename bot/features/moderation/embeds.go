package moderation

import (
	"fmt"
	"strings"
	"time"

	"riobot/bot/common"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/domain/utils"
	"riobot/events"
)

// maxListedWarns keeps the warns embed under the platform's field limit
const maxListedWarns = 20

func memberLabel(m common.Member) string {
	if m.Name == "" {
		return common.Mention(m.ID)
	}
	return fmt.Sprintf("%s (%s)", m.Name, common.Mention(m.ID))
}

func sanctionEmbed(title string, color int, target, moderator common.Member, duration, reason string, now time.Time) entities.EmbedSpec {
	fields := []entities.EmbedField{
		{Name: "Utilisateur", Value: memberLabel(target), Inline: true},
		{Name: "Modérateur", Value: memberLabel(moderator), Inline: true},
	}
	if duration != "" {
		fields = append(fields, entities.EmbedField{Name: "Durée", Value: duration, Inline: true})
	}
	if reason != "" {
		fields = append(fields, entities.EmbedField{Name: "Raison", Value: reason})
	}
	return entities.EmbedSpec{
		Title:     title,
		Color:     color,
		Fields:    fields,
		Timestamp: &now,
	}
}

func sanctionLabel(kind entities.SanctionKind, timeout time.Duration) string {
	switch kind {
	case entities.SanctionTimeout:
		return "⏱️ Exclusion temporaire (" + utils.FormatRemaining(timeout) + ")"
	case entities.SanctionKick:
		return "👢 Expulsion"
	default:
		return ""
	}
}

func warnEmbed(target, moderator common.Member, outcome *interfaces.WarnOutcome, timeout time.Duration, now time.Time) entities.EmbedSpec {
	embed := sanctionEmbed("⚠️ Avertissement", common.ColorWarning, target, moderator, "", outcome.Record.Reason, now)
	embed.Fields = append(embed.Fields, entities.EmbedField{
		Name:   "Total",
		Value:  utils.FormatCount(int64(outcome.Count), "avertissement"),
		Inline: true,
	})
	if label := sanctionLabel(outcome.Sanction, timeout); label != "" {
		if outcome.SanctionErr != nil {
			label = "❌ " + label + " impossible"
		}
		embed.Fields = append(embed.Fields, entities.EmbedField{Name: "Sanction automatique", Value: label, Inline: true})
	}
	return embed
}

func warnsEmbed(target common.Member, records []entities.WarnRecord, now time.Time) entities.EmbedSpec {
	var b strings.Builder
	shown := records
	if len(shown) > maxListedWarns {
		shown = shown[len(shown)-maxListedWarns:]
	}
	for _, r := range shown {
		by := common.Mention(r.ModeratorID)
		if r.Automatic {
			by = "automatique"
		}
		fmt.Fprintf(&b, "**#%d** %s (%s, %s)\n", r.Seq, common.Truncate(r.Reason, 100), by, common.FormatDiscordTimestamp(r.CreatedAt, "R"))
	}
	return entities.EmbedSpec{
		Title:       "📋 Avertissements de " + memberLabel(target),
		Description: b.String(),
		Color:       common.ColorWarning,
		Footer:      "Total : " + utils.FormatCount(int64(len(records)), "avertissement"),
		Timestamp:   &now,
	}
}

// AutoSanctionNotice announces a threshold sanction in the channel of the
// warn that triggered it
func AutoSanctionNotice(e events.AutoSanctionEvent) entities.MessageSpec {
	label := sanctionLabel(entities.SanctionKind(e.Sanction), e.Duration)
	description := fmt.Sprintf("%s a atteint **%s**.\nSanction : %s",
		common.Mention(e.SubjectID), utils.FormatCount(int64(e.WarnCount), "avertissement"), label)
	if e.Failed {
		description += "\n❌ La sanction n'a pas pu être appliquée."
	}
	return entities.MessageSpec{Embeds: []entities.EmbedSpec{{
		Title:       "🚨 Sanction automatique",
		Description: description,
		Color:       common.ColorDanger,
	}}}
}

// SpamNotice tells the channel a member was muted for flooding
func SpamNotice(e events.SpamDetectedEvent) entities.MessageSpec {
	return entities.MessageSpec{Embeds: []entities.EmbedSpec{{
		Title: "🛑 Spam détecté",
		Description: fmt.Sprintf("%s a été rendu muet pendant **%s** pour spam.",
			common.Mention(e.UserID), utils.FormatRemaining(e.TimeoutDuration)),
		Color: common.ColorKick,
	}}}
}
