package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"riobot/bot/common"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/domain/utils"
)

const leaderboardImageName = "leaderboard.png"

func profileEmbed(name, avatarURL string, account *entities.UserAccount, now time.Time) entities.EmbedSpec {
	progress := entities.LevelOf(account.XP)
	embed := entities.EmbedSpec{
		Title:        fmt.Sprintf("📊 Profil de %s", name),
		Color:        common.ColorInfo,
		ThumbnailURL: avatarURL,
		Fields: []entities.EmbedField{
			{Name: "📈 Niveau", Value: fmt.Sprintf("%d", progress.Level), Inline: true},
			{Name: "💰 Rios", Value: utils.FormatRios(account.Currency), Inline: true},
			{Name: "⭐ XP Total", Value: fmt.Sprintf("%d", account.XP), Inline: true},
			{
				Name: "📊 Progression",
				Value: fmt.Sprintf("%s %d/%d XP",
					utils.ProgressBar(progress.XPIntoCurrentLevel, progress.XPRequiredForCurrentLevel, 10),
					progress.XPIntoCurrentLevel, progress.XPRequiredForCurrentLevel),
			},
			{Name: "🎙️ Temps vocal", Value: utils.FormatCount(account.VoiceMinutesTotal, "minute"), Inline: true},
		},
		Timestamp: &now,
	}

	if len(account.Inventory) > 0 {
		var items []string
		for _, item := range entities.ShopCatalog {
			if account.Inventory[item.ID] {
				items = append(items, item.Name)
			}
		}
		if len(items) > 0 {
			embed.Fields = append(embed.Fields, entities.EmbedField{Name: "🎒 Inventaire", Value: strings.Join(items, ", ")})
		}
	}
	return embed
}

func leaderboardDescription(entries []interfaces.LeaderboardEntry, names map[int64]string) string {
	if len(entries) == 0 {
		return "Aucun membre dans le classement."
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s **%s** - Niveau %d (%d XP) - %s\n",
			common.Medal(e.Rank), names[e.UserID], e.Level, e.XP, utils.FormatRios(e.Currency))
	}
	return b.String()
}

func leaderboardEmbed(entries []interfaces.LeaderboardEntry, names map[int64]string, now time.Time) entities.EmbedSpec {
	return entities.EmbedSpec{
		Title:       "🏆 Classement des membres",
		Color:       common.ColorGold,
		Description: leaderboardDescription(entries, names),
		Timestamp:   &now,
	}
}

type helpEntry struct {
	usage       string
	description string
	permission  int64
	ownerOnly   bool
}

var helpEntries = []helpEntry{
	{usage: "!profil / !stats", description: "Voir ton profil et tes statistiques"},
	{usage: "!leaderboard / !top", description: "Voir le classement des membres"},
	{usage: "!daily", description: "Récupérer ta récompense quotidienne"},
	{usage: "!work", description: "Travailler pour gagner des rios (toutes les heures)"},
	{usage: "!pay @user <montant>", description: "Donner des rios à un membre"},
	{usage: "!shop / !buy <objet>", description: "Voir et acheter les objets de la boutique"},
	{usage: "!help / !aide", description: "Afficher ce message d'aide"},
	{usage: "!ban @user [raison]", description: "Bannir un membre", permission: entities.PermBanMembers},
	{usage: "!kick @user [raison]", description: "Expulser un membre", permission: entities.PermKickMembers},
	{usage: "!mute @user [raison]", description: "Mute un membre (permanent)", permission: entities.PermModerateMembers},
	{usage: "!tempmute @user <durée> [raison]", description: "Mute temporaire (ex: 10m, 2h, 1d)", permission: entities.PermModerateMembers},
	{usage: "!unmute @user", description: "Démute un membre", permission: entities.PermModerateMembers},
	{usage: "!warn @user [raison]", description: "Avertir un membre", permission: entities.PermModerateMembers},
	{usage: "!warns @user", description: "Voir les avertissements d'un membre", permission: entities.PermModerateMembers},
	{usage: "!clearwarns @user", description: "Effacer les avertissements d'un membre", permission: entities.PermModerateMembers},
	{usage: "!say <message>", description: "(Owner) Envoyer un message avec le bot", ownerOnly: true},
	{usage: "!sayembed <message>", description: "(Owner) Envoyer un embed avec le bot", ownerOnly: true},
}

func helpEmbed(permissions int64, isOwner bool, now time.Time) entities.EmbedSpec {
	embed := entities.EmbedSpec{
		Title:       "📚 Commandes disponibles",
		Description: "Voici la liste des commandes du bot :",
		Color:       common.ColorPrimary,
		Footer:      "Gagne de l'XP en envoyant des messages !",
		Timestamp:   &now,
	}
	for _, h := range helpEntries {
		if h.ownerOnly && !isOwner {
			continue
		}
		if h.permission != 0 && permissions&h.permission != h.permission {
			continue
		}
		embed.Fields = append(embed.Fields, entities.EmbedField{Name: h.usage, Value: h.description})
	}
	return embed
}

// resolveNames looks every ranked member up once
func (f *Feature) resolveNames(ctx context.Context, guildID int64, entries []interfaces.LeaderboardEntry) map[int64]string {
	names := make(map[int64]string, len(entries))
	for _, e := range entries {
		if _, ok := names[e.UserID]; !ok {
			names[e.UserID] = f.names.DisplayName(ctx, guildID, e.UserID)
		}
	}
	return names
}
