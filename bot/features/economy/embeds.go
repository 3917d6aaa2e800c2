package economy

import (
	"fmt"
	"time"

	"riobot/bot/common"
	"riobot/domain/entities"
	"riobot/domain/utils"
)

func levelUpEmbed(m common.Member, level int, reward int64, now time.Time) entities.EmbedSpec {
	return entities.EmbedSpec{
		Title:        "🎊 Niveau supérieur !",
		Description:  fmt.Sprintf("Félicitations %s ! Tu es maintenant **niveau %d** !", common.Mention(m.ID), level),
		Color:        common.ColorGold,
		Fields:       []entities.EmbedField{{Name: "🎁 Récompense", Value: fmt.Sprintf("+%d rios", reward)}},
		ThumbnailURL: m.AvatarURL,
		Timestamp:    &now,
	}
}

func shopEmbed(now time.Time) entities.EmbedSpec {
	embed := entities.EmbedSpec{
		Title:       "🛒 Boutique",
		Description: "Achète un objet avec `!buy <objet>`",
		Color:       common.ColorPrimary,
		Timestamp:   &now,
	}
	for _, item := range entities.ShopCatalog {
		embed.Fields = append(embed.Fields, entities.EmbedField{
			Name:  fmt.Sprintf("%s (%s)", item.Name, utils.FormatRios(item.Price)),
			Value: fmt.Sprintf("%s\n`!buy %s`", item.Description, item.ID),
		})
	}
	return embed
}
