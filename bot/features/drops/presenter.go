package drops

import (
	"fmt"
	"time"

	"riobot/bot/common"
	"riobot/domain/entities"
	"riobot/domain/utils"
)

// DropAnnouncement is the message members react to
func (f *Feature) DropAnnouncement(amount int64, expiresAt time.Time) entities.MessageSpec {
	return entities.MessageSpec{Embeds: []entities.EmbedSpec{{
		Title: "💰 Drop de rios !",
		Description: fmt.Sprintf("Le premier à réagir avec %s remporte **%s** !\nFin %s",
			DropEmoji, utils.FormatRios(amount), common.FormatDiscordTimestamp(expiresAt, "R")),
		Color: common.ColorGold,
	}}}
}

// DropExpired replaces the announcement when nobody claimed it
func (f *Feature) DropExpired(drop *entities.CurrencyDrop) entities.MessageSpec {
	return entities.MessageSpec{Embeds: []entities.EmbedSpec{{
		Title:       "⌛ Drop expiré",
		Description: fmt.Sprintf("Personne n'a récupéré les **%s**.", utils.FormatRios(drop.Amount)),
		Color:       common.ColorDanger,
	}}}
}

func dropClaimed(claimantID, amount int64) entities.MessageSpec {
	return entities.MessageSpec{Embeds: []entities.EmbedSpec{{
		Title:       "🎉 Drop récupéré !",
		Description: fmt.Sprintf("%s a récupéré **%s** !", common.Mention(claimantID), utils.FormatRios(amount)),
		Color:       common.ColorSuccess,
	}}}
}
