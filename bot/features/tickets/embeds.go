package tickets

import (
	"fmt"
	"time"

	"riobot/bot/common"
	"riobot/domain/entities"
)

type categoryInfo struct {
	label       string
	emoji       string
	description string
}

var categories = map[entities.TicketCategory]categoryInfo{
	entities.TicketCategorySupport:     {"Support", "🛠️", "Besoin d'aide"},
	entities.TicketCategoryReport:      {"Signalement", "🚨", "Signaler un membre ou un problème"},
	entities.TicketCategoryPartnership: {"Partenariat", "🤝", "Proposer un partenariat"},
	entities.TicketCategoryOther:       {"Autre", "❓", "Toute autre demande"},
}

func categoryLabel(c entities.TicketCategory) string {
	if info, ok := categories[c]; ok {
		return info.emoji + " " + info.label
	}
	return string(c)
}

// PanelContent is the ticket intake panel: one button per category
func PanelContent() entities.MessageSpec {
	embed := entities.EmbedSpec{
		Title:       "🎫 Support",
		Description: "Clique sur un bouton ci-dessous pour ouvrir un ticket privé avec le staff.",
		Color:       common.ColorPrimary,
	}
	msg := entities.MessageSpec{}
	for _, c := range entities.TicketCategories {
		info := categories[c]
		embed.Fields = append(embed.Fields, entities.EmbedField{
			Name:  info.emoji + " " + info.label,
			Value: info.description,
		})
		msg.Buttons = append(msg.Buttons, entities.ButtonSpec{
			Label:    info.label,
			Emoji:    info.emoji,
			Style:    entities.ButtonPrimary,
			CustomID: common.TicketOpenAction(c).CustomID(),
		})
	}
	msg.Embeds = []entities.EmbedSpec{embed}
	return msg
}

func ticketWelcome(t *entities.SupportTicket, staffRoleID int64, now time.Time) entities.MessageSpec {
	content := common.Mention(t.RequesterID)
	if staffRoleID != 0 {
		content += fmt.Sprintf(" <@&%d>", staffRoleID)
	}
	return entities.MessageSpec{
		Content: content,
		Embeds: []entities.EmbedSpec{{
			Title:       fmt.Sprintf("🎫 Ticket %s", categoryLabel(t.Category)),
			Description: fmt.Sprintf("Bonjour %s ! Explique ta demande, un membre du staff va te répondre.", common.Mention(t.RequesterID)),
			Color:       common.ColorInfo,
			Timestamp:   &now,
		}},
		Buttons: []entities.ButtonSpec{
			{Label: "Prendre en charge", Emoji: "🙋", Style: entities.ButtonSuccess, CustomID: common.Action{Kind: common.ActionTicketClaim}.CustomID()},
			{Label: "Fermer", Emoji: "🔒", Style: entities.ButtonDanger, CustomID: common.Action{Kind: common.ActionTicketClose}.CustomID()},
		},
	}
}
