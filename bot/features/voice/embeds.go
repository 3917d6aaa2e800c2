package voice

import (
	"riobot/bot/common"
	"riobot/domain/entities"
)

// FormValueField is the single input of every voice control form
const FormValueField = "value"

type control struct {
	action common.ActionKind
	label  string
	emoji  string
	style  entities.ButtonStyle
}

var controls = []control{
	{common.ActionVoiceLock, "Verrouiller", "🔒", entities.ButtonSecondary},
	{common.ActionVoiceUnlock, "Déverrouiller", "🔓", entities.ButtonSecondary},
	{common.ActionVoiceLimit, "Limite", "👥", entities.ButtonPrimary},
	{common.ActionVoiceRename, "Renommer", "✏️", entities.ButtonPrimary},
	{common.ActionVoiceInvite, "Inviter", "➕", entities.ButtonSuccess},
	{common.ActionVoiceKick, "Expulser", "👢", entities.ButtonDanger},
}

// PanelContent is the voice control panel
func PanelContent(spawnerChannelID int64) entities.MessageSpec {
	description := "Gère ton salon vocal temporaire avec les boutons ci-dessous."
	if spawnerChannelID != 0 {
		description = "Rejoins " + common.ChannelMention(spawnerChannelID) +
			" pour créer ton salon vocal, puis gère-le avec les boutons ci-dessous."
	}
	msg := entities.MessageSpec{
		Embeds: []entities.EmbedSpec{{
			Title:       "🔊 Salons vocaux temporaires",
			Description: description,
			Color:       common.ColorPrimary,
		}},
	}
	for _, c := range controls {
		msg.Buttons = append(msg.Buttons, entities.ButtonSpec{
			Label:    c.label,
			Emoji:    c.emoji,
			Style:    c.style,
			CustomID: common.Action{Kind: c.action}.CustomID(),
		})
	}
	return msg
}

type form struct {
	submit      common.ActionKind
	title       string
	label       string
	placeholder string
	maxLength   int
}

var forms = map[common.ActionKind]form{
	common.ActionVoiceLimit:  {common.ActionVoiceLimitForm, "Limite de membres", "Nombre maximum (0 = illimité)", "0-99", 2},
	common.ActionVoiceRename: {common.ActionVoiceRenameForm, "Renommer le salon", "Nouveau nom", "Mon salon", 100},
	common.ActionVoiceInvite: {common.ActionVoiceInviteForm, "Inviter un membre", "ID ou mention du membre", "123456789012345678", 32},
	common.ActionVoiceKick:   {common.ActionVoiceKickForm, "Expulser un membre", "ID ou mention du membre", "123456789012345678", 32},
}

func (f form) modal(channelID string) *common.Modal {
	return &common.Modal{
		Action: common.Action{Kind: f.submit, Arg: channelID},
		Title:  f.title,
		Fields: []common.ModalField{{
			CustomID:    FormValueField,
			Label:       f.label,
			Placeholder: f.placeholder,
			MinLength:   1,
			MaxLength:   f.maxLength,
		}},
	}
}
