package common

import (
	"bytes"
	"strconv"
	"time"

	"riobot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// ToEmbed converts an embed spec into the platform form
func ToEmbed(e entities.EmbedSpec) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if e.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.ThumbnailURL}
	}
	if e.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
	}
	if e.Timestamp != nil {
		embed.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return embed
}

// ToEmbeds converts every embed of a message
func ToEmbeds(specs []entities.EmbedSpec) []*discordgo.MessageEmbed {
	embeds := make([]*discordgo.MessageEmbed, 0, len(specs))
	for _, e := range specs {
		embeds = append(embeds, ToEmbed(e))
	}
	return embeds
}

func buttonStyle(s entities.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case entities.ButtonSecondary:
		return discordgo.SecondaryButton
	case entities.ButtonSuccess:
		return discordgo.SuccessButton
	case entities.ButtonDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

// ToComponents lays buttons out in rows of five
func ToComponents(buttons []entities.ButtonSpec) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for start := 0; start < len(buttons) && len(rows) < MaxActionRows; start += MaxButtonsPerRow {
		end := min(start+MaxButtonsPerRow, len(buttons))
		row := discordgo.ActionsRow{}
		for _, b := range buttons[start:end] {
			btn := discordgo.Button{
				Label:    b.Label,
				Style:    buttonStyle(b.Style),
				CustomID: b.CustomID,
				Disabled: b.Disabled,
			}
			if b.Emoji != "" {
				btn.Emoji = &discordgo.ComponentEmoji{Name: b.Emoji}
			}
			row.Components = append(row.Components, btn)
		}
		rows = append(rows, row)
	}
	return rows
}

// ToFiles converts attachments
func ToFiles(specs []entities.FileSpec) []*discordgo.File {
	files := make([]*discordgo.File, 0, len(specs))
	for _, f := range specs {
		files = append(files, &discordgo.File{
			Name:        f.Name,
			ContentType: f.ContentType,
			Reader:      bytes.NewReader(f.Data),
		})
	}
	return files
}

// ToMessageSend builds a new message
func ToMessageSend(channelID int64, spec entities.MessageSpec) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content:    spec.Content,
		Embeds:     ToEmbeds(spec.Embeds),
		Components: ToComponents(spec.Buttons),
		Files:      ToFiles(spec.Files),
	}
	if spec.ReplyTo != 0 {
		send.Reference = &discordgo.MessageReference{
			MessageID: strconv.FormatInt(spec.ReplyTo, 10),
			ChannelID: strconv.FormatInt(channelID, 10),
		}
	}
	return send
}

// ToMessageEdit builds an edit replacing content, embeds and buttons
func ToMessageEdit(channelID, messageID int64, spec entities.MessageSpec) *discordgo.MessageEdit {
	edit := discordgo.NewMessageEdit(strconv.FormatInt(channelID, 10), strconv.FormatInt(messageID, 10))
	edit.SetContent(spec.Content)

	embeds := ToEmbeds(spec.Embeds)
	edit.Embeds = &embeds

	if len(spec.Buttons) > 0 || spec.ClearComponents {
		components := ToComponents(spec.Buttons)
		if components == nil {
			components = []discordgo.MessageComponent{}
		}
		edit.Components = &components
	}
	if len(spec.Files) > 0 {
		edit.Files = ToFiles(spec.Files)
		attachments := []*discordgo.MessageAttachment{}
		edit.Attachments = &attachments
	}
	return edit
}

// ToResponseData builds the body of an interaction response
func ToResponseData(spec entities.MessageSpec, ephemeral bool) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content:    spec.Content,
		Embeds:     ToEmbeds(spec.Embeds),
		Components: ToComponents(spec.Buttons),
		Files:      ToFiles(spec.Files),
	}
	if spec.ClearComponents && data.Components == nil {
		data.Components = []discordgo.MessageComponent{}
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}

// ToModalData builds the body of a modal response
func ToModalData(m *Modal) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		CustomID: m.Action.CustomID(),
		Title:    m.Title,
	}
	for _, f := range m.Fields {
		data.Components = append(data.Components, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    f.CustomID,
					Label:       f.Label,
					Style:       discordgo.TextInputShort,
					Placeholder: f.Placeholder,
					Required:    true,
					MinLength:   f.MinLength,
					MaxLength:   f.MaxLength,
				},
			},
		})
	}
	return data
}

// ModalValues flattens the text inputs of a submitted modal
func ModalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, row := range data.Components {
		actions, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range actions.Components {
			if input, ok := c.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

// ParseID converts a snowflake, returning 0 when empty or malformed
func ParseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// FormatID converts an id back into a snowflake string
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
