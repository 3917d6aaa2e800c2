package bot

import (
	"context"

	"riobot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleInteractions routes button presses and modal submissions
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var customID string
	var values map[string]string

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		customID = i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		customID = data.CustomID
		values = common.ModalValues(data)
	default:
		return
	}

	action, err := common.ParseAction(customID)
	if err != nil {
		log.WithField("customId", customID).Debug("Ignoring unknown component")
		return
	}

	in := toInteraction(i, action, values)
	ctx := context.Background()
	reply := b.routeInteraction(ctx, in)
	b.deliverInteractionReply(ctx, s, i, reply)
}

// routeInteraction dispatches a decoded action to its feature
func (b *Bot) routeInteraction(ctx context.Context, in *common.Interaction) *common.Reply {
	switch in.Action.Kind {
	case common.ActionWelcomeClaim:
		return b.welcome.HandleClaim(ctx, in)
	case common.ActionTicketOpen:
		return b.tickets.HandleOpen(ctx, in)
	case common.ActionTicketClaim:
		return b.tickets.HandleClaim(ctx, in)
	case common.ActionTicketClose:
		return b.tickets.HandleClose(ctx, in)
	case common.ActionVoiceLock, common.ActionVoiceUnlock, common.ActionVoiceLimit,
		common.ActionVoiceRename, common.ActionVoiceInvite, common.ActionVoiceKick:
		return b.voice.HandleButton(ctx, in)
	case common.ActionVoiceLimitForm, common.ActionVoiceRenameForm,
		common.ActionVoiceInviteForm, common.ActionVoiceKickForm:
		return b.voice.HandleForm(ctx, in)
	}
	return nil
}

// toInteraction converts the gateway payload
func toInteraction(i *discordgo.InteractionCreate, action common.Action, values map[string]string) *common.Interaction {
	in := &common.Interaction{
		GuildID:   common.ParseID(i.GuildID),
		ChannelID: common.ParseID(i.ChannelID),
		Action:    action,
		Values:    values,
	}
	if i.Message != nil {
		in.MessageID = common.ParseID(i.Message.ID)
	}
	if i.Member != nil {
		in.User = toMember(i.Member.User, i.Member)
		in.RoleIDs = roleIDs(i.Member)
		in.Permissions = i.Member.Permissions
	} else {
		in.User = toMember(i.User, nil)
	}
	return in
}

// deliverInteractionReply answers an interaction according to the reply kind
func (b *Bot) deliverInteractionReply(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, reply *common.Reply) {
	if reply == nil || reply.Silent {
		return
	}
	logger := log.WithField("interactionId", i.ID)

	switch {
	case reply.Modal != nil:
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseModal,
			Data: common.ToModalData(reply.Modal),
		}, discordgo.WithContext(ctx)); err != nil {
			logger.WithError(err).Error("Failed to open modal")
		}
		return

	case reply.Update && i.Message != nil:
		// Acknowledge first, then edit only the parts the reply sets
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		}, discordgo.WithContext(ctx)); err != nil {
			logger.WithError(err).Error("Failed to acknowledge update")
			return
		}
		if _, err := s.ChannelMessageEditComplex(updateEdit(i.ChannelID, i.Message.ID, reply), discordgo.WithContext(ctx)); err != nil {
			logger.WithError(err).Warn("Failed to update message")
		}

	default:
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: common.ToResponseData(reply.Message, reply.Ephemeral),
		}, discordgo.WithContext(ctx)); err != nil {
			logger.WithError(err).Error("Failed to respond to interaction")
			return
		}
	}

	if reply.FollowUp != nil {
		params := &discordgo.WebhookParams{
			Content:    reply.FollowUp.Content,
			Embeds:     common.ToEmbeds(reply.FollowUp.Embeds),
			Components: common.ToComponents(reply.FollowUp.Buttons),
		}
		if _, err := s.FollowupMessageCreate(i.Interaction, true, params, discordgo.WithContext(ctx)); err != nil {
			logger.WithError(err).Error("Failed to send follow-up")
		}
	}
}

// updateEdit builds an edit of the pressed message that leaves untouched
// whatever the reply does not set
func updateEdit(channelID, messageID string, reply *common.Reply) *discordgo.MessageEdit {
	edit := discordgo.NewMessageEdit(channelID, messageID)
	msg := reply.Message
	if msg.Content != "" {
		edit.SetContent(msg.Content)
	}
	if len(msg.Embeds) > 0 {
		edit.SetEmbeds(common.ToEmbeds(msg.Embeds))
	}
	if len(msg.Buttons) > 0 || msg.ClearComponents {
		components := common.ToComponents(msg.Buttons)
		if components == nil {
			components = []discordgo.MessageComponent{}
		}
		edit.Components = &components
	}
	return edit
}
