package tickets

import (
	"context"
	"fmt"

	"riobot/bot/common"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/domain/utils"

	log "github.com/sirupsen/logrus"
)

func (f *Feature) actor(in *common.Interaction) interfaces.TicketActor {
	return interfaces.TicketActor{
		UserID:       in.User.ID,
		IsStaff:      f.config.IsStaff(in.RoleIDs),
		HasOwnerRole: f.config.HasOwnerRole(in.RoleIDs),
	}
}

// HandleOpen opens a ticket for the category on the pressed panel button
func (f *Feature) HandleOpen(ctx context.Context, in *common.Interaction) *common.Reply {
	category := entities.TicketCategory(in.Action.Arg)
	ticket, err := f.tickets.Open(ctx, interfaces.OpenTicketRequest{
		GuildID:       in.GuildID,
		RequesterID:   in.User.ID,
		RequesterName: in.User.Name,
		Category:      category,
	})
	if err != nil {
		if !common.IsUserError(err) {
			log.WithError(err).WithFields(log.Fields{
				"userId":   in.User.ID,
				"category": category,
			}).Error("Failed to open ticket")
		}
		return common.ErrorReply(err)
	}

	if _, err := f.platform.SendMessage(ctx, ticket.ChannelID, ticketWelcome(ticket, f.config.StaffRoleID, f.now())); err != nil {
		log.WithError(err).WithField("channelId", ticket.ChannelID).Warn("Failed to post ticket welcome message")
	}

	log.WithFields(log.Fields{
		"channelId": ticket.ChannelID,
		"userId":    in.User.ID,
		"category":  category,
	}).Info("Ticket opened")
	return common.Ephemeral(fmt.Sprintf("✅ Ton ticket a été créé : %s", common.ChannelMention(ticket.ChannelID)))
}

// HandleClaim assigns the ticket of the current channel to the presser
func (f *Feature) HandleClaim(ctx context.Context, in *common.Interaction) *common.Reply {
	if _, err := f.tickets.Claim(ctx, in.ChannelID, f.actor(in)); err != nil {
		if !common.IsUserError(err) {
			log.WithError(err).WithField("channelId", in.ChannelID).Error("Failed to claim ticket")
		}
		return common.ErrorReply(err)
	}
	return common.Text(fmt.Sprintf("🙋 %s a pris en charge ce ticket.", common.Mention(in.User.ID)))
}

// HandleClose starts the closing grace delay of the current ticket
func (f *Feature) HandleClose(ctx context.Context, in *common.Interaction) *common.Reply {
	if _, err := f.tickets.RequestClose(ctx, in.ChannelID, f.actor(in)); err != nil {
		if !common.IsUserError(err) {
			log.WithError(err).WithField("channelId", in.ChannelID).Error("Failed to close ticket")
		}
		return common.ErrorReply(err)
	}
	return common.Text(fmt.Sprintf("🔒 Ticket fermé par %s. Suppression dans **%s**.",
		common.Mention(in.User.ID), utils.FormatRemaining(f.config.TicketCloseDelay)))
}

// ChannelDeleted forgets a ticket whose channel was removed by hand
func (f *Feature) ChannelDeleted(ctx context.Context, channelID int64) error {
	return f.tickets.Forget(ctx, channelID)
}
