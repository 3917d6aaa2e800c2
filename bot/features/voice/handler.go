package voice

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"riobot/bot/common"
	"riobot/domain/entities"
	"riobot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const noChannelMessage = "❌ Tu n'as pas de salon vocal temporaire."

// HandleButton runs lock/unlock directly and opens a form for the others
func (f *Feature) HandleButton(ctx context.Context, in *common.Interaction) *common.Reply {
	owned, ok := f.voice.OwnedChannel(ctx, in.User.ID)
	if !ok {
		return common.Ephemeral(noChannelMessage)
	}

	switch in.Action.Kind {
	case common.ActionVoiceLock:
		return f.control(ctx, in, interfaces.VoiceControl{Op: interfaces.VoiceOpLock, ChannelID: owned.ChannelID, GuildID: owned.GuildID},
			"🔒 Ton salon est verrouillé.")
	case common.ActionVoiceUnlock:
		return f.control(ctx, in, interfaces.VoiceControl{Op: interfaces.VoiceOpUnlock, ChannelID: owned.ChannelID, GuildID: owned.GuildID},
			"🔓 Ton salon est déverrouillé.")
	}

	form, ok := forms[in.Action.Kind]
	if !ok {
		return common.ErrorReply(entities.ErrInvalidArgument)
	}
	return &common.Reply{Modal: form.modal(strconv.FormatInt(owned.ChannelID, 10))}
}

// HandleForm applies a submitted voice control form
func (f *Feature) HandleForm(ctx context.Context, in *common.Interaction) *common.Reply {
	channelID, err := in.Action.Int64Arg()
	if err != nil {
		return common.ErrorReply(err)
	}
	value := strings.TrimSpace(in.Values[FormValueField])
	c := interfaces.VoiceControl{ChannelID: channelID, GuildID: in.GuildID}

	var success string
	switch in.Action.Kind {
	case common.ActionVoiceLimitForm:
		limit, err := strconv.Atoi(value)
		if err != nil || limit < 0 || limit > entities.MaxVoiceUserLimit {
			return common.Ephemeral("❌ La limite doit être un nombre entre 0 et 99.")
		}
		c.Op, c.Limit = interfaces.VoiceOpLimit, limit
		success = fmt.Sprintf("👥 Limite fixée à **%d** membres.", limit)
		if limit == 0 {
			success = "👥 Limite retirée."
		}
	case common.ActionVoiceRenameForm:
		c.Op, c.Name = interfaces.VoiceOpRename, value
		success = fmt.Sprintf("✏️ Salon renommé en **%s**.", value)
	case common.ActionVoiceInviteForm, common.ActionVoiceKickForm:
		target, ok := common.ParseMention(value)
		if !ok {
			return common.Ephemeral("❌ Membre introuvable. Donne son ID ou sa mention.")
		}
		c.TargetID = target
		if in.Action.Kind == common.ActionVoiceInviteForm {
			c.Op = interfaces.VoiceOpInvite
			success = fmt.Sprintf("➕ %s peut maintenant rejoindre ton salon.", common.Mention(target))
		} else {
			c.Op = interfaces.VoiceOpKick
			success = fmt.Sprintf("👢 %s a été expulsé de ton salon.", common.Mention(target))
		}
	default:
		return common.ErrorReply(entities.ErrInvalidArgument)
	}
	return f.control(ctx, in, c, success)
}

func (f *Feature) control(ctx context.Context, in *common.Interaction, c interfaces.VoiceControl, success string) *common.Reply {
	c.ActorID = in.User.ID
	if err := f.voice.Control(ctx, c); err != nil {
		if !common.IsUserError(err) {
			log.WithError(err).WithFields(log.Fields{
				"channelId": c.ChannelID,
				"op":        c.Op,
				"userId":    in.User.ID,
			}).Error("Failed to apply voice control")
		}
		return common.ErrorReply(err)
	}
	return common.Ephemeral(success)
}

// ChannelDeleted forgets an ephemeral channel removed by hand
func (f *Feature) ChannelDeleted(ctx context.Context, channelID int64) error {
	return f.voice.Forget(ctx, channelID)
}

// StateChanged forwards a member's voice move to the channel lifecycle
func (f *Feature) StateChanged(ctx context.Context, t interfaces.VoiceTransition) {
	if err := f.voice.HandleTransition(ctx, t); err != nil {
		entry := log.WithError(err).WithFields(log.Fields{
			"guildId": t.GuildID,
			"userId":  t.UserID,
			"from":    t.FromChannelID,
			"to":      t.ToChannelID,
		})
		if entities.IsTransientPlatformError(err) {
			entry.Warn("Voice transition partially failed")
			return
		}
		entry.Error("Failed to handle voice transition")
	}
}
