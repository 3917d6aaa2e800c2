package bot

import (
	"context"

	"riobot/bot/features/moderation"
	"riobot/domain/entities"
	"riobot/events"

	log "github.com/sirupsen/logrus"
)

// registerSubscriptions posts moderation notices raised outside a command
func (b *Bot) registerSubscriptions(bus *events.Bus) {
	bus.Subscribe(events.EventTypeSpamDetected, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.SpamDetectedEvent)
		if !ok {
			return
		}
		b.notify(ctx, e.ChannelID, moderation.SpamNotice(e), "spam")
	})

	bus.Subscribe(events.EventTypeAutoSanction, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.AutoSanctionEvent)
		// command warns report their sanction in the reply
		if !ok || !e.Automatic {
			return
		}
		b.notify(ctx, e.ChannelID, moderation.AutoSanctionNotice(e), "auto_sanction")
	})

	log.Info("Bot event subscriptions registered successfully")
}

func (b *Bot) notify(ctx context.Context, channelID int64, msg entities.MessageSpec, kind string) {
	if channelID == 0 {
		return
	}
	if _, err := b.platform.SendMessage(ctx, channelID, msg); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"channelId": channelID,
			"notice":    kind,
		}).Warn("Failed to post moderation notice")
	}
}
