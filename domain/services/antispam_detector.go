package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/events"

	log "github.com/sirupsen/logrus"
)

// windowSweepSize triggers a sweep of idle windows once this many users are tracked
const windowSweepSize = 1000

type spamHit struct {
	at        time.Time
	channelID int64
	messageID int64
}

type antiSpamDetector struct {
	window     time.Duration
	threshold  int
	timeout    time.Duration
	platform   interfaces.Platform
	moderation interfaces.ModerationEscalation
	publisher  interfaces.EventPublisher

	mu      sync.Mutex
	windows map[int64][]spamHit
}

// NewAntiSpamDetector creates the sliding-window burst detector. Windows are
// kept in memory only.
func NewAntiSpamDetector(cfg *config.Config, platform interfaces.Platform, moderation interfaces.ModerationEscalation, publisher interfaces.EventPublisher) interfaces.AntiSpamDetector {
	return &antiSpamDetector{
		window:     cfg.SpamWindow,
		threshold:  cfg.SpamThreshold,
		timeout:    cfg.SpamTimeout,
		platform:   platform,
		moderation: moderation,
		publisher:  publisher,
		windows:    make(map[int64][]spamHit),
	}
}

func (d *antiSpamDetector) prune(hits []spamHit, now time.Time) []spamHit {
	cutoff := now.Add(-d.window)
	kept := hits[:0]
	for _, h := range hits {
		if h.at.After(cutoff) {
			kept = append(kept, h)
		}
	}
	return kept
}

// record adds the activity and returns the window contents when it exceeds
// the threshold, clearing the window in that case
func (d *antiSpamDetector) record(a interfaces.Activity) []spamHit {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.windows) >= windowSweepSize {
		for id, hits := range d.windows {
			if kept := d.prune(hits, a.At); len(kept) == 0 {
				delete(d.windows, id)
			} else {
				d.windows[id] = kept
			}
		}
	}

	hits := append(d.prune(d.windows[a.UserID], a.At), spamHit{at: a.At, channelID: a.ChannelID, messageID: a.MessageID})
	if len(hits) <= d.threshold {
		d.windows[a.UserID] = hits
		return nil
	}
	delete(d.windows, a.UserID)
	return hits
}

// Observe feeds one message into the user's window and punishes a burst
func (d *antiSpamDetector) Observe(ctx context.Context, a interfaces.Activity) (bool, error) {
	if a.Exempt {
		return false, nil
	}
	hits := d.record(a)
	if hits == nil {
		return false, nil
	}

	log.WithFields(log.Fields{
		"userId":    a.UserID,
		"channelId": a.ChannelID,
		"messages":  len(hits),
	}).Warn("Spam detected")

	var errs []error
	var ids []int64
	for _, h := range hits {
		if h.channelID == a.ChannelID && h.messageID != 0 {
			ids = append(ids, h.messageID)
		}
	}
	deleted := 0
	if len(ids) > 0 {
		if err := d.platform.BulkDeleteMessages(ctx, a.ChannelID, ids); err != nil && !errors.Is(err, entities.ErrNotFound) {
			errs = append(errs, fmt.Errorf("failed to delete spam messages: %w", err))
		} else {
			deleted = len(ids)
		}
	}

	until := a.At.Add(d.timeout)
	if err := d.platform.SetMemberTimeout(ctx, a.GuildID, a.UserID, &until, "Spam détecté"); err != nil {
		errs = append(errs, fmt.Errorf("failed to time out spammer: %w", err))
	}

	if _, err := d.moderation.AddWarn(ctx, interfaces.WarnInput{
		GuildID:     a.GuildID,
		ChannelID:   a.ChannelID,
		SubjectID:   a.UserID,
		ModeratorID: d.platform.SelfID(),
		Reason:      "Spam automatique",
		Automatic:   true,
		At:          a.At,
	}); err != nil {
		errs = append(errs, err)
	}

	if d.publisher != nil {
		if err := d.publisher.Publish(events.SpamDetectedEvent{
			GuildID:         a.GuildID,
			ChannelID:       a.ChannelID,
			UserID:          a.UserID,
			MessageCount:    len(hits),
			DeletedMessages: deleted,
			TimeoutDuration: d.timeout,
		}); err != nil {
			log.WithError(err).Warn("Failed to publish spam event")
		}
	}
	return true, errors.Join(errs...)
}
