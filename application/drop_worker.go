package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// DropWorker posts currency drops in the games channel and expires them
type DropWorker struct {
	cfg       *config.Config
	platform  interfaces.Platform
	registry  interfaces.ClaimRegistry
	store     interfaces.StateStore
	scheduler interfaces.TaskScheduler
	presenter DropPresenter
	guilds    GuildSource

	now    func() time.Time
	amount func(lo, hi int64) int64
}

// NewDropWorker creates the currency drop worker
func NewDropWorker(
	cfg *config.Config,
	platform interfaces.Platform,
	registry interfaces.ClaimRegistry,
	store interfaces.StateStore,
	scheduler interfaces.TaskScheduler,
	presenter DropPresenter,
	guilds GuildSource,
) *DropWorker {
	return &DropWorker{
		cfg:       cfg,
		platform:  platform,
		registry:  registry,
		store:     store,
		scheduler: scheduler,
		presenter: presenter,
		guilds:    guilds,
		now:       time.Now,
		amount: func(lo, hi int64) int64 {
			return lo + rand.Int64N(hi-lo+1)
		},
	}
}

// Start posts a drop every DropInterval. A zero interval disables drops.
func (w *DropWorker) Start(ctx context.Context) func() {
	if w.cfg.DropInterval <= 0 || w.cfg.GamesChannelID == 0 {
		log.Info("Currency drops disabled")
		return func() {}
	}
	return startPeriodic(ctx, "drops", w.cfg.DropInterval, false, func(ctx context.Context) {
		for _, guildID := range w.guilds.GuildIDs() {
			if _, err := w.PostDrop(ctx, guildID); err != nil {
				log.WithError(err).WithField("guildId", guildID).Warn("Failed to post drop")
			}
		}
	})
}

// PostDrop announces a new drop and schedules its expiry
func (w *DropWorker) PostDrop(ctx context.Context, guildID int64) (*entities.CurrencyDrop, error) {
	now := w.now()
	amount := w.amount(w.cfg.DropMin, w.cfg.DropMax)
	expiresAt := now.Add(w.cfg.DropTTL)

	messageID, err := w.platform.SendMessage(ctx, w.cfg.GamesChannelID, w.presenter.DropAnnouncement(amount, expiresAt))
	if err != nil {
		return nil, fmt.Errorf("failed to announce drop: %w", err)
	}

	drop := entities.CurrencyDrop{
		MessageID: messageID,
		ChannelID: w.cfg.GamesChannelID,
		GuildID:   guildID,
		Amount:    amount,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := w.registry.StartDrop(ctx, drop); err != nil {
		if delErr := w.platform.DeleteMessage(ctx, drop.ChannelID, messageID); delErr != nil {
			log.WithError(delErr).Warn("Failed to delete unregistered drop message")
		}
		return nil, err
	}
	w.scheduleExpiry(drop.MessageID, w.cfg.DropTTL)

	log.WithFields(log.Fields{
		"guildId":   guildID,
		"messageId": messageID,
		"amount":    amount,
	}).Info("Currency drop posted")
	return &drop, nil
}

func (w *DropWorker) scheduleExpiry(messageID int64, delay time.Duration) {
	w.scheduler.Schedule(fmt.Sprintf("drop-expire:%d", messageID), delay, func(ctx context.Context) {
		if err := w.Expire(ctx, messageID); err != nil {
			log.WithError(err).WithField("messageId", messageID).Warn("Failed to expire drop")
		}
	})
}

// Expire closes the drop if nobody claimed it and marks the announcement
func (w *DropWorker) Expire(ctx context.Context, messageID int64) error {
	drop, err := w.registry.ExpireDrop(ctx, messageID, w.now())
	if errors.Is(err, entities.ErrNotFound) || errors.Is(err, entities.ErrAlreadyClaimed) {
		return nil
	}
	if err != nil {
		return err
	}

	err = w.platform.EditMessage(ctx, drop.ChannelID, drop.MessageID, w.presenter.DropExpired(drop))
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return fmt.Errorf("failed to mark drop expired: %w", err)
	}
	return nil
}

// ResumePending schedules expiry of drops left open by a restart
func (w *DropWorker) ResumePending(ctx context.Context) error {
	var drops []*entities.CurrencyDrop
	err := w.store.View(ctx, func(v interfaces.StateView) error {
		drops = v.Drops()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to list drops: %w", err)
	}

	now := w.now()
	for _, d := range drops {
		delay := d.ExpiresAt.Sub(now)
		if delay < 0 {
			delay = 0
		}
		w.scheduleExpiry(d.MessageID, delay)
	}
	if len(drops) > 0 {
		log.WithField("count", len(drops)).Info("Resumed pending drops")
	}
	return nil
}
