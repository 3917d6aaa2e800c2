package application

import (
	"context"
	"fmt"

	"riobot/config"
	"riobot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// BumpReminderWorker posts the periodic bump reminder
type BumpReminderWorker struct {
	cfg       *config.Config
	platform  interfaces.Platform
	presenter BumpPresenter
}

// NewBumpReminderWorker creates the bump reminder worker
func NewBumpReminderWorker(cfg *config.Config, platform interfaces.Platform, presenter BumpPresenter) *BumpReminderWorker {
	return &BumpReminderWorker{cfg: cfg, platform: platform, presenter: presenter}
}

// Start posts a reminder every BumpInterval
func (w *BumpReminderWorker) Start(ctx context.Context) func() {
	if w.cfg.BumpChannelID == 0 || w.cfg.BumpInterval <= 0 {
		log.Info("Bump reminder disabled")
		return func() {}
	}
	return startPeriodic(ctx, "bump_reminder", w.cfg.BumpInterval, false, func(ctx context.Context) {
		if err := w.Remind(ctx); err != nil {
			log.WithError(err).Warn("Failed to post bump reminder")
		}
	})
}

// Remind posts one reminder
func (w *BumpReminderWorker) Remind(ctx context.Context) error {
	if _, err := w.platform.SendMessage(ctx, w.cfg.BumpChannelID, w.presenter.BumpReminder()); err != nil {
		return fmt.Errorf("failed to send bump reminder: %w", err)
	}
	log.WithField("channelId", w.cfg.BumpChannelID).Debug("Bump reminder posted")
	return nil
}
