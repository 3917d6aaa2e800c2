package application

import (
	"context"
	"fmt"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// PanelTarget is a panel kind and the channel it lives in
type PanelTarget struct {
	Kind      entities.PanelKind
	ChannelID int64
	// Periodic panels are refreshed on every tick, others only at startup
	Periodic bool
}

// PanelWorker keeps the configured panels reconciled
type PanelWorker struct {
	cfg        *config.Config
	reconciler interfaces.SingletonReconciler
	builder    PanelContentBuilder
	guilds     GuildSource
	targets    []PanelTarget
}

// ConfiguredPanels returns the panels enabled by configuration
func ConfiguredPanels(cfg *config.Config) []PanelTarget {
	var targets []PanelTarget
	if cfg.LeaderboardChannelID != 0 {
		targets = append(targets, PanelTarget{Kind: entities.PanelKindLeaderboard, ChannelID: cfg.LeaderboardChannelID, Periodic: true})
	}
	if cfg.TicketPanelChannelID != 0 {
		targets = append(targets, PanelTarget{Kind: entities.PanelKindTicket, ChannelID: cfg.TicketPanelChannelID})
	}
	if cfg.VoicePanelChannelID != 0 {
		targets = append(targets, PanelTarget{Kind: entities.PanelKindVoiceControl, ChannelID: cfg.VoicePanelChannelID})
	}
	return targets
}

// NewPanelWorker creates the panel reconciliation worker
func NewPanelWorker(cfg *config.Config, reconciler interfaces.SingletonReconciler, builder PanelContentBuilder, guilds GuildSource) *PanelWorker {
	return &PanelWorker{
		cfg:        cfg,
		reconciler: reconciler,
		builder:    builder,
		guilds:     guilds,
		targets:    ConfiguredPanels(cfg),
	}
}

// Start reconciles every panel once, then the periodic ones on the stats interval
func (w *PanelWorker) Start(ctx context.Context) func() {
	if len(w.targets) == 0 {
		log.Info("No panels configured")
		return func() {}
	}
	for _, guildID := range w.guilds.GuildIDs() {
		w.ReconcileAll(ctx, guildID, false)
	}
	return startPeriodic(ctx, "panels", w.cfg.UpdateStatsInterval, false, func(ctx context.Context) {
		for _, guildID := range w.guilds.GuildIDs() {
			w.ReconcileAll(ctx, guildID, true)
		}
	})
}

// ReconcileAll reconciles the guild's panels and returns how many failed.
// Failures are retried by the next pass.
func (w *PanelWorker) ReconcileAll(ctx context.Context, guildID int64, periodicOnly bool) int {
	failed := 0
	for _, target := range w.targets {
		if periodicOnly && !target.Periodic {
			continue
		}
		if err := w.Reconcile(ctx, guildID, target); err != nil {
			failed++
			log.WithError(err).WithFields(log.Fields{
				"guildId": guildID,
				"kind":    target.Kind,
			}).Warn("Panel reconciliation failed")
		}
	}
	return failed
}

// Reconcile renders and reconciles one panel
func (w *PanelWorker) Reconcile(ctx context.Context, guildID int64, target PanelTarget) error {
	content, err := w.builder.BuildPanel(ctx, guildID, target.Kind)
	if err != nil {
		return fmt.Errorf("failed to build %s panel: %w", target.Kind, err)
	}
	_, err = w.reconciler.Reconcile(ctx, interfaces.PanelRequest{
		GuildID:   guildID,
		Kind:      target.Kind,
		ChannelID: target.ChannelID,
		Content:   content,
	})
	return err
}
