package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// panelHistoryDepth is how far back a channel is searched for a lost panel
const panelHistoryDepth = 50

type panelReconciler struct {
	store    interfaces.StateStore
	platform interfaces.Platform
	now      func() time.Time
}

// NewPanelReconciler creates the singleton panel reconciler
func NewPanelReconciler(store interfaces.StateStore, platform interfaces.Platform) interfaces.SingletonReconciler {
	return &panelReconciler{store: store, platform: platform, now: time.Now}
}

// withMarker stamps the panel signature into the last embed footer
func withMarker(spec entities.MessageSpec, kind entities.PanelKind) entities.MessageSpec {
	embeds := append([]entities.EmbedSpec(nil), spec.Embeds...)
	if len(embeds) == 0 {
		embeds = append(embeds, entities.EmbedSpec{})
	}
	embeds[len(embeds)-1].Footer = kind.Marker()
	spec.Embeds = embeds
	return spec
}

// Reconcile edits the stored panel in place, adopts a panel found in recent
// history, or creates a new one, and returns the live message id
func (r *panelReconciler) Reconcile(ctx context.Context, req interfaces.PanelRequest) (int64, error) {
	if req.ChannelID == 0 {
		return 0, entities.ErrInvalidArgument
	}
	content := withMarker(req.Content, req.Kind)

	var (
		liveID  int64
		outcome string
	)
	err := r.store.Mutate(ctx, []entities.Key{entities.PanelKey(req.GuildID, req.Kind)}, func(tx interfaces.StateTx) error {
		var staleID int64
		if p := tx.Panel(req.GuildID, req.Kind); p != nil && p.MessageID != nil && p.ChannelID == req.ChannelID {
			err := r.platform.EditMessage(ctx, req.ChannelID, *p.MessageID, content)
			if err == nil {
				liveID, outcome = *p.MessageID, observability.ReconcileEdited
				return nil
			}
			if !errors.Is(err, entities.ErrNotFound) {
				return fmt.Errorf("failed to edit panel: %w", err)
			}
			staleID = *p.MessageID
		}

		id, adopted, err := r.adoptOrCreate(ctx, req, content, staleID)
		if err != nil {
			return err
		}
		liveID = id
		outcome = observability.ReconcileCreated
		if adopted {
			outcome = observability.ReconcileAdopted
		}
		tx.PutPanel(&entities.PanelArtifact{
			GuildID:   req.GuildID,
			Kind:      req.Kind,
			ChannelID: req.ChannelID,
			MessageID: &id,
			UpdatedAt: r.now(),
		})
		return nil
	})
	if err = tolerateDurability(err, "panel_reconcile"); err != nil {
		observability.GetMetrics().RecordReconcile(string(req.Kind), observability.ReconcileFailed)
		return 0, err
	}

	observability.GetMetrics().RecordReconcile(string(req.Kind), outcome)
	if outcome != observability.ReconcileEdited {
		log.WithFields(log.Fields{
			"guildId":   req.GuildID,
			"kind":      req.Kind,
			"messageId": liveID,
			"outcome":   outcome,
		}).Info("Panel reconciled")
	}
	return liveID, nil
}

// adoptOrCreate looks for earlier panels of this kind posted by the bot. The
// newest one is adopted and the others deleted; with none, a new panel is sent.
func (r *panelReconciler) adoptOrCreate(ctx context.Context, req interfaces.PanelRequest, content entities.MessageSpec, staleID int64) (int64, bool, error) {
	history, err := r.platform.FetchRecentMessages(ctx, req.ChannelID, panelHistoryDepth)
	if err != nil {
		return 0, false, fmt.Errorf("failed to search panel history: %w", err)
	}

	self := r.platform.SelfID()
	marker := req.Kind.Marker()
	var candidates []entities.PlatformMessage
	for _, m := range history {
		if m.ID != staleID && m.AuthorID == self && m.HasMarker(marker) {
			candidates = append(candidates, m)
		}
	}

	for len(candidates) > 0 {
		newest := 0
		for i, m := range candidates {
			if m.CreatedAt.After(candidates[newest].CreatedAt) ||
				(m.CreatedAt.Equal(candidates[newest].CreatedAt) && m.ID > candidates[newest].ID) {
				newest = i
			}
		}
		chosen := candidates[newest]
		candidates = append(candidates[:newest], candidates[newest+1:]...)

		err := r.platform.EditMessage(ctx, req.ChannelID, chosen.ID, content)
		if errors.Is(err, entities.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, false, fmt.Errorf("failed to adopt panel: %w", err)
		}
		r.deleteDuplicates(ctx, req.ChannelID, candidates)
		return chosen.ID, true, nil
	}

	id, err := r.platform.SendMessage(ctx, req.ChannelID, content)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create panel: %w", err)
	}
	return id, false, nil
}

func (r *panelReconciler) deleteDuplicates(ctx context.Context, channelID int64, duplicates []entities.PlatformMessage) {
	for _, m := range duplicates {
		if err := r.platform.DeleteMessage(ctx, channelID, m.ID); err != nil && !errors.Is(err, entities.ErrNotFound) {
			log.WithError(err).WithField("messageId", m.ID).Warn("Failed to delete duplicate panel")
		}
	}
}
