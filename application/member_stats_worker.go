package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// StatsCategoryName is the display name of the member-count category
func StatsCategoryName(members int) string {
	return fmt.Sprintf("Statistique Rio - %d membres", members)
}

// MemberStatsWorker keeps the member count in the stats category name
type MemberStatsWorker struct {
	cfg      *config.Config
	platform interfaces.Platform
	guilds   GuildSource

	mu       sync.Mutex
	lastName map[int64]string
}

// NewMemberStatsWorker creates the member-count display worker
func NewMemberStatsWorker(cfg *config.Config, platform interfaces.Platform, guilds GuildSource) *MemberStatsWorker {
	return &MemberStatsWorker{
		cfg:      cfg,
		platform: platform,
		guilds:   guilds,
		lastName: make(map[int64]string),
	}
}

// Start refreshes every guild on the stats interval
func (w *MemberStatsWorker) Start(ctx context.Context) func() {
	return startPeriodic(ctx, "member_stats", w.cfg.UpdateStatsInterval, true, func(ctx context.Context) {
		for _, guildID := range w.guilds.GuildIDs() {
			if err := w.Refresh(ctx, guildID); err != nil {
				log.WithError(err).WithField("guildId", guildID).Error("Failed to refresh member stats")
			}
		}
	})
}

// Refresh renames the stats category when the member count changed.
// Permission and rate-limit failures are skipped until the next refresh.
func (w *MemberStatsWorker) Refresh(ctx context.Context, guildID int64) error {
	if w.cfg.StatsCategoryID == 0 {
		return nil
	}
	count, err := w.platform.GuildMemberCount(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}
	name := StatsCategoryName(count)

	w.mu.Lock()
	unchanged := w.lastName[guildID] == name
	w.mu.Unlock()
	if unchanged {
		return nil
	}

	if err := w.platform.RenameEntity(ctx, w.cfg.StatsCategoryID, name); err != nil {
		if entities.IsTransientPlatformError(err) {
			log.WithError(err).WithField("guildId", guildID).Debug("Skipping stats rename")
			return nil
		}
		if errors.Is(err, entities.ErrNotFound) {
			log.WithField("categoryId", w.cfg.StatsCategoryID).Warn("Stats category not found")
			return nil
		}
		return fmt.Errorf("failed to rename stats category: %w", err)
	}

	w.mu.Lock()
	w.lastName[guildID] = name
	w.mu.Unlock()
	log.WithField("name", name).Info("Member stats updated")
	return nil
}
