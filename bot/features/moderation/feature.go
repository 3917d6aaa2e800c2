package moderation

import (
	"time"

	"riobot/config"
	"riobot/domain/interfaces"
)

// Feature serves the manual moderation and warn commands
type Feature struct {
	config     *config.Config
	platform   interfaces.Platform
	moderation interfaces.ModerationEscalation
	now        func() time.Time
}

// New creates the moderation feature
func New(cfg *config.Config, platform interfaces.Platform, moderation interfaces.ModerationEscalation) *Feature {
	return &Feature{
		config:     cfg,
		platform:   platform,
		moderation: moderation,
		now:        time.Now,
	}
}
