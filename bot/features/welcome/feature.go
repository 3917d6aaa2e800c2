package welcome

import (
	"riobot/config"
	"riobot/domain/interfaces"
)

// Feature greets new members and pays whoever welcomes them first
type Feature struct {
	config   *config.Config
	platform interfaces.Platform
	claims   interfaces.ClaimRegistry
}

// New creates the welcome feature
func New(cfg *config.Config, platform interfaces.Platform, claims interfaces.ClaimRegistry) *Feature {
	return &Feature{
		config:   cfg,
		platform: platform,
		claims:   claims,
	}
}
