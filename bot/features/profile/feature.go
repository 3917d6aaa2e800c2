package profile

import (
	"riobot/bot/common"
	"riobot/config"
	"riobot/domain/interfaces"
)

// Feature serves the read-only views of member progression
type Feature struct {
	config  *config.Config
	economy interfaces.EconomyService
	names   common.NameResolver
	images  *LeaderboardImageGenerator
}

// New creates the profile feature
func New(cfg *config.Config, economy interfaces.EconomyService, names common.NameResolver) *Feature {
	return &Feature{
		config:  cfg,
		economy: economy,
		names:   names,
		images:  NewLeaderboardImageGenerator(),
	}
}
