package economy

import (
	"time"

	"riobot/config"
	"riobot/domain/interfaces"
)

// Feature exposes the wallet and progression commands
type Feature struct {
	config  *config.Config
	economy interfaces.EconomyService
	now     func() time.Time
}

// New creates the economy feature
func New(cfg *config.Config, economy interfaces.EconomyService) *Feature {
	return &Feature{
		config:  cfg,
		economy: economy,
		now:     time.Now,
	}
}
