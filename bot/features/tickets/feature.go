package tickets

import (
	"time"

	"riobot/config"
	"riobot/domain/interfaces"
)

// Feature serves the ticket panel and the in-ticket buttons
type Feature struct {
	config   *config.Config
	platform interfaces.Platform
	tickets  interfaces.TicketLifecycle
	now      func() time.Time
}

// New creates the tickets feature
func New(cfg *config.Config, platform interfaces.Platform, tickets interfaces.TicketLifecycle) *Feature {
	return &Feature{
		config:   cfg,
		platform: platform,
		tickets:  tickets,
		now:      time.Now,
	}
}
