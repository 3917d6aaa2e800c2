package drops

import (
	"time"

	"riobot/domain/interfaces"
)

// DropEmoji is the reaction that claims a drop
const DropEmoji = "💰"

// Feature renders currency drops and resolves the reactions claiming them
type Feature struct {
	platform interfaces.Platform
	claims   interfaces.ClaimRegistry
	now      func() time.Time
}

// New creates the drops feature
func New(platform interfaces.Platform, claims interfaces.ClaimRegistry) *Feature {
	return &Feature{
		platform: platform,
		claims:   claims,
		now:      time.Now,
	}
}
