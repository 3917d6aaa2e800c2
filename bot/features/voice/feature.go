package voice

import (
	"riobot/config"
	"riobot/domain/interfaces"
)

// Feature serves the voice control panel of ephemeral channels
type Feature struct {
	config *config.Config
	voice  interfaces.VoiceLifecycle
}

// New creates the voice feature
func New(cfg *config.Config, voice interfaces.VoiceLifecycle) *Feature {
	return &Feature{
		config: cfg,
		voice:  voice,
	}
}
