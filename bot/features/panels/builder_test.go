package panels

import (
	"context"
	"testing"

	"riobot/config"
	"riobot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLeaderboard struct {
	spec    entities.MessageSpec
	guildID int64
}

func (s *staticLeaderboard) LeaderboardPanel(ctx context.Context, guildID int64) (entities.MessageSpec, error) {
	s.guildID = guildID
	return s.spec, nil
}

func TestBuildPanel(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.VoiceSpawnerChannelID = 77
	leaderboard := &staticLeaderboard{spec: entities.MessageSpec{Content: "classement"}}
	b := NewBuilder(cfg, leaderboard)

	tests := []struct {
		kind    entities.PanelKind
		buttons int
	}{
		{entities.PanelKindLeaderboard, 0},
		{entities.PanelKindTicket, len(entities.TicketCategories)},
		{entities.PanelKindVoiceControl, 6},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			spec, err := b.BuildPanel(context.Background(), 555, tt.kind)
			require.NoError(t, err)
			assert.Len(t, spec.Buttons, tt.buttons)
		})
	}
}

func TestBuildPanelLeaderboardDelegates(t *testing.T) {
	t.Parallel()

	leaderboard := &staticLeaderboard{spec: entities.MessageSpec{Content: "classement"}}
	spec, err := NewBuilder(config.NewTestConfig(), leaderboard).BuildPanel(context.Background(), 555, entities.PanelKindLeaderboard)
	require.NoError(t, err)
	assert.Equal(t, "classement", spec.Content)
	assert.Equal(t, int64(555), leaderboard.guildID)
}

func TestBuildPanelUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := NewBuilder(config.NewTestConfig(), &staticLeaderboard{}).BuildPanel(context.Background(), 555, "mystery")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestBumpReminder(t *testing.T) {
	t.Parallel()

	reminder := NewBuilder(config.NewTestConfig(), &staticLeaderboard{}).BumpReminder()
	require.Len(t, reminder.Embeds, 1)
	assert.Contains(t, reminder.Embeds[0].Description, "/bump")
}
