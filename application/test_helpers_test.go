package application

import (
	"context"
	"time"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

const (
	testGuildID       = int64(555555555)
	testGamesChannel  = int64(8100)
	testStatsCategory = int64(8200)
	testBumpChannel   = int64(8300)
)

type staticGuilds []int64

func (s staticGuilds) GuildIDs() []int64 { return s }

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) Reconcile(ctx context.Context, req interfaces.PanelRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

type mockPanelBuilder struct {
	mock.Mock
}

func (m *mockPanelBuilder) BuildPanel(ctx context.Context, guildID int64, kind entities.PanelKind) (entities.MessageSpec, error) {
	args := m.Called(ctx, guildID, kind)
	return args.Get(0).(entities.MessageSpec), args.Error(1)
}

type textPresenter struct{}

func (textPresenter) DropAnnouncement(amount int64, expiresAt time.Time) entities.MessageSpec {
	return entities.MessageSpec{Content: "drop"}
}

func (textPresenter) DropExpired(drop *entities.CurrencyDrop) entities.MessageSpec {
	return entities.MessageSpec{Content: "expired", ClearComponents: true}
}

func (textPresenter) BumpReminder() entities.MessageSpec {
	return entities.MessageSpec{Content: "bump"}
}

func testConfig() *config.Config {
	cfg := config.NewTestConfig()
	cfg.GamesChannelID = testGamesChannel
	cfg.StatsCategoryID = testStatsCategory
	cfg.BumpChannelID = testBumpChannel
	cfg.LeaderboardChannelID = 8400
	cfg.TicketPanelChannelID = 8500
	cfg.DropInterval = time.Minute
	return cfg
}
