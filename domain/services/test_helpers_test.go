package services

import (
	"context"
	"testing"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/domain/testhelpers"
	"riobot/repository"

	"github.com/stretchr/testify/require"
)

// Test constants for consistent test data
const (
	TestGuildID   = int64(555555555)
	TestChannelID = int64(987654321)
	TestBotID     = int64(999999)
	TestUser1ID   = int64(100)
	TestUser2ID   = int64(200)
	TestUser3ID   = int64(300)
)

func newTestStore(t *testing.T) (*repository.StateStore, *testhelpers.EventRecorder) {
	t.Helper()
	recorder := &testhelpers.EventRecorder{}
	store, err := repository.NewStateStore(context.Background(), repository.NewMemoryPersister(nil), recorder)
	require.NoError(t, err)
	return store, recorder
}

func seedAccount(t *testing.T, store interfaces.StateStore, userID, currency int64) {
	t.Helper()
	require.NoError(t, store.Mutate(context.Background(), []entities.Key{entities.UserKey(userID)}, func(tx interfaces.StateTx) error {
		u := tx.User(userID)
		u.Currency = currency
		tx.PutUser(u)
		return nil
	}))
}

func accountOf(t *testing.T, store interfaces.StateStore, userID int64) *entities.UserAccount {
	t.Helper()
	account := entities.NewUserAccount(userID)
	require.NoError(t, store.View(context.Background(), func(v interfaces.StateView) error {
		if u, ok := v.User(userID); ok {
			account = u
		}
		return nil
	}))
	return account
}

func testConfig() *config.Config {
	cfg := config.NewTestConfig()
	cfg.VoiceSpawnerChannelID = 4000
	cfg.VoiceCategoryID = 4001
	cfg.TicketCategoryID = 5001
	cfg.StaffRoleID = 6000
	cfg.OwnerRoleID = 6001
	cfg.OwnerID = 7000
	return cfg
}
