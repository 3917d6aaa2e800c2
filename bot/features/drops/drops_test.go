package drops

import (
	"context"
	"errors"
	"testing"
	"time"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/domain/services"
	"riobot/domain/testhelpers"
	"riobot/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testBotID   = int64(1)
	testChannel = int64(300)
	testMessage = int64(4000)
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newFeature(t *testing.T) (*Feature, *testhelpers.MockPlatform, interfaces.StateStore) {
	t.Helper()
	store, err := repository.NewStateStore(context.Background(), repository.NewMemoryPersister(nil), &testhelpers.EventRecorder{})
	require.NoError(t, err)

	cfg := config.NewTestConfig()
	claims := services.NewClaimRegistry(cfg, store)
	require.NoError(t, claims.StartDrop(context.Background(), entities.CurrencyDrop{
		MessageID: testMessage,
		ChannelID: testChannel,
		GuildID:   555,
		Amount:    25,
		CreatedAt: testNow,
		ExpiresAt: testNow.Add(30 * time.Second),
	}))

	platform := &testhelpers.MockPlatform{}
	platform.On("SelfID").Return(testBotID).Maybe()
	f := New(platform, claims)
	f.now = func() time.Time { return testNow.Add(time.Second) }
	return f, platform, store
}

func currencyOf(t *testing.T, store interfaces.StateStore, userID int64) int64 {
	t.Helper()
	var currency int64
	require.NoError(t, store.View(context.Background(), func(v interfaces.StateView) error {
		if u, ok := v.User(userID); ok {
			currency = u.Currency
		}
		return nil
	}))
	return currency
}

func TestHandleReactionFirstClaimWins(t *testing.T) {
	t.Parallel()
	f, platform, store := newFeature(t)

	platform.On("EditMessage", mock.Anything, testChannel, testMessage, mock.MatchedBy(func(msg entities.MessageSpec) bool {
		return msg.Embeds[0].Description == "<@100> a récupéré **25 rios** !"
	})).Return(nil).Once()

	require.NoError(t, f.HandleReaction(context.Background(), Reaction{ChannelID: testChannel, MessageID: testMessage, UserID: 100, Emoji: DropEmoji}))
	require.NoError(t, f.HandleReaction(context.Background(), Reaction{ChannelID: testChannel, MessageID: testMessage, UserID: 200, Emoji: DropEmoji}))

	assert.Equal(t, int64(25), currencyOf(t, store, 100))
	assert.Equal(t, int64(0), currencyOf(t, store, 200))
	platform.AssertExpectations(t)
}

func TestHandleReactionIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		reaction Reaction
	}{
		{"other emoji", Reaction{MessageID: testMessage, UserID: 100, Emoji: "👍"}},
		{"bot itself", Reaction{MessageID: testMessage, UserID: testBotID, Emoji: DropEmoji}},
		{"not a drop", Reaction{MessageID: 999, UserID: 100, Emoji: DropEmoji}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, platform, store := newFeature(t)

			require.NoError(t, f.HandleReaction(context.Background(), tt.reaction))
			assert.Equal(t, int64(0), currencyOf(t, store, 100))
			platform.AssertNotCalled(t, "EditMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleReactionAfterExpiry(t *testing.T) {
	t.Parallel()
	f, platform, store := newFeature(t)
	f.now = func() time.Time { return testNow.Add(time.Minute) }

	require.NoError(t, f.HandleReaction(context.Background(), Reaction{MessageID: testMessage, UserID: 100, Emoji: DropEmoji}))
	assert.Equal(t, int64(0), currencyOf(t, store, 100))
	platform.AssertNotCalled(t, "EditMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleReactionEditFailure(t *testing.T) {
	t.Parallel()
	f, platform, store := newFeature(t)

	platform.On("EditMessage", mock.Anything, testChannel, testMessage, mock.Anything).Return(errors.New("boom")).Once()

	err := f.HandleReaction(context.Background(), Reaction{MessageID: testMessage, UserID: 100, Emoji: DropEmoji})
	require.Error(t, err)
	// the reward is kept even when the announcement cannot be edited
	assert.Equal(t, int64(25), currencyOf(t, store, 100))
}

func TestPresenter(t *testing.T) {
	t.Parallel()
	f, _, _ := newFeature(t)

	announce := f.DropAnnouncement(1500, testNow)
	assert.Contains(t, announce.Embeds[0].Description, "**1 500 rios**")
	assert.Contains(t, announce.Embeds[0].Description, "<t:1748779200:R>")

	expired := f.DropExpired(&entities.CurrencyDrop{Amount: 25})
	assert.Equal(t, "Personne n'a récupéré les **25 rios**.", expired.Embeds[0].Description)

}
