package tickets

import (
	"context"
	"testing"
	"time"

	"riobot/bot/common"
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
	testGuildID   = int64(555555555)
	testStaffRole = int64(42)
	testTicketCh  = int64(9000)
	testRequester = int64(100)
	testStaffer   = int64(200)
)

type fixture struct {
	feature   *Feature
	platform  *testhelpers.MockPlatform
	scheduler *testhelpers.ManualScheduler
	store     interfaces.StateStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := repository.NewStateStore(context.Background(), repository.NewMemoryPersister(nil), &testhelpers.EventRecorder{})
	require.NoError(t, err)

	cfg := config.NewTestConfig()
	cfg.StaffRoleID = testStaffRole
	cfg.TicketCategoryID = 77

	platform := &testhelpers.MockPlatform{}
	platform.On("SelfID").Return(int64(1)).Maybe()
	scheduler := &testhelpers.ManualScheduler{}
	f := New(cfg, platform, services.NewTicketLifecycle(cfg, store, platform, scheduler))
	f.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{feature: f, platform: platform, scheduler: scheduler, store: store}
}

func openInteraction(category entities.TicketCategory) *common.Interaction {
	return &common.Interaction{
		GuildID: testGuildID,
		User:    common.Member{ID: testRequester, Name: "Alice"},
		Action:  common.TicketOpenAction(category),
	}
}

func (fx *fixture) open(t *testing.T) {
	t.Helper()
	fx.platform.On("CreateChannel", mock.Anything, testGuildID, mock.AnythingOfType("entities.ChannelSpec")).Return(testTicketCh, nil).Once()
	fx.platform.On("SendMessage", mock.Anything, testTicketCh, mock.AnythingOfType("entities.MessageSpec")).Return(int64(1), nil).Once()
	reply := fx.feature.HandleOpen(context.Background(), openInteraction(entities.TicketCategorySupport))
	require.Equal(t, "✅ Ton ticket a été créé : <#9000>", reply.Message.Content)
	require.True(t, reply.Ephemeral)
}

func TestPanelContentHasOneButtonPerCategory(t *testing.T) {
	t.Parallel()

	panel := PanelContent()
	require.Len(t, panel.Buttons, len(entities.TicketCategories))
	for i, c := range entities.TicketCategories {
		action, err := common.ParseAction(panel.Buttons[i].CustomID)
		require.NoError(t, err)
		assert.Equal(t, common.ActionTicketOpen, action.Kind)
		assert.Equal(t, string(c), action.Arg)
	}
}

func TestHandleOpenPostsWelcomeWithButtons(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)

	fx.platform.On("CreateChannel", mock.Anything, testGuildID, mock.MatchedBy(func(spec entities.ChannelSpec) bool {
		return spec.Name == "ticket-alice" && spec.ParentID == 77
	})).Return(testTicketCh, nil).Once()
	fx.platform.On("SendMessage", mock.Anything, testTicketCh, mock.MatchedBy(func(msg entities.MessageSpec) bool {
		return msg.Content == "<@100> <@&42>" &&
			len(msg.Buttons) == 2 &&
			msg.Buttons[0].CustomID == "rio:ticket_claim" &&
			msg.Buttons[1].CustomID == "rio:ticket_close"
	})).Return(int64(1), nil).Once()

	reply := fx.feature.HandleOpen(context.Background(), openInteraction(entities.TicketCategorySupport))
	assert.Equal(t, "✅ Ton ticket a été créé : <#9000>", reply.Message.Content)
	fx.platform.AssertExpectations(t)
}

func TestHandleOpenRejectsSecondTicket(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	fx.open(t)

	reply := fx.feature.HandleOpen(context.Background(), openInteraction(entities.TicketCategoryOther))
	assert.Equal(t, "❌ Tu as déjà un ticket ouvert.", reply.Message.Content)
	fx.platform.AssertNumberOfCalls(t, "CreateChannel", 1)
}

func TestHandleClaim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		roleIDs []int64
		want    string
	}{
		{"staff claims", []int64{testStaffRole}, "🙋 <@200> a pris en charge ce ticket."},
		{"member is refused", nil, "❌ Tu n'as pas la permission de faire ça."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fx := newFixture(t)
			fx.open(t)

			reply := fx.feature.HandleClaim(context.Background(), &common.Interaction{
				GuildID:   testGuildID,
				ChannelID: testTicketCh,
				User:      common.Member{ID: testStaffer},
				RoleIDs:   tt.roleIDs,
			})
			assert.Equal(t, tt.want, reply.Message.Content)
		})
	}
}

func TestHandleCloseSchedulesDeletion(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	fx.open(t)

	in := &common.Interaction{GuildID: testGuildID, ChannelID: testTicketCh, User: common.Member{ID: testRequester}}
	reply := fx.feature.HandleClose(context.Background(), in)
	assert.Equal(t, "🔒 Ticket fermé par <@100>. Suppression dans **5s**.", reply.Message.Content)

	again := fx.feature.HandleClose(context.Background(), in)
	assert.Equal(t, "❌ Ce ticket est déjà en cours de fermeture.", again.Message.Content)

	fx.platform.On("DeleteChannel", mock.Anything, testTicketCh).Return(nil).Once()
	assert.Equal(t, 1, fx.scheduler.RunAll(context.Background()))
	fx.platform.AssertExpectations(t)

	require.NoError(t, fx.store.View(context.Background(), func(v interfaces.StateView) error {
		_, ok := v.Ticket(testTicketCh)
		assert.False(t, ok)
		return nil
	}))
}

func TestChannelDeletedForgetsTicket(t *testing.T) {
	t.Parallel()
	fx := newFixture(t)
	fx.open(t)

	require.NoError(t, fx.feature.ChannelDeleted(context.Background(), testTicketCh))

	// the requester may open a new ticket right away
	fx.open(t)
}
