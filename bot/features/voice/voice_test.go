package voice

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
	testGuildID = int64(555555555)
	testChannel = int64(4242)
	testOwner   = int64(100)
	testOther   = int64(200)
)

func newFeature(t *testing.T) (*Feature, *testhelpers.MockPlatform) {
	t.Helper()
	store, err := repository.NewStateStore(context.Background(), repository.NewMemoryPersister(nil), &testhelpers.EventRecorder{})
	require.NoError(t, err)
	require.NoError(t, store.Mutate(context.Background(), []entities.Key{entities.VoiceKey(testChannel)}, func(tx interfaces.StateTx) error {
		tx.PutVoiceChannel(&entities.VoiceChannel{
			ChannelID: testChannel,
			GuildID:   testGuildID,
			OwnerID:   testOwner,
			CreatedAt: time.Now(),
		})
		return nil
	}))

	cfg := config.NewTestConfig()
	platform := &testhelpers.MockPlatform{}
	return New(cfg, services.NewVoiceLifecycle(cfg, store, platform)), platform
}

func press(userID int64, kind common.ActionKind) *common.Interaction {
	return &common.Interaction{GuildID: testGuildID, User: common.Member{ID: userID}, Action: common.Action{Kind: kind}}
}

func submit(userID int64, kind common.ActionKind, value string) *common.Interaction {
	return &common.Interaction{
		GuildID: testGuildID,
		User:    common.Member{ID: userID},
		Action:  common.Action{Kind: kind, Arg: "4242"},
		Values:  map[string]string{FormValueField: value},
	}
}

func TestPanelContentHasSixControls(t *testing.T) {
	t.Parallel()

	panel := PanelContent(99)
	require.Len(t, panel.Buttons, 6)
	assert.Contains(t, panel.Embeds[0].Description, "<#99>")
	for _, b := range panel.Buttons {
		_, err := common.ParseAction(b.CustomID)
		assert.NoError(t, err)
	}
}

func TestHandleButtonWithoutChannel(t *testing.T) {
	t.Parallel()
	f, platform := newFeature(t)

	reply := f.HandleButton(context.Background(), press(testOther, common.ActionVoiceLock))
	assert.Equal(t, noChannelMessage, reply.Message.Content)
	assert.True(t, reply.Ephemeral)
	platform.AssertNotCalled(t, "SetChannelPermission", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleButtonLocksDirectly(t *testing.T) {
	t.Parallel()
	f, platform := newFeature(t)

	platform.On("SetChannelPermission", mock.Anything, testChannel, entities.PermissionOverwrite{
		TargetID: testGuildID, IsRole: true, Deny: entities.PermConnect,
	}).Return(nil).Once()

	reply := f.HandleButton(context.Background(), press(testOwner, common.ActionVoiceLock))
	assert.Equal(t, "🔒 Ton salon est verrouillé.", reply.Message.Content)
	platform.AssertExpectations(t)
}

func TestHandleButtonOpensForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		press  common.ActionKind
		submit common.ActionKind
	}{
		{common.ActionVoiceLimit, common.ActionVoiceLimitForm},
		{common.ActionVoiceRename, common.ActionVoiceRenameForm},
		{common.ActionVoiceInvite, common.ActionVoiceInviteForm},
		{common.ActionVoiceKick, common.ActionVoiceKickForm},
	}

	for _, tt := range tests {
		t.Run(string(tt.press), func(t *testing.T) {
			t.Parallel()
			f, _ := newFeature(t)

			reply := f.HandleButton(context.Background(), press(testOwner, tt.press))
			require.NotNil(t, reply.Modal)
			assert.Equal(t, common.Action{Kind: tt.submit, Arg: "4242"}, reply.Modal.Action)
			require.Len(t, reply.Modal.Fields, 1)
			assert.Equal(t, FormValueField, reply.Modal.Fields[0].CustomID)
		})
	}
}

func TestHandleFormLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
		edit  bool
	}{
		{"sets limit", "5", "👥 Limite fixée à **5** membres.", true},
		{"removes limit", "0", "👥 Limite retirée.", true},
		{"too high", "100", "❌ La limite doit être un nombre entre 0 et 99.", false},
		{"not a number", "cinq", "❌ La limite doit être un nombre entre 0 et 99.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, platform := newFeature(t)
			if tt.edit {
				platform.On("EditChannel", mock.Anything, testChannel, mock.AnythingOfType("entities.ChannelEdit")).Return(nil).Once()
			}

			reply := f.HandleForm(context.Background(), submit(testOwner, common.ActionVoiceLimitForm, tt.value))
			assert.Equal(t, tt.want, reply.Message.Content)
			platform.AssertExpectations(t)
		})
	}
}

func TestHandleFormRejectsNonOwner(t *testing.T) {
	t.Parallel()
	f, platform := newFeature(t)

	reply := f.HandleForm(context.Background(), submit(testOther, common.ActionVoiceRenameForm, "Pirate"))
	assert.Equal(t, "❌ Tu n'es pas le propriétaire de ce salon.", reply.Message.Content)
	platform.AssertNotCalled(t, "RenameEntity", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleFormKick(t *testing.T) {
	t.Parallel()
	f, platform := newFeature(t)

	platform.On("SetChannelPermission", mock.Anything, testChannel, entities.PermissionOverwrite{
		TargetID: testOther, Deny: entities.PermConnect,
	}).Return(nil).Once()
	platform.On("MoveMember", mock.Anything, testGuildID, testOther, (*int64)(nil)).Return(nil).Once()

	reply := f.HandleForm(context.Background(), submit(testOwner, common.ActionVoiceKickForm, "<@200>"))
	assert.Equal(t, "👢 <@200> a été expulsé de ton salon.", reply.Message.Content)
	platform.AssertExpectations(t)

	self := f.HandleForm(context.Background(), submit(testOwner, common.ActionVoiceKickForm, "100"))
	assert.Equal(t, "❌ Valeur invalide.", self.Message.Content)
}
