package moderation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"riobot/bot/common"
	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/services"
	"riobot/domain/testhelpers"
	"riobot/events"
	"riobot/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID   = int64(555555555)
	testModerator = int64(100)
	testSubject   = int64(200)
	testOwnerID   = int64(1)
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newFeature(t *testing.T) (*Feature, *testhelpers.MockPlatform) {
	t.Helper()
	store, err := repository.NewStateStore(context.Background(), repository.NewMemoryPersister(nil), &testhelpers.EventRecorder{})
	require.NoError(t, err)

	cfg := config.NewTestConfig()
	cfg.OwnerID = testOwnerID
	platform := &testhelpers.MockPlatform{}
	f := New(cfg, platform, services.NewModerationService(cfg, store, platform, &testhelpers.EventRecorder{}))
	f.now = func() time.Time { return testNow }
	return f, platform
}

func modCommand(name string, permissions int64, args ...string) *common.Command {
	cmd := &common.Command{
		GuildID:     testGuildID,
		ChannelID:   10,
		Author:      common.Member{ID: testModerator, Name: "Modo"},
		Name:        name,
		Args:        args,
		Permissions: permissions,
	}
	for _, a := range args {
		if id, ok := common.ParseMention(a); ok && len(a) > 2 && a[:2] == "<@" {
			cmd.Mentions = append(cmd.Mentions, common.Member{ID: id, Name: "Cible"})
		}
	}
	return cmd
}

func TestHandleBan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		permissions int64
		args        []string
		platformErr error
		callsBan    bool
		wantText    string
		wantTitle   string
	}{
		{name: "no permission", args: []string{"<@200>"}, wantText: "❌ Tu n'as pas la permission de bannir des membres."},
		{name: "no mention", permissions: entities.PermBanMembers, wantText: "❌ Usage: `!ban @utilisateur [raison]`"},
		{name: "self", permissions: entities.PermBanMembers, args: []string{"<@100>"}, wantText: "❌ Tu ne peux pas te sanctionner toi-même."},
		{name: "forbidden", permissions: entities.PermBanMembers, args: []string{"<@200>"}, platformErr: entities.ErrPlatformForbidden, callsBan: true, wantText: "❌ Je ne peux pas bannir ce membre."},
		{name: "failure", permissions: entities.PermBanMembers, args: []string{"<@200>"}, platformErr: fmt.Errorf("boom"), callsBan: true, wantText: "❌ Une erreur est survenue lors du bannissement."},
		{name: "success", permissions: entities.PermBanMembers, args: []string{"<@200>", "trop", "de", "spam"}, callsBan: true, wantTitle: "🔨 Membre banni"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, platform := newFeature(t)
			if tt.callsBan {
				reason := services.DefaultReason
				if len(tt.args) > 1 {
					reason = "trop de spam"
				}
				platform.On("BanMember", mock.Anything, testGuildID, testSubject, reason).Return(tt.platformErr).Once()
			}

			reply := f.HandleBan(context.Background(), modCommand("ban", tt.permissions, tt.args...))
			if tt.wantTitle != "" {
				require.Len(t, reply.Message.Embeds, 1)
				embed := reply.Message.Embeds[0]
				assert.Equal(t, tt.wantTitle, embed.Title)
				assert.Equal(t, "trop de spam", embed.Fields[len(embed.Fields)-1].Value)
			} else {
				assert.Equal(t, tt.wantText, reply.Message.Content)
			}
			platform.AssertExpectations(t)
		})
	}
}

func TestHandleMuteUsesMaximumTimeout(t *testing.T) {
	t.Parallel()
	f, platform := newFeature(t)

	until := testNow.Add(28 * 24 * time.Hour)
	platform.On("SetMemberTimeout", mock.Anything, testGuildID, testSubject, &until, services.DefaultReason).Return(nil).Once()

	reply := f.HandleMute(context.Background(), modCommand("mute", entities.PermModerateMembers, "<@200>"))
	require.Len(t, reply.Message.Embeds, 1)
	assert.Equal(t, "🔇 Membre muté", reply.Message.Embeds[0].Title)
	assert.Equal(t, "Permanent (28 jours)", reply.Message.Embeds[0].Fields[2].Value)
	platform.AssertExpectations(t)
}

func TestHandleTempMute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		timeout  time.Duration
		wantText string
		wantDur  string
	}{
		{name: "missing duration", args: []string{"<@200>"}, wantText: tempmuteUsage},
		{name: "bad format", args: []string{"<@200>", "10x"}, wantText: "❌ Format de durée invalide. Utilise: 10s, 5m, 2h, 1d"},
		{name: "too long", args: []string{"<@200>", "29d"}, wantText: "❌ La durée maximum est de 28 jours."},
		{name: "ten minutes", args: []string{"<@200>", "10m", "Spam"}, timeout: 10 * time.Minute, wantDur: "10 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, platform := newFeature(t)
			if tt.timeout > 0 {
				until := testNow.Add(tt.timeout)
				platform.On("SetMemberTimeout", mock.Anything, testGuildID, testSubject, &until, "Spam").Return(nil).Once()
			}

			reply := f.HandleTempMute(context.Background(), modCommand("tempmute", entities.PermModerateMembers, tt.args...))
			if tt.wantDur != "" {
				require.Len(t, reply.Message.Embeds, 1)
				assert.Equal(t, "⏱️ Membre temporairement muté", reply.Message.Embeds[0].Title)
				assert.Equal(t, tt.wantDur, reply.Message.Embeds[0].Fields[2].Value)
			} else {
				assert.Equal(t, tt.wantText, reply.Message.Content)
			}
			platform.AssertExpectations(t)
		})
	}
}

func TestHandleUnmuteClearsTimeout(t *testing.T) {
	t.Parallel()
	f, platform := newFeature(t)

	platform.On("SetMemberTimeout", mock.Anything, testGuildID, testSubject, (*time.Time)(nil), "").Return(nil).Once()

	reply := f.HandleUnmute(context.Background(), modCommand("unmute", entities.PermModerateMembers, "<@200>"))
	assert.Equal(t, "🔊 Membre démuté", reply.Message.Embeds[0].Title)
	platform.AssertExpectations(t)
}

func TestWarnEscalatesAtThreshold(t *testing.T) {
	t.Parallel()
	f, platform := newFeature(t)

	until := testNow.Add(time.Hour)
	platform.On("SetMemberTimeout", mock.Anything, testGuildID, testSubject, &until, "Sanction automatique : 3 avertissements").Return(nil).Once()

	var reply *common.Reply
	for i := 0; i < 3; i++ {
		reply = f.HandleWarn(context.Background(), modCommand("warn", entities.PermModerateMembers, "<@200>", "insultes"))
	}
	embed := reply.Message.Embeds[0]
	assert.Equal(t, "⚠️ Avertissement", embed.Title)
	assert.Contains(t, embed.Fields, entities.EmbedField{Name: "Total", Value: "3 avertissements", Inline: true})
	assert.Contains(t, embed.Fields, entities.EmbedField{Name: "Sanction automatique", Value: "⏱️ Exclusion temporaire (1h 00min)", Inline: true})
	platform.AssertExpectations(t)

	list := f.HandleWarns(context.Background(), modCommand("warns", entities.PermModerateMembers, "<@200>"))
	require.Len(t, list.Message.Embeds, 1)
	assert.Contains(t, list.Message.Embeds[0].Description, "**#3** insultes")
	assert.Equal(t, "Total : 3 avertissements", list.Message.Embeds[0].Footer)

	cleared := f.HandleClearWarns(context.Background(), modCommand("clearwarns", entities.PermModerateMembers, "<@200>"))
	assert.Equal(t, "🧹 3 avertissements supprimés pour <@200>.", cleared.Message.Content)

	empty := f.HandleWarns(context.Background(), modCommand("warns", entities.PermModerateMembers, "<@200>"))
	assert.Equal(t, "✅ <@200> n'a aucun avertissement.", empty.Message.Content)
}

func TestHandleSayIsOwnerOnly(t *testing.T) {
	t.Parallel()
	f, _ := newFeature(t)

	denied := f.HandleSay(context.Background(), &common.Command{Author: common.Member{ID: testModerator}, Rest: "bonjour"})
	assert.Equal(t, "❌ Cette commande est réservée au propriétaire du bot.", denied.Message.Content)

	usage := f.HandleSayEmbed(context.Background(), &common.Command{Author: common.Member{ID: testOwnerID}})
	assert.Equal(t, "❌ Usage: `!sayembed <message>`", usage.Message.Content)

	said := f.HandleSay(context.Background(), &common.Command{Author: common.Member{ID: testOwnerID}, Rest: "bonjour"})
	assert.Equal(t, "bonjour", said.Message.Content)
	assert.True(t, said.DeleteSource)
}

func TestNotices(t *testing.T) {
	t.Parallel()

	kick := AutoSanctionNotice(events.AutoSanctionEvent{SubjectID: 200, Sanction: "kick", WarnCount: 5, Failed: true})
	assert.Contains(t, kick.Embeds[0].Description, "**5 avertissements**")
	assert.Contains(t, kick.Embeds[0].Description, "👢 Expulsion")
	assert.Contains(t, kick.Embeds[0].Description, "n'a pas pu être appliquée")

	spam := SpamNotice(events.SpamDetectedEvent{UserID: 200, TimeoutDuration: 5 * time.Minute})
	assert.Equal(t, "<@200> a été rendu muet pendant **5min 00s** pour spam.", spam.Embeds[0].Description)
}
