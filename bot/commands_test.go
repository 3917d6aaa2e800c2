package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"riobot/bot/common"
	"riobot/domain/entities"
	"riobot/domain/testhelpers"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantOK   bool
		wantName string
		wantArgs []string
		wantRest string
	}{
		{"bare", "!daily", true, "daily", []string{}, ""},
		{"upper case", "!PROFIL", true, "profil", []string{}, ""},
		{"args", "!pay <@2> 50", true, "pay", []string{"<@2>", "50"}, "<@2> 50"},
		{"keeps spacing in rest", "!say  hello   world ", true, "say", []string{"hello", "world"}, "hello   world"},
		{"multi-line rest", "!sayembed Titre | ligne 1\nligne 2", true, "sayembed", []string{"Titre", "|", "ligne", "1", "ligne", "2"}, "Titre | ligne 1\nligne 2"},
		{"no prefix", "daily", false, "", nil, ""},
		{"prefix only", "!", false, "", nil, ""},
		{"space after prefix", "! daily", false, "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			name, args, rest, ok := splitCommand(tt.content)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestOrderedMentions(t *testing.T) {
	t.Parallel()

	users := []*discordgo.User{
		{ID: "30", Username: "carol"},
		{ID: "20", Username: "bob", GlobalName: "Bobby"},
	}
	args := []string{"<@!20>", "raison", "<@30>", "<@20>", "<@40>"}

	got := orderedMentions(args, users)

	require.Len(t, got, 2)
	assert.Equal(t, int64(20), got[0].ID)
	assert.Equal(t, "Bobby", got[0].Name)
	assert.Equal(t, int64(30), got[1].ID)
	assert.Equal(t, "carol", got[1].Name)
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "500",
		ChannelID: "400",
		GuildID:   "300",
		Content:   "!warn <@2> trop de spam",
		Author:    &discordgo.User{ID: "1", Username: "alice"},
		Member:    &discordgo.Member{Nick: "Ali", Roles: []string{"77", "bad"}},
		Mentions:  []*discordgo.User{{ID: "2", Username: "bob"}},
	}}

	cmd, ok := parseCommand(m, entities.PermModerateMembers)
	require.True(t, ok)

	assert.Equal(t, "warn", cmd.Name)
	assert.Equal(t, int64(300), cmd.GuildID)
	assert.Equal(t, int64(400), cmd.ChannelID)
	assert.Equal(t, int64(500), cmd.MessageID)
	assert.Equal(t, "Ali", cmd.Author.Name)
	assert.Equal(t, []int64{77}, cmd.RoleIDs)
	assert.True(t, cmd.Can(entities.PermModerateMembers))
	target, found := cmd.FirstMention()
	require.True(t, found)
	assert.Equal(t, int64(2), target.ID)
	assert.Equal(t, "<@2> trop de spam", cmd.Rest)
}

func TestDeliverCommandReply(t *testing.T) {
	t.Parallel()

	cmd := &common.Command{Name: "daily", ChannelID: 10, MessageID: 99}

	t.Run("replies to the source", func(t *testing.T) {
		t.Parallel()
		platform := new(testhelpers.MockPlatform)
		platform.On("SendMessage", mock.Anything, int64(10), mock.MatchedBy(func(m entities.MessageSpec) bool {
			return m.ReplyTo == 99 && m.Content == "ok"
		})).Return(int64(1), nil).Once()

		b := &Bot{platform: platform}
		b.deliverCommandReply(context.Background(), cmd, common.Text("ok"))
		platform.AssertExpectations(t)
	})

	t.Run("deletes the source", func(t *testing.T) {
		t.Parallel()
		platform := new(testhelpers.MockPlatform)
		platform.On("DeleteMessage", mock.Anything, int64(10), int64(99)).Return(entities.ErrPlatformNotFound).Once()
		platform.On("SendMessage", mock.Anything, int64(10), mock.MatchedBy(func(m entities.MessageSpec) bool {
			return m.ReplyTo == 0 && m.Content == "annonce"
		})).Return(int64(1), nil).Once()

		b := &Bot{platform: platform}
		b.deliverCommandReply(context.Background(), cmd, &common.Reply{
			Message:      entities.MessageSpec{Content: "annonce"},
			DeleteSource: true,
		})
		platform.AssertExpectations(t)
	})

	t.Run("silent", func(t *testing.T) {
		t.Parallel()
		platform := new(testhelpers.MockPlatform)
		b := &Bot{platform: platform}
		b.deliverCommandReply(context.Background(), cmd, &common.Reply{Silent: true})
		b.deliverCommandReply(context.Background(), cmd, nil)
		platform.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateEdit(t *testing.T) {
	t.Parallel()

	edit := updateEdit("1", "2", &common.Reply{
		Update:  true,
		Message: entities.MessageSpec{ClearComponents: true},
	})
	assert.Nil(t, edit.Content)
	assert.Nil(t, edit.Embeds)
	require.NotNil(t, edit.Components)
	assert.Empty(t, *edit.Components)

	edit = updateEdit("1", "2", &common.Reply{Message: entities.MessageSpec{Content: "fini"}})
	require.NotNil(t, edit.Content)
	assert.Equal(t, "fini", *edit.Content)
	assert.Nil(t, edit.Components)
}

func TestMemberName(t *testing.T) {
	t.Parallel()

	user := &discordgo.User{ID: "1", Username: "alice", GlobalName: "Alice"}
	assert.Equal(t, "Ali", memberName(&discordgo.Member{Nick: "Ali"}, user))
	assert.Equal(t, "Alice", memberName(&discordgo.Member{}, user))
	assert.Equal(t, "alice", memberName(nil, &discordgo.User{Username: "alice"}))
	assert.Equal(t, unknownName, memberName(nil, nil))
}

type staticGuilds []GuildInfo

func (s staticGuilds) GuildInfos() []GuildInfo { return s }

func TestHealthMux(t *testing.T) {
	t.Parallel()

	mux := newHealthMux(staticGuilds{{ID: "1", Name: "Rio", MemberCount: 42}})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"root", http.MethodGet, "/", http.StatusOK, "en ligne"},
		{"health", http.MethodGet, "/health", http.StatusOK, "OK"},
		{"guilds", http.MethodGet, "/debug/guilds", http.StatusOK, `"memberCount":42`},
		{"guilds post", http.MethodPost, "/debug/guilds", http.StatusMethodNotAllowed, ""},
		{"unknown", http.MethodGet, "/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
