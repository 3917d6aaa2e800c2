package common

import (
	"fmt"
	"testing"
	"time"

	"riobot/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttons(n int) []entities.ButtonSpec {
	out := make([]entities.ButtonSpec, n)
	for i := range out {
		out[i] = entities.ButtonSpec{Label: fmt.Sprintf("b%d", i), CustomID: fmt.Sprintf("rio:voice_lock:%d", i)}
	}
	return out
}

func TestToComponentsRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		buttons  int
		wantRows []int
	}{
		{"none", 0, nil},
		{"single row", 4, []int{4}},
		{"exactly five", 5, []int{5}},
		{"two rows", 6, []int{5, 1}},
		{"capped at five rows", 30, []int{5, 5, 5, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rows := ToComponents(buttons(tt.buttons))
			var sizes []int
			for _, r := range rows {
				sizes = append(sizes, len(r.(discordgo.ActionsRow).Components))
			}
			assert.Equal(t, tt.wantRows, sizes)
		})
	}
}

func TestToEmbed(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	embed := ToEmbed(entities.EmbedSpec{
		Title:        "🏆 Classement des membres",
		Color:        ColorGold,
		Fields:       []entities.EmbedField{{Name: "a", Value: "b", Inline: true}},
		Footer:       entities.PanelKindLeaderboard.Marker(),
		ThumbnailURL: "https://cdn/avatar.png",
		Timestamp:    &ts,
	})

	assert.Equal(t, "🏆 Classement des membres", embed.Title)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "riobot:panel:leaderboard", embed.Footer.Text)
	require.Len(t, embed.Fields, 1)
	assert.True(t, embed.Fields[0].Inline)
	assert.Equal(t, "2025-03-01T12:00:00Z", embed.Timestamp)
	assert.Nil(t, embed.Image)
}

func TestToMessageEditClearsComponents(t *testing.T) {
	t.Parallel()

	edit := ToMessageEdit(1, 2, entities.MessageSpec{Content: "fini", ClearComponents: true})
	require.NotNil(t, edit.Components)
	assert.Empty(t, *edit.Components)
	assert.Equal(t, "fini", *edit.Content)

	keep := ToMessageEdit(1, 2, entities.MessageSpec{Content: "maj"})
	assert.Nil(t, keep.Components)
}

func TestToMessageSendReply(t *testing.T) {
	t.Parallel()

	send := ToMessageSend(10, entities.MessageSpec{Content: "salut", ReplyTo: 99})
	require.NotNil(t, send.Reference)
	assert.Equal(t, "99", send.Reference.MessageID)
	assert.Equal(t, "10", send.Reference.ChannelID)
}

func TestModalValues(t *testing.T) {
	t.Parallel()

	data := discordgo.ModalSubmitInteractionData{
		CustomID: "rio:voice_limit_form",
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "limit", Value: "5"},
			}},
		},
	}
	assert.Equal(t, map[string]string{"limit": "5"}, ModalValues(data))
}
