package common

import (
	"testing"

	"riobot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		customID string
		want     Action
		wantErr  bool
	}{
		{"legacy welcome", "welcome_123456", Action{Kind: ActionWelcomeClaim, Arg: "123456"}, false},
		{"welcome", "rio:welcome:42", Action{Kind: ActionWelcomeClaim, Arg: "42"}, false},
		{"ticket open", "rio:ticket_open:support", Action{Kind: ActionTicketOpen, Arg: "support"}, false},
		{"ticket close", "rio:ticket_close", Action{Kind: ActionTicketClose}, false},
		{"voice rename form", "rio:voice_rename_form", Action{Kind: ActionVoiceRenameForm}, false},
		{"argument with colon", "rio:ticket_open:a:b", Action{Kind: ActionTicketOpen, Arg: "a:b"}, false},
		{"unknown kind", "rio:bet_high", Action{}, true},
		{"foreign prefix", "lotto_buy_1", Action{}, true},
		{"empty", "", Action{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAction(tt.customID)
			if tt.wantErr {
				require.ErrorIs(t, err, entities.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActionCustomIDRoundTrip(t *testing.T) {
	t.Parallel()

	for _, a := range []Action{
		WelcomeAction(987654321),
		TicketOpenAction(entities.TicketCategoryReport),
		{Kind: ActionVoiceLock},
		{Kind: ActionVoiceKickForm},
	} {
		parsed, err := ParseAction(a.CustomID())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
}

func TestActionInt64Arg(t *testing.T) {
	t.Parallel()

	id, err := WelcomeAction(77).Int64Arg()
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)

	_, err = Action{Kind: ActionWelcomeClaim, Arg: "abc"}.Int64Arg()
	assert.ErrorIs(t, err, entities.ErrInvalidArgument)
}
