package bot

import (
	"errors"
	"net/http"
	"testing"

	"riobot/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restError(status, code int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Code: code, Message: "test"},
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unknown channel", restError(http.StatusNotFound, discordgo.ErrCodeUnknownChannel), entities.ErrPlatformNotFound},
		{"unknown message", restError(http.StatusNotFound, discordgo.ErrCodeUnknownMessage), entities.ErrPlatformNotFound},
		{"unknown member", restError(http.StatusNotFound, discordgo.ErrCodeUnknownMember), entities.ErrPlatformNotFound},
		{"missing permissions", restError(http.StatusForbidden, discordgo.ErrCodeMissingPermissions), entities.ErrPlatformForbidden},
		{"missing access", restError(http.StatusForbidden, discordgo.ErrCodeMissingAccess), entities.ErrPlatformForbidden},
		{"rate limited status", restError(http.StatusTooManyRequests, 0), entities.ErrPlatformRateLimited},
		{"plain 404", restError(http.StatusNotFound, 0), entities.ErrPlatformNotFound},
		{"plain 403", restError(http.StatusForbidden, 0), entities.ErrPlatformForbidden},
		{"rate limit error", &discordgo.RateLimitError{RateLimit: &discordgo.RateLimit{TooManyRequests: &discordgo.TooManyRequests{}, URL: "/channels"}}, entities.ErrPlatformRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mapped := mapError(tt.err)
			assert.ErrorIs(t, mapped, tt.want)
			// the platform error stays reachable behind the class
			assert.ErrorIs(t, mapped, tt.err)
		})
	}
}

func TestMapErrorKeepsRESTError(t *testing.T) {
	t.Parallel()

	mapped := mapError(restError(http.StatusForbidden, discordgo.ErrCodeMissingPermissions))

	var restErr *discordgo.RESTError
	require.True(t, errors.As(mapped, &restErr))
	assert.Equal(t, http.StatusForbidden, restErr.Response.StatusCode)
	assert.Equal(t, discordgo.ErrCodeMissingPermissions, restErr.Message.Code)
	assert.ErrorIs(t, mapped, entities.ErrPlatformForbidden)
}

func TestMapErrorPassThrough(t *testing.T) {
	t.Parallel()

	assert.NoError(t, mapError(nil))

	other := errors.New("websocket closed")
	assert.Equal(t, other, mapError(other))

	server := restError(http.StatusInternalServerError, 0)
	mapped := mapError(server)
	assert.False(t, entities.IsTransientPlatformError(mapped))
	assert.NotErrorIs(t, mapped, entities.ErrNotFound)
}

func TestNotFoundIsDomainNotFound(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, mapError(restError(http.StatusNotFound, discordgo.ErrCodeUnknownChannel)), entities.ErrNotFound)
}
