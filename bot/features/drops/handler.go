package drops

import (
	"context"
	"errors"
	"fmt"

	"riobot/domain/entities"

	log "github.com/sirupsen/logrus"
)

// Reaction is a reaction added to a message
type Reaction struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
	UserID    int64
	Emoji     string
}

// HandleReaction claims the drop carried by the message, if any. Reactions on
// other messages and late reactions are ignored.
func (f *Feature) HandleReaction(ctx context.Context, r Reaction) error {
	if r.Emoji != DropEmoji || r.UserID == 0 || r.UserID == f.platform.SelfID() {
		return nil
	}

	result, err := f.claims.TryClaim(ctx, entities.ClaimID{Kind: entities.ClaimKindDrop, ID: r.MessageID}, r.UserID, f.now())
	if errors.Is(err, entities.ErrNotFound) || errors.Is(err, entities.ErrAlreadyClaimed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to claim drop: %w", err)
	}

	log.WithFields(log.Fields{
		"messageId": r.MessageID,
		"userId":    r.UserID,
		"amount":    result.Reward,
	}).Info("Currency drop claimed")

	err = f.platform.EditMessage(ctx, result.ChannelID, result.SourceMessageID, dropClaimed(r.UserID, result.Reward))
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return fmt.Errorf("failed to announce drop winner: %w", err)
	}
	return nil
}
