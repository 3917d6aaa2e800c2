package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"riobot/domain/entities"
	"riobot/domain/interfaces"
)

type cooldownGate struct {
	store interfaces.StateStore
}

// NewCooldownGate creates the per-user, per-action gate
func NewCooldownGate(store interfaces.StateStore) interfaces.CooldownGate {
	return &cooldownGate{store: store}
}

// TryConsume allows the action when the window since the last allowed one has
// elapsed, recording now as the new last action
func (g *cooldownGate) TryConsume(ctx context.Context, userID int64, kind entities.ActionKind, now time.Time, window time.Duration) (interfaces.CooldownResult, error) {
	if window < 0 {
		return interfaces.CooldownResult{}, entities.ErrInvalidArgument
	}

	var result interfaces.CooldownResult
	err := g.store.Mutate(ctx, []entities.Key{entities.UserKey(userID)}, func(tx interfaces.StateTx) error {
		u := tx.User(userID)
		allowed, remaining := u.TryConsume(kind, now, window)
		if !allowed {
			result.Remaining = remaining
			return errDenied
		}
		result.Allowed = true
		tx.PutUser(u)
		return nil
	})
	if errors.Is(err, errDenied) {
		return result, nil
	}
	if err := tolerateDurability(err, "cooldown"); err != nil {
		return interfaces.CooldownResult{}, fmt.Errorf("failed to consume cooldown: %w", err)
	}
	return result, nil
}
