package services

import (
	"context"
	"fmt"
	"time"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/events"

	log "github.com/sirupsen/logrus"
)

type claimRegistry struct {
	config *config.Config
	store  interfaces.StateStore
}

// NewClaimRegistry creates the single-winner claim resolver
func NewClaimRegistry(cfg *config.Config, store interfaces.StateStore) interfaces.ClaimRegistry {
	return &claimRegistry{config: cfg, store: store}
}

// RegisterWelcome records the claim for a member's welcome message,
// replacing any earlier one for the same member
func (r *claimRegistry) RegisterWelcome(ctx context.Context, claim entities.WelcomeClaim) error {
	if claim.TargetUserID == 0 || claim.SourceMessageID == 0 {
		return entities.ErrInvalidArgument
	}
	claim.Claimed = false
	claim.ClaimedBy = nil
	err := r.store.Mutate(ctx, []entities.Key{entities.WelcomeKey(claim.TargetUserID)}, func(tx interfaces.StateTx) error {
		tx.PutWelcomeClaim(&claim)
		return nil
	})
	if err := tolerateDurability(err, "register_welcome"); err != nil {
		return fmt.Errorf("failed to register welcome claim: %w", err)
	}
	return nil
}

// RemoveWelcome drops the claim of a member; unknown members are ignored
func (r *claimRegistry) RemoveWelcome(ctx context.Context, targetUserID int64) error {
	err := r.store.Mutate(ctx, []entities.Key{entities.WelcomeKey(targetUserID)}, func(tx interfaces.StateTx) error {
		if tx.WelcomeClaim(targetUserID) != nil {
			tx.DeleteWelcomeClaim(targetUserID)
		}
		return nil
	})
	if err := tolerateDurability(err, "remove_welcome"); err != nil {
		return fmt.Errorf("failed to remove welcome claim: %w", err)
	}
	return nil
}

// RemoveWelcomeByMessage drops the claim backed by a message that was
// deleted outside the bot
func (r *claimRegistry) RemoveWelcomeByMessage(ctx context.Context, messageID int64) error {
	var target int64
	if err := r.store.View(ctx, func(v interfaces.StateView) error {
		for _, c := range v.WelcomeClaims() {
			if c.SourceMessageID == messageID {
				target = c.TargetUserID
				return nil
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to look up welcome claim: %w", err)
	}
	if target == 0 {
		return nil
	}

	err := r.store.Mutate(ctx, []entities.Key{entities.WelcomeKey(target)}, func(tx interfaces.StateTx) error {
		// the member may have rejoined with a new message in the meantime
		if c := tx.WelcomeClaim(target); c != nil && c.SourceMessageID == messageID {
			tx.DeleteWelcomeClaim(target)
		}
		return nil
	})
	if err := tolerateDurability(err, "remove_welcome_by_message"); err != nil {
		return fmt.Errorf("failed to remove welcome claim: %w", err)
	}
	return nil
}

// StartDrop records an open currency drop
func (r *claimRegistry) StartDrop(ctx context.Context, drop entities.CurrencyDrop) error {
	if drop.MessageID == 0 || drop.Amount <= 0 || !drop.ExpiresAt.After(drop.CreatedAt) {
		return entities.ErrInvalidArgument
	}
	drop.Status = entities.DropStatusOpen
	drop.ClaimedBy = nil
	err := r.store.Mutate(ctx, []entities.Key{entities.DropKey(drop.MessageID)}, func(tx interfaces.StateTx) error {
		tx.PutDrop(&drop)
		return nil
	})
	if err := tolerateDurability(err, "start_drop"); err != nil {
		return fmt.Errorf("failed to start drop: %w", err)
	}
	return nil
}

// ExpireDrop closes a drop when its timer fires. The record is removed either
// way; a drop that was already won reports ErrAlreadyClaimed.
func (r *claimRegistry) ExpireDrop(ctx context.Context, messageID int64, now time.Time) (*entities.CurrencyDrop, error) {
	var expired *entities.CurrencyDrop
	err := r.store.Mutate(ctx, []entities.Key{entities.DropKey(messageID)}, func(tx interfaces.StateTx) error {
		d := tx.Drop(messageID)
		if d == nil {
			return entities.ErrNotFound
		}
		tx.DeleteDrop(messageID)
		if d.Status == entities.DropStatusClaimed {
			return nil
		}
		d.Status = entities.DropStatusExpired
		tx.Publish(events.DropExpiredEvent{
			MessageID: d.MessageID,
			ChannelID: d.ChannelID,
			Amount:    d.Amount,
		})
		expired = d
		return nil
	})
	if err := tolerateDurability(err, "expire_drop"); err != nil {
		return nil, fmt.Errorf("failed to expire drop: %w", err)
	}
	if expired == nil {
		return nil, entities.ErrAlreadyClaimed
	}
	log.WithFields(log.Fields{
		"messageId": messageID,
		"amount":    expired.Amount,
		"late":      now.Sub(expired.ExpiresAt),
	}).Debug("Drop expired")
	return expired, nil
}

// TryClaim flips the claim and pays the claimant in one critical section
func (r *claimRegistry) TryClaim(ctx context.Context, id entities.ClaimID, claimantID int64, now time.Time) (*interfaces.ClaimResult, error) {
	var result *interfaces.ClaimResult
	keys := []entities.Key{entities.ClaimKey(id), entities.UserKey(claimantID)}

	err := r.store.Mutate(ctx, keys, func(tx interfaces.StateTx) error {
		var err error
		switch id.Kind {
		case entities.ClaimKindWelcome:
			result, err = r.claimWelcome(tx, id, claimantID)
		case entities.ClaimKindDrop:
			result, err = r.claimDrop(tx, id, claimantID, now)
		default:
			err = entities.ErrInvalidArgument
		}
		return err
	})
	if err := tolerateDurability(err, "try_claim"); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *claimRegistry) claimWelcome(tx interfaces.StateTx, id entities.ClaimID, claimantID int64) (*interfaces.ClaimResult, error) {
	c := tx.WelcomeClaim(id.ID)
	if c == nil {
		return nil, entities.ErrNotFound
	}
	if c.Claimed {
		return nil, entities.ErrAlreadyClaimed
	}
	if c.TargetUserID == claimantID {
		return nil, entities.ErrSelfClaimForbidden
	}

	reward := r.config.WelcomeButtonReward
	claimant := tx.User(claimantID)
	if err := creditCurrency(tx, claimant, reward, events.CurrencySourceWelcome); err != nil {
		return nil, err
	}
	c.Claimed = true
	c.ClaimedBy = &claimantID
	tx.PutWelcomeClaim(c)
	tx.PutUser(claimant)
	tx.Publish(events.WelcomeClaimedEvent{
		TargetUserID: c.TargetUserID,
		ClaimantID:   claimantID,
		Reward:       reward,
	})

	return &interfaces.ClaimResult{
		ClaimID:         id,
		ClaimantID:      claimantID,
		Reward:          reward,
		SourceMessageID: c.SourceMessageID,
		ChannelID:       c.ChannelID,
	}, nil
}

func (r *claimRegistry) claimDrop(tx interfaces.StateTx, id entities.ClaimID, claimantID int64, now time.Time) (*interfaces.ClaimResult, error) {
	d := tx.Drop(id.ID)
	if d == nil || d.Status == entities.DropStatusExpired {
		return nil, entities.ErrNotFound
	}
	if d.Status == entities.DropStatusClaimed {
		return nil, entities.ErrAlreadyClaimed
	}
	if !d.IsOpenAt(now) {
		return nil, entities.ErrNotFound
	}

	claimant := tx.User(claimantID)
	if err := creditCurrency(tx, claimant, d.Amount, events.CurrencySourceDrop); err != nil {
		return nil, err
	}
	d.Status = entities.DropStatusClaimed
	d.ClaimedBy = &claimantID
	tx.PutDrop(d)
	tx.PutUser(claimant)
	tx.Publish(events.DropClaimedEvent{
		MessageID:  d.MessageID,
		ChannelID:  d.ChannelID,
		ClaimantID: claimantID,
		Amount:     d.Amount,
	})

	return &interfaces.ClaimResult{
		ClaimID:         id,
		ClaimantID:      claimantID,
		Reward:          d.Amount,
		SourceMessageID: d.MessageID,
		ChannelID:       d.ChannelID,
	}, nil
}
