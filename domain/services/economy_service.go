package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/events"
	"riobot/infrastructure/observability"
)

type economyService struct {
	config *config.Config
	store  interfaces.StateStore
	// randBetween returns a value in [lo, hi]
	randBetween func(lo, hi int64) int64
}

// NewEconomyService creates the currency and experience engine
func NewEconomyService(cfg *config.Config, store interfaces.StateStore) interfaces.EconomyService {
	return &economyService{
		config: cfg,
		store:  store,
		randBetween: func(lo, hi int64) int64 {
			return lo + rand.Int64N(hi-lo+1)
		},
	}
}

func (s *economyService) mutateUser(ctx context.Context, userID int64, op string, fn func(tx interfaces.StateTx, u *entities.UserAccount) error) error {
	err := s.store.Mutate(ctx, []entities.Key{entities.UserKey(userID)}, func(tx interfaces.StateTx) error {
		u := tx.User(userID)
		if err := fn(tx, u); err != nil {
			return err
		}
		tx.PutUser(u)
		return nil
	})
	return tolerateDurability(err, op)
}

// addXP applies an XP grant to an account inside a mutation and stages the
// level-up events
func addXP(tx interfaces.StateTx, u *entities.UserAccount, amount int64) (*interfaces.XPGrantResult, error) {
	before := u.Currency
	lvl, err := u.AddXP(amount)
	if err != nil {
		return nil, err
	}
	result := &interfaces.XPGrantResult{
		LeveledUp:      lvl.LeveledUp,
		NewLevel:       lvl.NewLevel,
		CurrencyReward: lvl.CurrencyReward,
	}
	if lvl.LeveledUp {
		tx.Publish(events.LevelUpEvent{
			UserID:         u.UserID,
			OldLevel:       lvl.OldLevel,
			NewLevel:       lvl.NewLevel,
			CurrencyReward: lvl.CurrencyReward,
		})
		tx.Publish(events.CurrencyChangedEvent{
			UserID:     u.UserID,
			OldBalance: before,
			NewBalance: u.Currency,
			Source:     events.CurrencySourceLevelUp,
		})
	}
	return result, nil
}

// creditCurrency adds amount to an account inside a mutation
func creditCurrency(tx interfaces.StateTx, u *entities.UserAccount, amount int64, source events.CurrencySource) error {
	before := u.Currency
	if err := u.AddCurrency(amount); err != nil {
		return err
	}
	tx.Publish(events.CurrencyChangedEvent{
		UserID:     u.UserID,
		OldBalance: before,
		NewBalance: u.Currency,
		Source:     source,
	})
	observability.GetMetrics().RecordCurrencyTransaction(string(source))
	return nil
}

func debitCurrency(tx interfaces.StateTx, u *entities.UserAccount, amount int64, source events.CurrencySource) error {
	before := u.Currency
	if err := u.SpendCurrency(amount); err != nil {
		return err
	}
	tx.Publish(events.CurrencyChangedEvent{
		UserID:     u.UserID,
		OldBalance: before,
		NewBalance: u.Currency,
		Source:     source,
	})
	observability.GetMetrics().RecordCurrencyTransaction(string(source))
	return nil
}

// GrantXP adds a positive amount of XP and pays the level-up reward
func (s *economyService) GrantXP(ctx context.Context, userID, amount int64) (*interfaces.XPGrantResult, error) {
	if amount <= 0 {
		return nil, entities.ErrInvalidArgument
	}
	var result *interfaces.XPGrantResult
	err := s.mutateUser(ctx, userID, "grant_xp", func(tx interfaces.StateTx, u *entities.UserAccount) error {
		r, err := addXP(tx, u, amount)
		if err != nil {
			return err
		}
		r.Account = u.Clone()
		result = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to grant xp: %w", err)
	}
	return result, nil
}

// GrantCurrency credits a positive amount
func (s *economyService) GrantCurrency(ctx context.Context, userID, amount int64) (*entities.UserAccount, error) {
	if amount <= 0 {
		return nil, entities.ErrInvalidArgument
	}
	var account *entities.UserAccount
	err := s.mutateUser(ctx, userID, "grant_currency", func(tx interfaces.StateTx, u *entities.UserAccount) error {
		if err := creditCurrency(tx, u, amount, events.CurrencySourceGrant); err != nil {
			return err
		}
		account = u.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to grant currency: %w", err)
	}
	return account, nil
}

// SpendCurrency debits a positive amount; it never drives the balance negative
func (s *economyService) SpendCurrency(ctx context.Context, userID, amount int64) (*entities.UserAccount, error) {
	if amount <= 0 {
		return nil, entities.ErrInvalidArgument
	}
	var account *entities.UserAccount
	err := s.mutateUser(ctx, userID, "spend_currency", func(tx interfaces.StateTx, u *entities.UserAccount) error {
		if err := debitCurrency(tx, u, amount, events.CurrencySourcePurchase); err != nil {
			return err
		}
		account = u.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to spend currency: %w", err)
	}
	return account, nil
}

// Transfer moves currency between two accounts in one critical section
func (s *economyService) Transfer(ctx context.Context, fromUserID, toUserID, amount int64) error {
	if amount <= 0 || fromUserID == toUserID {
		return entities.ErrInvalidArgument
	}
	keys := []entities.Key{entities.UserKey(fromUserID), entities.UserKey(toUserID)}
	err := s.store.Mutate(ctx, keys, func(tx interfaces.StateTx) error {
		from, to := tx.User(fromUserID), tx.User(toUserID)
		if err := debitCurrency(tx, from, amount, events.CurrencySourceTransfer); err != nil {
			return err
		}
		if err := creditCurrency(tx, to, amount, events.CurrencySourceTransfer); err != nil {
			return err
		}
		tx.PutUser(from)
		tx.PutUser(to)
		return nil
	})
	if err := tolerateDurability(err, "transfer"); err != nil {
		return fmt.Errorf("failed to transfer currency: %w", err)
	}
	return nil
}

// BuyItem spends the item price and adds it to the inventory atomically
func (s *economyService) BuyItem(ctx context.Context, userID int64, itemID string) (*entities.UserAccount, error) {
	item, ok := entities.FindShopItem(itemID)
	if !ok {
		return nil, entities.ErrUnknownItem
	}
	var account *entities.UserAccount
	err := s.mutateUser(ctx, userID, "buy_item", func(tx interfaces.StateTx, u *entities.UserAccount) error {
		if u.HasItem(item.ID) {
			return entities.ErrAlreadyOwned
		}
		if err := debitCurrency(tx, u, item.Price, events.CurrencySourcePurchase); err != nil {
			return err
		}
		u.AddItem(item.ID)
		account = u.Clone()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to buy %s: %w", item.ID, err)
	}
	return account, nil
}

// RewardMessage gates the message reward and grants XP in the same section,
// so two messages racing inside the window cannot both be rewarded
func (s *economyService) RewardMessage(ctx context.Context, userID int64, now time.Time) (*interfaces.MessageRewardResult, error) {
	result := &interfaces.MessageRewardResult{}
	err := s.mutateUser(ctx, userID, "reward_message", func(tx interfaces.StateTx, u *entities.UserAccount) error {
		allowed, remaining := u.TryConsume(entities.ActionMessageReward, now, s.config.XPCooldown)
		if !allowed {
			result.Remaining = remaining
			return errDenied
		}
		r, err := addXP(tx, u, s.config.XPPerMessage)
		if err != nil {
			return err
		}
		r.Account = u.Clone()
		result.Rewarded = true
		result.XPGrantResult = *r
		return nil
	})
	if errors.Is(err, errDenied) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reward message: %w", err)
	}
	return result, nil
}

// ClaimDaily grants the daily reward once per cooldown window
func (s *economyService) ClaimDaily(ctx context.Context, userID int64, now time.Time) (*interfaces.TimedRewardResult, error) {
	return s.timedReward(ctx, userID, now, entities.ActionDailyClaim, s.config.DailyCooldown, s.config.DailyReward, events.CurrencySourceDaily)
}

// Work grants a random amount once per work window
func (s *economyService) Work(ctx context.Context, userID int64, now time.Time) (*interfaces.TimedRewardResult, error) {
	amount := s.randBetween(s.config.WorkRewardMin, s.config.WorkRewardMax)
	return s.timedReward(ctx, userID, now, entities.ActionHourlyWork, s.config.WorkCooldown, amount, events.CurrencySourceWork)
}

func (s *economyService) timedReward(ctx context.Context, userID int64, now time.Time, kind entities.ActionKind, window time.Duration, amount int64, source events.CurrencySource) (*interfaces.TimedRewardResult, error) {
	result := &interfaces.TimedRewardResult{}
	err := s.mutateUser(ctx, userID, string(kind), func(tx interfaces.StateTx, u *entities.UserAccount) error {
		allowed, remaining := u.TryConsume(kind, now, window)
		if !allowed {
			result.Remaining = remaining
			result.Balance = u.Currency
			return errDenied
		}
		if err := creditCurrency(tx, u, amount, source); err != nil {
			return err
		}
		result.Granted = true
		result.Amount = amount
		result.Balance = u.Currency
		return nil
	})
	if errors.Is(err, errDenied) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to grant %s reward: %w", kind, err)
	}
	return result, nil
}

// GetAccount returns a copy of the account, or a fresh one for unknown members
func (s *economyService) GetAccount(ctx context.Context, userID int64) (*entities.UserAccount, error) {
	var account *entities.UserAccount
	err := s.store.View(ctx, func(v interfaces.StateView) error {
		if u, ok := v.User(userID); ok {
			account = u
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read account: %w", err)
	}
	if account == nil {
		account = entities.NewUserAccount(userID)
	}
	return account, nil
}

// Leaderboard ranks accounts by XP, ties broken by user id
func (s *economyService) Leaderboard(ctx context.Context, limit int) ([]interfaces.LeaderboardEntry, error) {
	var users []*entities.UserAccount
	if err := s.store.View(ctx, func(v interfaces.StateView) error {
		users = v.Users()
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].XP != users[j].XP {
			return users[i].XP > users[j].XP
		}
		return users[i].UserID < users[j].UserID
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}

	entries := make([]interfaces.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = interfaces.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   u.UserID,
			Level:    u.Progress().Level,
			XP:       u.XP,
			Currency: u.Currency,
		}
	}
	return entries, nil
}
