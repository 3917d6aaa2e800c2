package entities

import (
	"sort"
	"time"
)

// ActionKind names an independently gated user action
type ActionKind string

const (
	ActionMessageReward ActionKind = "message_reward"
	ActionDailyClaim    ActionKind = "daily_claim"
	ActionHourlyWork    ActionKind = "hourly_work"
	ActionVoiceSession  ActionKind = "voice_session"
)

// UserAccount holds a member's progression and wallet.
// Level is derived from XP and only changes through AddXP.
type UserAccount struct {
	UserID                int64                    `json:"userId"`
	XP                    int64                    `json:"xp"`
	Level                 int                      `json:"level"`
	Currency              int64                    `json:"currency"`
	LastActionAt          map[ActionKind]time.Time `json:"lastActionAt,omitempty"`
	VoiceMinutesTotal     int64                    `json:"voiceMinutesTotal"`
	VoiceSessionStartedAt *time.Time               `json:"voiceSessionStartedAt,omitempty"`
	Inventory             map[string]bool          `json:"inventory,omitempty"`
	CreatedAt             time.Time                `json:"createdAt"`
}

// NewUserAccount returns the zero-state account used for lazily created members
func NewUserAccount(userID int64) *UserAccount {
	return &UserAccount{
		UserID: userID,
		Level:  1,
	}
}

// LevelUp reports the effect of an XP grant
type LevelUp struct {
	LeveledUp      bool
	OldLevel       int
	NewLevel       int
	CurrencyReward int64
	Progress       LevelProgress
}

// AddXP adds a positive amount, recomputes the level and pays the level-up reward
func (u *UserAccount) AddXP(amount int64) (LevelUp, error) {
	if amount <= 0 {
		return LevelUp{}, ErrInvalidArgument
	}
	oldLevel := u.Level
	if oldLevel < 1 {
		oldLevel = 1
	}
	u.XP += amount
	progress := LevelOf(u.XP)
	u.Level = progress.Level

	result := LevelUp{OldLevel: oldLevel, NewLevel: progress.Level, Progress: progress}
	if progress.Level > oldLevel {
		result.LeveledUp = true
		result.CurrencyReward = int64(progress.Level) * LevelUpRewardPerLevel
		u.Currency += result.CurrencyReward
	}
	return result, nil
}

// AddCurrency credits a positive amount
func (u *UserAccount) AddCurrency(amount int64) error {
	if amount <= 0 {
		return ErrInvalidArgument
	}
	u.Currency += amount
	return nil
}

// SpendCurrency debits a positive amount, never going below zero
func (u *UserAccount) SpendCurrency(amount int64) error {
	if amount <= 0 {
		return ErrInvalidArgument
	}
	if u.Currency < amount {
		return ErrInsufficientFunds
	}
	u.Currency -= amount
	return nil
}

// TryConsume is the check-and-set for a cooldown window.
// It returns the remaining wait when denied.
func (u *UserAccount) TryConsume(kind ActionKind, now time.Time, window time.Duration) (bool, time.Duration) {
	last, ok := u.LastActionAt[kind]
	if ok {
		elapsed := now.Sub(last)
		if elapsed < window {
			return false, window - elapsed
		}
	}
	if u.LastActionAt == nil {
		u.LastActionAt = make(map[ActionKind]time.Time)
	}
	u.LastActionAt[kind] = now
	return true, 0
}

// HasItem reports inventory membership
func (u *UserAccount) HasItem(itemID string) bool {
	return u.Inventory[itemID]
}

// AddItem puts an item into the inventory
func (u *UserAccount) AddItem(itemID string) {
	if u.Inventory == nil {
		u.Inventory = make(map[string]bool)
	}
	u.Inventory[itemID] = true
}

// Items returns the inventory as a sorted slice
func (u *UserAccount) Items() []string {
	items := make([]string, 0, len(u.Inventory))
	for id, owned := range u.Inventory {
		if owned {
			items = append(items, id)
		}
	}
	sort.Strings(items)
	return items
}

// Progress returns the level progress of the account
func (u *UserAccount) Progress() LevelProgress {
	return LevelOf(u.XP)
}

// Clone returns a deep copy
func (u *UserAccount) Clone() *UserAccount {
	if u == nil {
		return nil
	}
	c := *u
	if u.LastActionAt != nil {
		c.LastActionAt = make(map[ActionKind]time.Time, len(u.LastActionAt))
		for k, v := range u.LastActionAt {
			c.LastActionAt[k] = v
		}
	}
	if u.VoiceSessionStartedAt != nil {
		t := *u.VoiceSessionStartedAt
		c.VoiceSessionStartedAt = &t
	}
	if u.Inventory != nil {
		c.Inventory = make(map[string]bool, len(u.Inventory))
		for k, v := range u.Inventory {
			c.Inventory[k] = v
		}
	}
	return &c
}
