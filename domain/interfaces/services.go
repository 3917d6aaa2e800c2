package interfaces

import (
	"context"
	"time"

	"riobot/domain/entities"
)

// XPGrantResult reports the effect of GrantXP
type XPGrantResult struct {
	LeveledUp      bool
	NewLevel       int
	CurrencyReward int64
	Account        *entities.UserAccount
}

// MessageRewardResult reports the message XP path
type MessageRewardResult struct {
	Rewarded  bool
	Remaining time.Duration
	XPGrantResult
}

// TimedRewardResult reports a daily or work claim
type TimedRewardResult struct {
	Granted   bool
	Amount    int64
	Remaining time.Duration
	Balance   int64
}

// LeaderboardEntry is one ranked account
type LeaderboardEntry struct {
	Rank     int
	UserID   int64
	Level    int
	XP       int64
	Currency int64
}

// EconomyService mutates currency and experience
type EconomyService interface {
	GrantXP(ctx context.Context, userID, amount int64) (*XPGrantResult, error)
	GrantCurrency(ctx context.Context, userID, amount int64) (*entities.UserAccount, error)
	SpendCurrency(ctx context.Context, userID, amount int64) (*entities.UserAccount, error)
	Transfer(ctx context.Context, fromUserID, toUserID, amount int64) error
	BuyItem(ctx context.Context, userID int64, itemID string) (*entities.UserAccount, error)

	// RewardMessage applies the message cooldown and the XP grant in one section
	RewardMessage(ctx context.Context, userID int64, now time.Time) (*MessageRewardResult, error)
	ClaimDaily(ctx context.Context, userID int64, now time.Time) (*TimedRewardResult, error)
	Work(ctx context.Context, userID int64, now time.Time) (*TimedRewardResult, error)

	GetAccount(ctx context.Context, userID int64) (*entities.UserAccount, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// CooldownResult reports a gate decision
type CooldownResult struct {
	Allowed   bool
	Remaining time.Duration
}

// CooldownGate is the per-user, per-action check-and-set
type CooldownGate interface {
	TryConsume(ctx context.Context, userID int64, kind entities.ActionKind, now time.Time, window time.Duration) (CooldownResult, error)
}

// ClaimResult reports a won claim
type ClaimResult struct {
	ClaimID    entities.ClaimID
	ClaimantID int64
	Reward     int64
	// SourceMessageID is the message carrying the claim button or reaction
	SourceMessageID int64
	ChannelID       int64
}

// ClaimRegistry resolves single-winner rewards
type ClaimRegistry interface {
	RegisterWelcome(ctx context.Context, claim entities.WelcomeClaim) error
	RemoveWelcome(ctx context.Context, targetUserID int64) error
	RemoveWelcomeByMessage(ctx context.Context, messageID int64) error

	StartDrop(ctx context.Context, drop entities.CurrencyDrop) error
	ExpireDrop(ctx context.Context, messageID int64, now time.Time) (*entities.CurrencyDrop, error)

	// TryClaim flips the claim and grants the reward in one critical section
	TryClaim(ctx context.Context, id entities.ClaimID, claimantID int64, now time.Time) (*ClaimResult, error)
}

// VoiceTransition is one member's voice presence change
type VoiceTransition struct {
	GuildID       int64
	UserID        int64
	DisplayName   string
	FromChannelID int64
	ToChannelID   int64
	At            time.Time
}

// VoiceControl is an owner-only operation on an ephemeral channel
type VoiceControl struct {
	Op        VoiceControlOp
	ActorID   int64
	ChannelID int64
	GuildID   int64
	TargetID  int64
	Limit     int
	Name      string
}

// VoiceControlOp enumerates channel control operations
type VoiceControlOp string

const (
	VoiceOpLock   VoiceControlOp = "lock"
	VoiceOpUnlock VoiceControlOp = "unlock"
	VoiceOpLimit  VoiceControlOp = "limit"
	VoiceOpRename VoiceControlOp = "rename"
	VoiceOpInvite VoiceControlOp = "invite"
	VoiceOpKick   VoiceControlOp = "kick"
)

// VoiceLifecycle manages ephemeral voice channels
type VoiceLifecycle interface {
	HandleTransition(ctx context.Context, t VoiceTransition) error
	Control(ctx context.Context, c VoiceControl) error
	OwnedChannel(ctx context.Context, ownerID int64) (*entities.VoiceChannel, bool)
	// Forget drops the record of a channel deleted outside the bot
	Forget(ctx context.Context, channelID int64) error
	// Sweep deletes recorded channels that are empty, e.g. after a restart
	Sweep(ctx context.Context) error
}

// TicketActor is who is acting on a ticket and which roles they hold
type TicketActor struct {
	UserID       int64
	IsStaff      bool
	HasOwnerRole bool
}

// OpenTicketRequest is a category selection from the ticket panel
type OpenTicketRequest struct {
	GuildID       int64
	RequesterID   int64
	RequesterName string
	Category      entities.TicketCategory
}

// TicketLifecycle manages support tickets
type TicketLifecycle interface {
	Open(ctx context.Context, req OpenTicketRequest) (*entities.SupportTicket, error)
	Claim(ctx context.Context, channelID int64, actor TicketActor) (*entities.SupportTicket, error)
	RequestClose(ctx context.Context, channelID int64, actor TicketActor) (*entities.SupportTicket, error)
	// Finalize deletes a closing ticket; missing tickets or channels are not errors
	Finalize(ctx context.Context, channelID int64) error
	Forget(ctx context.Context, channelID int64) error
	// ResumePending re-schedules deletion of tickets left closing by a restart
	ResumePending(ctx context.Context) error
}

// PanelRequest asks for one live panel message with the given content
type PanelRequest struct {
	GuildID   int64
	Kind      entities.PanelKind
	ChannelID int64
	Content   entities.MessageSpec
}

// SingletonReconciler keeps exactly one live panel per (guild, kind)
type SingletonReconciler interface {
	Reconcile(ctx context.Context, req PanelRequest) (int64, error)
}

// WarnOutcome reports an AddWarn call
type WarnOutcome struct {
	Record      entities.WarnRecord
	Count       int
	Sanction    entities.SanctionKind
	SanctionErr error
}

// WarnInput is a warn to record
type WarnInput struct {
	GuildID     int64
	ChannelID   int64
	SubjectID   int64
	ModeratorID int64
	Reason      string
	Automatic   bool
	At          time.Time
}

// ModerationEscalation records warns and applies threshold sanctions
type ModerationEscalation interface {
	AddWarn(ctx context.Context, in WarnInput) (*WarnOutcome, error)
	ListWarns(ctx context.Context, subjectID int64) ([]entities.WarnRecord, error)
	ClearWarns(ctx context.Context, subjectID int64) (int, error)
}

// Activity is one message observed by the spam detector
type Activity struct {
	GuildID   int64
	ChannelID int64
	UserID    int64
	MessageID int64
	At        time.Time
	// Exempt is set for members holding the manage-messages capability
	Exempt bool
}

// AntiSpamDetector is the sliding-window burst detector
type AntiSpamDetector interface {
	Observe(ctx context.Context, a Activity) (bool, error)
}
