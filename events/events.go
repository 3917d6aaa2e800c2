package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeLevelUp             EventType = "level_up"
	EventTypeCurrencyChanged     EventType = "currency_changed"
	EventTypeWelcomeClaimed      EventType = "welcome_claimed"
	EventTypeDropClaimed         EventType = "drop_claimed"
	EventTypeDropExpired         EventType = "drop_expired"
	EventTypeTicketOpened        EventType = "ticket_opened"
	EventTypeTicketClaimed       EventType = "ticket_claimed"
	EventTypeTicketClosing       EventType = "ticket_closing"
	EventTypeTicketDeleted       EventType = "ticket_deleted"
	EventTypeVoiceChannelCreated EventType = "voice_channel_created"
	EventTypeVoiceChannelDeleted EventType = "voice_channel_deleted"
	EventTypeWarnAdded           EventType = "warn_added"
	EventTypeAutoSanction        EventType = "auto_sanction"
	EventTypeSpamDetected        EventType = "spam_detected"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// Publisher accepts events for delivery
type Publisher interface {
	Publish(event Event) error
}

// LevelUpEvent is emitted when an XP grant crosses a level boundary
type LevelUpEvent struct {
	UserID         int64 `json:"userId"`
	GuildID        int64 `json:"guildId"`
	ChannelID      int64 `json:"channelId"`
	OldLevel       int   `json:"oldLevel"`
	NewLevel       int   `json:"newLevel"`
	CurrencyReward int64 `json:"currencyReward"`
}

func (e LevelUpEvent) Type() EventType { return EventTypeLevelUp }

// CurrencySource names why a balance changed
type CurrencySource string

const (
	CurrencySourceLevelUp  CurrencySource = "level_up"
	CurrencySourceWelcome  CurrencySource = "welcome"
	CurrencySourceDrop     CurrencySource = "drop"
	CurrencySourceDaily    CurrencySource = "daily"
	CurrencySourceWork     CurrencySource = "work"
	CurrencySourceTransfer CurrencySource = "transfer"
	CurrencySourcePurchase CurrencySource = "purchase"
	CurrencySourceGrant    CurrencySource = "grant"
)

// CurrencyChangedEvent records a balance change
type CurrencyChangedEvent struct {
	UserID     int64          `json:"userId"`
	OldBalance int64          `json:"oldBalance"`
	NewBalance int64          `json:"newBalance"`
	Source     CurrencySource `json:"source"`
}

func (e CurrencyChangedEvent) Type() EventType { return EventTypeCurrencyChanged }

// WelcomeClaimedEvent is emitted when a welcome reward is won
type WelcomeClaimedEvent struct {
	TargetUserID int64 `json:"targetUserId"`
	ClaimantID   int64 `json:"claimantId"`
	Reward       int64 `json:"reward"`
}

func (e WelcomeClaimedEvent) Type() EventType { return EventTypeWelcomeClaimed }

// DropClaimedEvent is emitted when a currency drop is won
type DropClaimedEvent struct {
	MessageID  int64 `json:"messageId"`
	ChannelID  int64 `json:"channelId"`
	ClaimantID int64 `json:"claimantId"`
	Amount     int64 `json:"amount"`
}

func (e DropClaimedEvent) Type() EventType { return EventTypeDropClaimed }

// DropExpiredEvent is emitted when nobody claimed a drop in time
type DropExpiredEvent struct {
	MessageID int64 `json:"messageId"`
	ChannelID int64 `json:"channelId"`
	Amount    int64 `json:"amount"`
}

func (e DropExpiredEvent) Type() EventType { return EventTypeDropExpired }

// TicketEvent carries every ticket lifecycle transition
type TicketEvent struct {
	Kind        EventType `json:"kind"`
	ChannelID   int64     `json:"channelId"`
	GuildID     int64     `json:"guildId"`
	RequesterID int64     `json:"requesterId"`
	ActorID     int64     `json:"actorId"`
	Category    string    `json:"category"`
}

func (e TicketEvent) Type() EventType { return e.Kind }

// VoiceChannelEvent is emitted when an ephemeral voice room appears or disappears
type VoiceChannelEvent struct {
	Kind      EventType `json:"kind"`
	ChannelID int64     `json:"channelId"`
	GuildID   int64     `json:"guildId"`
	OwnerID   int64     `json:"ownerId"`
}

func (e VoiceChannelEvent) Type() EventType { return e.Kind }

// WarnAddedEvent records a new warn
type WarnAddedEvent struct {
	SubjectID   int64  `json:"subjectId"`
	ModeratorID int64  `json:"moderatorId"`
	Seq         int64  `json:"seq"`
	Count       int    `json:"count"`
	Reason      string `json:"reason"`
	Automatic   bool   `json:"automatic"`
}

func (e WarnAddedEvent) Type() EventType { return EventTypeWarnAdded }

// AutoSanctionEvent is emitted after a threshold sanction was applied
type AutoSanctionEvent struct {
	GuildID   int64         `json:"guildId"`
	ChannelID int64         `json:"channelId"`
	SubjectID int64         `json:"subjectId"`
	Sanction  string        `json:"sanction"`
	WarnCount int           `json:"warnCount"`
	Duration  time.Duration `json:"duration,omitempty"`
	Reason    string        `json:"reason"`
	Failed    bool          `json:"failed,omitempty"`
	// Automatic is set when the triggering warn came from the spam detector
	Automatic bool `json:"automatic,omitempty"`
}

func (e AutoSanctionEvent) Type() EventType { return EventTypeAutoSanction }

// SpamDetectedEvent is emitted when the burst detector fires
type SpamDetectedEvent struct {
	GuildID         int64         `json:"guildId"`
	ChannelID       int64         `json:"channelId"`
	UserID          int64         `json:"userId"`
	MessageCount    int           `json:"messageCount"`
	DeletedMessages int           `json:"deletedMessages"`
	TimeoutDuration time.Duration `json:"timeoutDuration"`
}

func (e SpamDetectedEvent) Type() EventType { return EventTypeSpamDetected }

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	wg       sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit dispatches an event to all registered handlers asynchronously
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Publish implements Publisher by emitting with a background context
func (b *Bus) Publish(event Event) error {
	b.Emit(context.Background(), event)
	return nil
}

// Wait blocks until every handler started so far has returned
func (b *Bus) Wait() {
	b.wg.Wait()
}

// TransactionalBus holds events raised inside a state mutation until the
// mutation is applied. Rejected mutations discard them.
type TransactionalBus struct {
	real    Publisher
	pending []Event
}

func NewTransactionalBus(real Publisher) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Pending returns the number of buffered events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

// Flush forwards buffered events; called after the mutation is applied
func (b *TransactionalBus) Flush() {
	if b.real == nil {
		b.pending = nil
		return
	}
	for _, ev := range b.pending {
		if err := b.real.Publish(ev); err != nil {
			log.WithError(err).WithField("eventType", ev.Type()).Warn("Failed to publish event")
		}
	}
	b.pending = nil
}

// Discard drops buffered events; called when the mutation is rejected
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
