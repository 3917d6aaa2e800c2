package interfaces

import (
	"context"

	"riobot/domain/entities"
	"riobot/events"
)

// StateStore is the single owner of all persisted entities. Every write goes
// through Mutate; nothing else holds references to the underlying maps.
type StateStore interface {
	// Mutate locks keys, runs fn against a staged transaction and applies the
	// staged writes only if fn returns nil. The whole document is persisted
	// before Mutate returns. A *entities.PersistenceError means the write was
	// applied in memory but not made durable.
	Mutate(ctx context.Context, keys []entities.Key, fn func(tx StateTx) error) error

	// View runs fn against a consistent read-only snapshot
	View(ctx context.Context, fn func(v StateView) error) error
}

// StateTx is the staged view of locked entities inside Mutate.
// Getters return copies; touching an unlocked key fails the mutation with
// entities.ErrKeyNotLocked.
type StateTx interface {
	// User returns the account, or a fresh level-1 account when absent
	User(userID int64) *entities.UserAccount
	PutUser(account *entities.UserAccount)

	VoiceChannel(channelID int64) *entities.VoiceChannel
	PutVoiceChannel(channel *entities.VoiceChannel)
	DeleteVoiceChannel(channelID int64)

	Ticket(channelID int64) *entities.SupportTicket
	// OpenTicketFor needs the requester key locked
	OpenTicketFor(requesterID int64) *entities.SupportTicket
	PutTicket(ticket *entities.SupportTicket)
	DeleteTicket(channelID int64)

	WelcomeClaim(targetUserID int64) *entities.WelcomeClaim
	PutWelcomeClaim(claim *entities.WelcomeClaim)
	DeleteWelcomeClaim(targetUserID int64)

	Drop(messageID int64) *entities.CurrencyDrop
	PutDrop(drop *entities.CurrencyDrop)
	DeleteDrop(messageID int64)

	Panel(guildID int64, kind entities.PanelKind) *entities.PanelArtifact
	PutPanel(panel *entities.PanelArtifact)

	// Warns returns the ledger, or an empty one for the subject
	Warns(subjectID int64) *entities.WarnLedger
	PutWarns(ledger *entities.WarnLedger)

	// Publish buffers an event until the mutation is applied
	Publish(event events.Event)

	// Acquire locks the key of an entity created inside this mutation, e.g.
	// a channel whose id the platform just assigned
	Acquire(key entities.Key) error
}

// StateView is read-only access to a snapshot
type StateView interface {
	User(userID int64) (*entities.UserAccount, bool)
	Users() []*entities.UserAccount
	VoiceChannel(channelID int64) (*entities.VoiceChannel, bool)
	VoiceChannels() []*entities.VoiceChannel
	Ticket(channelID int64) (*entities.SupportTicket, bool)
	Tickets() []*entities.SupportTicket
	WelcomeClaim(targetUserID int64) (*entities.WelcomeClaim, bool)
	WelcomeClaims() []*entities.WelcomeClaim
	Drop(messageID int64) (*entities.CurrencyDrop, bool)
	Drops() []*entities.CurrencyDrop
	Panel(guildID int64, kind entities.PanelKind) (*entities.PanelArtifact, bool)
	Panels() []*entities.PanelArtifact
	Warns(subjectID int64) (*entities.WarnLedger, bool)
	Version() int64
}

// Persister makes serialized state documents durable
type Persister interface {
	// Load returns the last saved document, or nil when nothing was saved yet
	Load(ctx context.Context) ([]byte, error)
	// Save durably stores the document for version
	Save(ctx context.Context, version int64, data []byte) error
	Close() error
}
