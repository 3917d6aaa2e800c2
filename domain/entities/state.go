package entities

import "fmt"

// StateDocumentVersion is the layout version written into persisted documents
const StateDocumentVersion = 1

// StateDocument is the whole persisted state, rewritten on every mutation
type StateDocument struct {
	Layout        int                       `json:"layout"`
	Version       int64                     `json:"version"`
	Users         map[int64]*UserAccount    `json:"users"`
	VoiceChannels map[int64]*VoiceChannel   `json:"voiceChannels"`
	Tickets       map[int64]*SupportTicket  `json:"tickets"`
	WelcomeClaims map[int64]*WelcomeClaim   `json:"welcomeClaims"`
	Drops         map[int64]*CurrencyDrop   `json:"drops"`
	Panels        map[string]*PanelArtifact `json:"panels"`
	Warns         map[int64]*WarnLedger     `json:"warns"`
}

// NewStateDocument returns an empty document with all maps allocated
func NewStateDocument() *StateDocument {
	doc := &StateDocument{Layout: StateDocumentVersion}
	doc.EnsureMaps()
	return doc
}

// EnsureMaps allocates maps missing from an older or partial document
func (d *StateDocument) EnsureMaps() {
	if d.Users == nil {
		d.Users = make(map[int64]*UserAccount)
	}
	if d.VoiceChannels == nil {
		d.VoiceChannels = make(map[int64]*VoiceChannel)
	}
	if d.Tickets == nil {
		d.Tickets = make(map[int64]*SupportTicket)
	}
	if d.WelcomeClaims == nil {
		d.WelcomeClaims = make(map[int64]*WelcomeClaim)
	}
	if d.Drops == nil {
		d.Drops = make(map[int64]*CurrencyDrop)
	}
	if d.Panels == nil {
		d.Panels = make(map[string]*PanelArtifact)
	}
	if d.Warns == nil {
		d.Warns = make(map[int64]*WarnLedger)
	}
}

// KeyKind is the entity family a lock key belongs to
type KeyKind string

const (
	KeyUser      KeyKind = "user"
	KeyVoice     KeyKind = "voice"
	KeyTicket    KeyKind = "ticket"
	KeyRequester KeyKind = "requester"
	KeyWelcome   KeyKind = "welcome"
	KeyDrop      KeyKind = "drop"
	KeyPanel     KeyKind = "panel"
	KeyWarns     KeyKind = "warns"
)

// Key names one entity for the store's per-key critical sections
type Key struct {
	Kind KeyKind
	ID   int64
	Sub  string
}

func (k Key) String() string {
	if k.Sub != "" {
		return fmt.Sprintf("%s/%d/%s", k.Kind, k.ID, k.Sub)
	}
	return fmt.Sprintf("%s/%d", k.Kind, k.ID)
}

func UserKey(userID int64) Key           { return Key{Kind: KeyUser, ID: userID} }
func VoiceKey(channelID int64) Key       { return Key{Kind: KeyVoice, ID: channelID} }
func TicketKey(channelID int64) Key      { return Key{Kind: KeyTicket, ID: channelID} }
func RequesterKey(requesterID int64) Key { return Key{Kind: KeyRequester, ID: requesterID} }
func WelcomeKey(targetID int64) Key      { return Key{Kind: KeyWelcome, ID: targetID} }
func DropKey(messageID int64) Key        { return Key{Kind: KeyDrop, ID: messageID} }
func WarnsKey(subjectID int64) Key       { return Key{Kind: KeyWarns, ID: subjectID} }

func PanelKey(guildID int64, kind PanelKind) Key {
	return Key{Kind: KeyPanel, ID: guildID, Sub: string(kind)}
}

// ClaimKey maps a claim id to its store key
func ClaimKey(id ClaimID) Key {
	if id.Kind == ClaimKindDrop {
		return DropKey(id.ID)
	}
	return WelcomeKey(id.ID)
}
