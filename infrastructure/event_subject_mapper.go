package infrastructure

import (
	"fmt"

	"riobot/events"
)

// subjectPrefix roots every riobot subject so one stream can capture them all
const subjectPrefix = "rio"

var eventSubjects = map[events.EventType]string{
	events.EventTypeLevelUp:             "rio.economy.level_up",
	events.EventTypeCurrencyChanged:     "rio.economy.currency_changed",
	events.EventTypeWelcomeClaimed:      "rio.claims.welcome",
	events.EventTypeDropClaimed:         "rio.claims.drop_claimed",
	events.EventTypeDropExpired:         "rio.claims.drop_expired",
	events.EventTypeTicketOpened:        "rio.tickets.opened",
	events.EventTypeTicketClaimed:       "rio.tickets.claimed",
	events.EventTypeTicketClosing:       "rio.tickets.closing",
	events.EventTypeTicketDeleted:       "rio.tickets.deleted",
	events.EventTypeVoiceChannelCreated: "rio.voice.created",
	events.EventTypeVoiceChannelDeleted: "rio.voice.deleted",
	events.EventTypeWarnAdded:           "rio.moderation.warn_added",
	events.EventTypeAutoSanction:        "rio.moderation.auto_sanction",
	events.EventTypeSpamDetected:        "rio.moderation.spam_detected",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct {
	reverse map[string]events.EventType
}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	reverse := make(map[string]events.EventType, len(eventSubjects))
	for t, s := range eventSubjects {
		reverse[s] = t
	}
	return &EventSubjectMapper{reverse: reverse}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := eventSubjects[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("%s.unknown.%s", subjectPrefix, event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	if t, ok := m.reverse[subject]; ok {
		return t
	}
	return events.EventType(subject)
}

// StreamSubjects returns the subject filter of the event stream
func (m *EventSubjectMapper) StreamSubjects() []string {
	return []string{subjectPrefix + ".>"}
}
