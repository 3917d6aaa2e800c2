package infrastructure

import (
	"strings"
	"testing"

	"riobot/events"

	"github.com/stretchr/testify/assert"
)

type unknownEvent struct{}

func (unknownEvent) Type() events.EventType { return "mystery" }

func TestEventSubjectMapper_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewEventSubjectMapper()
	for eventType, subject := range eventSubjects {
		assert.True(t, strings.HasPrefix(subject, subjectPrefix+"."), subject)
		assert.Equal(t, eventType, m.MapSubjectToEventType(subject))
	}
	assert.Equal(t, "rio.tickets.closing", m.MapEventToSubject(events.TicketEvent{Kind: events.EventTypeTicketClosing}))
	assert.Equal(t, "rio.voice.deleted", m.MapEventToSubject(events.VoiceChannelEvent{Kind: events.EventTypeVoiceChannelDeleted}))
}

func TestEventSubjectMapper_Unknown(t *testing.T) {
	t.Parallel()

	m := NewEventSubjectMapper()
	assert.Equal(t, "rio.unknown.mystery", m.MapEventToSubject(unknownEvent{}))
	assert.Equal(t, events.EventType("other.subject"), m.MapSubjectToEventType("other.subject"))
	assert.Equal(t, []string{"rio.>"}, m.StreamSubjects())
}

func TestEventSubjectMapper_CoversEveryEventType(t *testing.T) {
	t.Parallel()

	all := []events.EventType{
		events.EventTypeLevelUp, events.EventTypeCurrencyChanged, events.EventTypeWelcomeClaimed,
		events.EventTypeDropClaimed, events.EventTypeDropExpired, events.EventTypeTicketOpened,
		events.EventTypeTicketClaimed, events.EventTypeTicketClosing, events.EventTypeTicketDeleted,
		events.EventTypeVoiceChannelCreated, events.EventTypeVoiceChannelDeleted,
		events.EventTypeWarnAdded, events.EventTypeAutoSanction, events.EventTypeSpamDetected,
	}
	for _, et := range all {
		_, ok := eventSubjects[et]
		assert.True(t, ok, "missing subject for %s", et)
	}
}
