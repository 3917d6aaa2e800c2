package repository

import (
	"context"
	"fmt"

	"riobot/domain/entities"
	"riobot/events"
)

type stagedWrite struct {
	value   any
	deleted bool
}

// stateTx stages reads and writes of one Mutate call. Nothing reaches the
// document until the store applies the write set.
type stateTx struct {
	ctx    context.Context
	store  *StateStore
	held   map[entities.Key]bool
	order  []entities.Key
	writes map[entities.Key]stagedWrite
	bus    *events.TransactionalBus
	err    error
}

func newStateTx(ctx context.Context, store *StateStore, keys []entities.Key) *stateTx {
	held := make(map[entities.Key]bool, len(keys))
	for _, k := range keys {
		held[k] = true
	}
	return &stateTx{
		ctx:    ctx,
		store:  store,
		held:   held,
		order:  append([]entities.Key(nil), keys...),
		writes: make(map[entities.Key]stagedWrite),
		bus:    events.NewTransactionalBus(store.publisher),
	}
}

func (tx *stateTx) check(key entities.Key) bool {
	if tx.held[key] {
		return true
	}
	if tx.err == nil {
		tx.err = fmt.Errorf("%w: %s", entities.ErrKeyNotLocked, key)
	}
	return false
}

func (tx *stateTx) staged(key entities.Key) (stagedWrite, bool) {
	w, ok := tx.writes[key]
	return w, ok
}

func (tx *stateTx) put(key entities.Key, value any) {
	if tx.check(key) {
		tx.writes[key] = stagedWrite{value: value}
	}
}

func (tx *stateTx) del(key entities.Key) {
	if tx.check(key) {
		tx.writes[key] = stagedWrite{deleted: true}
	}
}

// Acquire locks the key of an entity created inside this mutation, such as a
// channel the platform just assigned an id to. Keys that sort before one
// already held are refused to keep the global lock order.
func (tx *stateTx) Acquire(key entities.Key) error {
	if tx.held[key] {
		return nil
	}
	if n := len(tx.order); n > 0 && !keyLess(tx.order[n-1], key) {
		return fmt.Errorf("%w: %s acquired out of order", entities.ErrKeyNotLocked, key)
	}
	if err := tx.store.locks.acquire(tx.ctx, key); err != nil {
		return err
	}
	tx.held[key] = true
	tx.order = append(tx.order, key)
	return nil
}

func (tx *stateTx) User(userID int64) *entities.UserAccount {
	key := entities.UserKey(userID)
	if !tx.check(key) {
		return entities.NewUserAccount(userID)
	}
	if w, ok := tx.staged(key); ok && !w.deleted {
		return w.value.(*entities.UserAccount).Clone()
	}
	tx.store.docMu.RLock()
	defer tx.store.docMu.RUnlock()
	if u, ok := tx.store.doc.Users[userID]; ok {
		return u.Clone()
	}
	return entities.NewUserAccount(userID)
}

func (tx *stateTx) PutUser(account *entities.UserAccount) {
	tx.put(entities.UserKey(account.UserID), account.Clone())
}

func (tx *stateTx) VoiceChannel(channelID int64) *entities.VoiceChannel {
	key := entities.VoiceKey(channelID)
	if !tx.check(key) {
		return nil
	}
	if w, ok := tx.staged(key); ok {
		if w.deleted {
			return nil
		}
		return w.value.(*entities.VoiceChannel).Clone()
	}
	tx.store.docMu.RLock()
	defer tx.store.docMu.RUnlock()
	return tx.store.doc.VoiceChannels[channelID].Clone()
}

func (tx *stateTx) PutVoiceChannel(channel *entities.VoiceChannel) {
	tx.put(entities.VoiceKey(channel.ChannelID), channel.Clone())
}

func (tx *stateTx) DeleteVoiceChannel(channelID int64) {
	tx.del(entities.VoiceKey(channelID))
}

func (tx *stateTx) Ticket(channelID int64) *entities.SupportTicket {
	key := entities.TicketKey(channelID)
	if !tx.check(key) {
		return nil
	}
	if w, ok := tx.staged(key); ok {
		if w.deleted {
			return nil
		}
		return w.value.(*entities.SupportTicket).Clone()
	}
	tx.store.docMu.RLock()
	defer tx.store.docMu.RUnlock()
	return tx.store.doc.Tickets[channelID].Clone()
}

func (tx *stateTx) OpenTicketFor(requesterID int64) *entities.SupportTicket {
	if !tx.check(entities.RequesterKey(requesterID)) {
		return nil
	}
	for key, w := range tx.writes {
		if key.Kind != entities.KeyTicket || w.deleted {
			continue
		}
		t := w.value.(*entities.SupportTicket)
		if t.RequesterID == requesterID && !t.IsClosed() {
			return t.Clone()
		}
	}
	tx.store.docMu.RLock()
	defer tx.store.docMu.RUnlock()
	for channelID, t := range tx.store.doc.Tickets {
		if _, overridden := tx.writes[entities.TicketKey(channelID)]; overridden {
			continue
		}
		if t.RequesterID == requesterID && !t.IsClosed() {
			return t.Clone()
		}
	}
	return nil
}

func (tx *stateTx) PutTicket(ticket *entities.SupportTicket) {
	tx.put(entities.TicketKey(ticket.ChannelID), ticket.Clone())
}

func (tx *stateTx) DeleteTicket(channelID int64) {
	tx.del(entities.TicketKey(channelID))
}

func (tx *stateTx) WelcomeClaim(targetUserID int64) *entities.WelcomeClaim {
	key := entities.WelcomeKey(targetUserID)
	if !tx.check(key) {
		return nil
	}
	if w, ok := tx.staged(key); ok {
		if w.deleted {
			return nil
		}
		return w.value.(*entities.WelcomeClaim).Clone()
	}
	tx.store.docMu.RLock()
	defer tx.store.docMu.RUnlock()
	return tx.store.doc.WelcomeClaims[targetUserID].Clone()
}

func (tx *stateTx) PutWelcomeClaim(claim *entities.WelcomeClaim) {
	tx.put(entities.WelcomeKey(claim.TargetUserID), claim.Clone())
}

func (tx *stateTx) DeleteWelcomeClaim(targetUserID int64) {
	tx.del(entities.WelcomeKey(targetUserID))
}

func (tx *stateTx) Drop(messageID int64) *entities.CurrencyDrop {
	key := entities.DropKey(messageID)
	if !tx.check(key) {
		return nil
	}
	if w, ok := tx.staged(key); ok {
		if w.deleted {
			return nil
		}
		return w.value.(*entities.CurrencyDrop).Clone()
	}
	tx.store.docMu.RLock()
	defer tx.store.docMu.RUnlock()
	return tx.store.doc.Drops[messageID].Clone()
}

func (tx *stateTx) PutDrop(drop *entities.CurrencyDrop) {
	tx.put(entities.DropKey(drop.MessageID), drop.Clone())
}

func (tx *stateTx) DeleteDrop(messageID int64) {
	tx.del(entities.DropKey(messageID))
}

func (tx *stateTx) Panel(guildID int64, kind entities.PanelKind) *entities.PanelArtifact {
	key := entities.PanelKey(guildID, kind)
	if !tx.check(key) {
		return nil
	}
	if w, ok := tx.staged(key); ok {
		if w.deleted {
			return nil
		}
		return w.value.(*entities.PanelArtifact).Clone()
	}
	tx.store.docMu.RLock()
	defer tx.store.docMu.RUnlock()
	return tx.store.doc.Panels[entities.PanelRef(guildID, kind)].Clone()
}

func (tx *stateTx) PutPanel(panel *entities.PanelArtifact) {
	tx.put(entities.PanelKey(panel.GuildID, panel.Kind), panel.Clone())
}

func (tx *stateTx) Warns(subjectID int64) *entities.WarnLedger {
	key := entities.WarnsKey(subjectID)
	empty := &entities.WarnLedger{SubjectID: subjectID}
	if !tx.check(key) {
		return empty
	}
	if w, ok := tx.staged(key); ok && !w.deleted {
		return w.value.(*entities.WarnLedger).Clone()
	}
	tx.store.docMu.RLock()
	defer tx.store.docMu.RUnlock()
	if l, ok := tx.store.doc.Warns[subjectID]; ok {
		return l.Clone()
	}
	return empty
}

func (tx *stateTx) PutWarns(ledger *entities.WarnLedger) {
	tx.put(entities.WarnsKey(ledger.SubjectID), ledger.Clone())
}

func (tx *stateTx) Publish(event events.Event) {
	tx.bus.Publish(event)
}

// applyTo writes the staged set into doc. Caller holds docMu.
func (tx *stateTx) applyTo(doc *entities.StateDocument) {
	for key, w := range tx.writes {
		switch key.Kind {
		case entities.KeyUser:
			if w.deleted {
				delete(doc.Users, key.ID)
			} else {
				doc.Users[key.ID] = w.value.(*entities.UserAccount)
			}
		case entities.KeyVoice:
			if w.deleted {
				delete(doc.VoiceChannels, key.ID)
			} else {
				doc.VoiceChannels[key.ID] = w.value.(*entities.VoiceChannel)
			}
		case entities.KeyTicket:
			if w.deleted {
				delete(doc.Tickets, key.ID)
			} else {
				doc.Tickets[key.ID] = w.value.(*entities.SupportTicket)
			}
		case entities.KeyWelcome:
			if w.deleted {
				delete(doc.WelcomeClaims, key.ID)
			} else {
				doc.WelcomeClaims[key.ID] = w.value.(*entities.WelcomeClaim)
			}
		case entities.KeyDrop:
			if w.deleted {
				delete(doc.Drops, key.ID)
			} else {
				doc.Drops[key.ID] = w.value.(*entities.CurrencyDrop)
			}
		case entities.KeyPanel:
			ref := entities.PanelRef(key.ID, entities.PanelKind(key.Sub))
			if w.deleted {
				delete(doc.Panels, ref)
			} else {
				doc.Panels[ref] = w.value.(*entities.PanelArtifact)
			}
		case entities.KeyWarns:
			if w.deleted {
				delete(doc.Warns, key.ID)
			} else {
				doc.Warns[key.ID] = w.value.(*entities.WarnLedger)
			}
		}
	}
}
