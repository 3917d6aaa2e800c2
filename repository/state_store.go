package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/events"
	"riobot/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// StateStore keeps the whole state document in memory and rewrites it through
// a Persister after every applied mutation.
type StateStore struct {
	docMu sync.RWMutex
	doc   *entities.StateDocument

	locks     *keyLocks
	persister interfaces.Persister
	publisher events.Publisher

	persistMu    sync.Mutex
	savedVersion int64
}

var _ interfaces.StateStore = (*StateStore)(nil)

// NewStateStore loads the last saved document from persister. Events staged
// by mutations are forwarded to publisher once applied; publisher may be nil.
func NewStateStore(ctx context.Context, persister interfaces.Persister, publisher events.Publisher) (*StateStore, error) {
	data, err := persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	doc := entities.NewStateDocument()
	if len(data) > 0 {
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("failed to decode state document: %w", err)
		}
		doc.EnsureMaps()
	}

	log.WithFields(log.Fields{
		"version": doc.Version,
		"users":   len(doc.Users),
		"tickets": len(doc.Tickets),
		"voice":   len(doc.VoiceChannels),
	}).Info("State loaded")

	return &StateStore{
		doc:          doc,
		locks:        newKeyLocks(),
		persister:    persister,
		publisher:    publisher,
		savedVersion: doc.Version,
	}, nil
}

// Mutate implements interfaces.StateStore
func (s *StateStore) Mutate(ctx context.Context, keys []entities.Key, fn func(tx interfaces.StateTx) error) error {
	ordered := sortKeys(keys)
	if err := s.locks.acquireAll(ctx, ordered); err != nil {
		return fmt.Errorf("failed to lock state keys: %w", err)
	}

	tx := newStateTx(ctx, s, ordered)
	released := false
	release := func() {
		if !released {
			s.locks.releaseAll(tx.order)
			released = true
		}
	}
	defer release()

	if err := fn(tx); err != nil {
		tx.bus.Discard()
		observability.GetMetrics().RecordStateMutation(observability.MutationRejected)
		return err
	}
	if tx.err != nil {
		tx.bus.Discard()
		observability.GetMetrics().RecordStateMutation(observability.MutationRejected)
		return tx.err
	}
	if len(tx.writes) == 0 {
		release()
		tx.bus.Flush()
		return nil
	}

	version, data, err := s.apply(tx)
	if err != nil {
		// the document is already updated in memory; only durability is lost
		release()
		tx.bus.Flush()
		return &entities.PersistenceError{Version: version, Err: err}
	}

	persistErr := s.persist(ctx, version, data)
	release()
	tx.bus.Flush()
	observability.GetMetrics().RecordStateMutation(observability.MutationApplied)
	return persistErr
}

// apply writes the staged set and snapshots the document under one lock so the
// serialized bytes match exactly the version they are saved as.
func (s *StateStore) apply(tx *stateTx) (int64, []byte, error) {
	s.docMu.Lock()
	defer s.docMu.Unlock()

	tx.applyTo(s.doc)
	s.doc.Version++
	data, err := json.Marshal(s.doc)
	return s.doc.Version, data, err
}

// persist saves version unless a newer snapshot is already durable
func (s *StateStore) persist(ctx context.Context, version int64, data []byte) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if version <= s.savedVersion {
		return nil
	}

	start := time.Now()
	err := s.persister.Save(ctx, version, data)
	observability.GetMetrics().RecordPersist(time.Since(start), err)
	if err != nil {
		log.WithError(err).WithField("version", version).Error("Failed to persist state; keeping in-memory state")
		return &entities.PersistenceError{Version: version, Err: err}
	}
	s.savedVersion = version
	return nil
}

// View implements interfaces.StateStore
func (s *StateStore) View(ctx context.Context, fn func(v interfaces.StateView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.docMu.RLock()
	defer s.docMu.RUnlock()
	return fn(&stateView{doc: s.doc})
}

// Flush forces a save of the current document, used on shutdown
func (s *StateStore) Flush(ctx context.Context) error {
	s.docMu.RLock()
	version := s.doc.Version
	data, err := json.Marshal(s.doc)
	s.docMu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode state document: %w", err)
	}
	return s.persist(ctx, version, data)
}

// SavedVersion returns the last durable version
func (s *StateStore) SavedVersion() int64 {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.savedVersion
}

// Close flushes and releases the persister
func (s *StateStore) Close(ctx context.Context) error {
	flushErr := s.Flush(ctx)
	if err := s.persister.Close(); err != nil {
		return fmt.Errorf("failed to close persister: %w", err)
	}
	return flushErr
}
