package repository

import (
	"context"
	"sort"
	"sync"

	"riobot/domain/entities"
)

// keyLocks hands out one exclusive slot per entity key. Slots are channels so
// waiting honours context cancellation.
type keyLocks struct {
	mu    sync.Mutex
	slots map[entities.Key]*keySlot
}

type keySlot struct {
	ch   chan struct{}
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{slots: make(map[entities.Key]*keySlot)}
}

func (l *keyLocks) slot(key entities.Key) *keySlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &keySlot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *keyLocks) drop(key entities.Key) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.slots[key]
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// acquire blocks until key is held or ctx is done
func (l *keyLocks) acquire(ctx context.Context, key entities.Key) error {
	s := l.slot(key)
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.drop(key)
		return ctx.Err()
	}
}

func (l *keyLocks) release(key entities.Key) {
	l.mu.Lock()
	s := l.slots[key]
	l.mu.Unlock()
	<-s.ch
	l.drop(key)
}

// acquireAll locks keys in their canonical order; on failure nothing stays held
func (l *keyLocks) acquireAll(ctx context.Context, keys []entities.Key) error {
	for i, k := range keys {
		if err := l.acquire(ctx, k); err != nil {
			l.releaseAll(keys[:i])
			return err
		}
	}
	return nil
}

func (l *keyLocks) releaseAll(keys []entities.Key) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.release(keys[i])
	}
}

// sortKeys dedupes keys and sorts them into the global lock order
func sortKeys(keys []entities.Key) []entities.Key {
	seen := make(map[entities.Key]bool, len(keys))
	out := make([]entities.Key, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return keyLess(out[i], out[j]) })
	return out
}

func keyLess(a, b entities.Key) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.Sub < b.Sub
}
