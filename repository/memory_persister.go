package repository

import (
	"context"
	"sync"

	"riobot/domain/interfaces"
)

// MemoryPersister keeps the last saved document in memory. It backs tests and
// runs where durability is not wanted.
type MemoryPersister struct {
	mu      sync.Mutex
	data    []byte
	version int64
	saves   int
	failErr error
}

var _ interfaces.Persister = (*MemoryPersister)(nil)

// NewMemoryPersister creates a persister seeded with data, which may be nil
func NewMemoryPersister(data []byte) *MemoryPersister {
	return &MemoryPersister{data: data}
}

// Load returns a copy of the last saved bytes
func (p *MemoryPersister) Load(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.data == nil {
		return nil, nil
	}
	return append([]byte(nil), p.data...), nil
}

// Save stores data or returns the injected failure
func (p *MemoryPersister) Save(ctx context.Context, version int64, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failErr != nil {
		return p.failErr
	}
	p.data = append([]byte(nil), data...)
	p.version = version
	p.saves++
	return nil
}

// Close is a no-op
func (p *MemoryPersister) Close() error { return nil }

// FailWith makes subsequent saves return err; nil restores normal saves
func (p *MemoryPersister) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failErr = err
}

// Saved returns the last saved version and the number of successful saves
func (p *MemoryPersister) Saved() (version int64, saves int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version, p.saves
}
