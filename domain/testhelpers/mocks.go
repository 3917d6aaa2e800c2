package testhelpers

import (
	"context"
	"sync"
	"time"

	"riobot/events"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of interfaces.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockPersister is a mock implementation of interfaces.Persister
type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) Load(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockPersister) Save(ctx context.Context, version int64, data []byte) error {
	args := m.Called(ctx, version, data)
	return args.Error(0)
}

func (m *MockPersister) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ScheduledTask is a task captured by ManualScheduler
type ScheduledTask struct {
	Name  string
	Delay time.Duration
	Run   func(ctx context.Context)
}

// ManualScheduler records scheduled tasks so tests decide when they fire
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []ScheduledTask
}

func (s *ManualScheduler) Schedule(name string, delay time.Duration, task func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, ScheduledTask{Name: name, Delay: delay, Run: task})
}

// Tasks returns the tasks scheduled so far
func (s *ManualScheduler) Tasks() []ScheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ScheduledTask(nil), s.tasks...)
}

// RunAll fires and clears every pending task
func (s *ManualScheduler) RunAll(ctx context.Context) int {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, t := range tasks {
		t.Run(ctx)
	}
	return len(tasks)
}

// EventRecorder is a publisher collecting events in memory
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *EventRecorder) Publish(event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// OfType returns recorded events of the given type
func (r *EventRecorder) OfType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}
