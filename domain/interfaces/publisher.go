package interfaces

import (
	"context"
	"time"

	"riobot/events"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TaskScheduler runs delayed tasks. Tasks must re-read state when they fire.
type TaskScheduler interface {
	Schedule(name string, delay time.Duration, task func(ctx context.Context))
}
