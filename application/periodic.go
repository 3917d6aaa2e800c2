package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// startPeriodic runs fn immediately when runNow is set, then every interval,
// until ctx is cancelled or the returned stop function is called
func startPeriodic(ctx context.Context, name string, interval time.Duration, runNow bool, fn func(ctx context.Context)) func() {
	stopChan := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		log.WithFields(log.Fields{
			"worker":   name,
			"interval": interval,
		}).Info("Worker started")

		if runNow {
			fn(ctx)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.WithField("worker", name).Info("Worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.WithField("worker", name).Info("Worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
		<-done
	}
}
