package focustimer

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled job. It must not block and is safe to call
// more than once.
type CancelFunc func()

// Scheduler invokes fn periodically until cancelled.
type Scheduler interface {
	Every(interval time.Duration, fn func()) CancelFunc
}

// TickerScheduler runs jobs on a time.Ticker goroutine.
type TickerScheduler struct{}

// Every starts a ticking goroutine that calls fn on each tick.
func (TickerScheduler) Every(interval time.Duration, fn func()) CancelFunc {
	ticker := time.NewTicker(interval)
	stopCh := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopCh) })
	}
}
