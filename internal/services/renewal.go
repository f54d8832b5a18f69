package services

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/siteops/dailyup/internal/logging"
)

// RenewalScheduler runs a callback on a fixed interval until stopped.
// At most one loop is active at a time.
type RenewalScheduler struct {
	interval time.Duration
	loops    atomic.Int32
	mu       sync.Mutex
	stopCh   chan struct{}
}

// NewRenewalScheduler creates a stopped scheduler
func NewRenewalScheduler(interval time.Duration) *RenewalScheduler {
	return &RenewalScheduler{interval: interval}
}

// Start stops any running loop and starts a new one calling tick every interval.
// Ticks run sequentially on the loop goroutine.
func (r *RenewalScheduler) Start(tick func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopCh != nil {
		logging.Logger.Debug("Stopping previous renewal scheduler before restart")
		r.stopLocked()
	}

	stopCh := make(chan struct{})
	r.stopCh = stopCh
	r.loops.Add(1)
	go r.loop(stopCh, tick)

	logging.Logger.Info("Renewal scheduler started", "interval", r.interval)
}

// Stop halts the loop. Once Stop returns no further tick starts;
// a tick already running is allowed to finish.
func (r *RenewalScheduler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopCh == nil {
		return
	}
	r.stopLocked()
	logging.Logger.Info("Renewal scheduler stopped")
}

// Running reports whether a loop is scheduled
func (r *RenewalScheduler) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopCh != nil
}

// activeLoops is the number of loop goroutines still alive
func (r *RenewalScheduler) activeLoops() int {
	return int(r.loops.Load())
}

func (r *RenewalScheduler) stopLocked() {
	close(r.stopCh)
	r.stopCh = nil
}

func (r *RenewalScheduler) loop(stopCh chan struct{}, tick func()) {
	defer r.loops.Add(-1)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// A stop racing the tick wins
			select {
			case <-stopCh:
				return
			default:
			}
			tick()
		}
	}
}
