// ABOUTME: Frame schedulers driving the game loop
// ABOUTME: Delivers one signal per animation frame from a ticker or by hand
package frame

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Scheduler supplies a repeating "next frame" signal.
// The channel is closed once the scheduler stops.
type Scheduler interface {
	Frames() <-chan time.Time
	Stop()
}

// Stats tracks scheduler metrics
type Stats struct {
	Delivered int64
	Late      int64 // frames arriving more than 1.5 intervals after the previous one
	Dropped   int64 // ticks skipped because the consumer was still busy
}

// lateFactor is how many intervals may pass before a frame counts as late
const lateFactor = 1.5

// Ticker emits frames at a fixed rate
type Ticker struct {
	interval time.Duration
	output   chan time.Time
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}

	mu    sync.Mutex
	stats Stats
	last  time.Time
}

// NewTicker creates and starts a scheduler running at fps frames per second
func NewTicker(fps int) (*Ticker, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("frame rate must be positive, got %d", fps)
	}
	ctx, cancel := context.WithCancel(context.Background())

	t := &Ticker{
		interval: time.Second / time.Duration(fps),
		output:   make(chan time.Time, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go t.run()
	return t, nil
}

func (t *Ticker) run() {
	defer close(t.done)
	defer close(t.output)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case now := <-ticker.C:
			t.deliver(now)
		}
	}
}

// deliver forwards a tick without blocking; a busy consumer loses the frame
func (t *Ticker) deliver(now time.Time) {
	select {
	case t.output <- now:
		t.mu.Lock()
		t.stats.observe(now, t.last, t.interval)
		t.last = now
		t.mu.Unlock()
	default:
		t.mu.Lock()
		t.stats.Dropped++
		dropped := t.stats.Dropped
		t.mu.Unlock()
		if dropped <= 5 {
			log.Printf("Dropped frame: consumer busy (%d dropped so far)", dropped)
		}
	}
}

// Frames returns the frame channel
func (t *Ticker) Frames() <-chan time.Time {
	return t.output
}

// Interval returns the time between frames
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Stats returns scheduler statistics
func (t *Ticker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Stop stops the ticker and waits for the frame channel to close
func (t *Ticker) Stop() {
	t.cancel()
	<-t.done
}

// observe records one delivered frame at now, previous delivery at last
func (s *Stats) observe(now, last time.Time, interval time.Duration) {
	s.Delivered++
	if last.IsZero() || interval <= 0 {
		return
	}
	if now.Sub(last) > time.Duration(lateFactor*float64(interval)) {
		s.Late++
	}
}

// Manual is a scheduler driven by explicit Tick calls, for tests and tools
type Manual struct {
	output chan time.Time
	stop   chan struct{}
	ticks  sync.WaitGroup // Tick calls in flight

	mu      sync.Mutex
	stopped bool
	stats   Stats
}

// NewManual creates a manual scheduler that can queue up to buffer frames
func NewManual(buffer int) *Manual {
	if buffer < 0 {
		buffer = 0
	}
	return &Manual{
		output: make(chan time.Time, buffer),
		stop:   make(chan struct{}),
	}
}

// Tick delivers one frame, blocking until there is room for it.
// It returns false once the scheduler has stopped, including when Stop
// is called while Tick is waiting.
func (m *Manual) Tick() bool {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return false
	}
	m.ticks.Add(1)
	m.mu.Unlock()
	defer m.ticks.Done()

	select {
	case m.output <- time.Now():
		m.mu.Lock()
		m.stats.Delivered++
		m.mu.Unlock()
		return true
	case <-m.stop:
		return false
	}
}

// Frames returns the frame channel
func (m *Manual) Frames() <-chan time.Time {
	return m.output
}

// Stats returns scheduler statistics
func (m *Manual) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Stop releases blocked Tick calls, then closes the frame channel.
// Frames already queued are still delivered.
func (m *Manual) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	close(m.stop)
	m.mu.Unlock()

	m.ticks.Wait()
	close(m.output)
}
