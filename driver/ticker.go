package driver

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrStop ends the tick loop without reporting a failure
	ErrStop = errors.New("stop ticking")
	// ErrAlreadyRunning is returned when Start is called on a running ticker
	ErrAlreadyRunning = errors.New("ticker already running")
)

// tickSource yields tick times and a function releasing the source
type tickSource func(interval time.Duration) (<-chan time.Time, func())

func timeTickSource(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// Ticker calls fn once per interval on a single goroutine, so calls never
// overlap. fn must not call Stop; it returns ErrStop to end the loop instead.
type Ticker struct {
	interval time.Duration
	fn       func(ticks int) error
	source   tickSource

	mu      sync.Mutex
	ticks   int
	paused  bool
	running bool
	cancel  context.CancelFunc
	eg      *errgroup.Group
}

// NewTicker creates a stopped ticker
func NewTicker(interval time.Duration, fn func(ticks int) error) *Ticker {
	return &Ticker{
		interval: interval,
		fn:       fn,
		source:   timeTickSource,
	}
}

// Start launches the tick loop. It ends when ctx is cancelled, Stop is called,
// or fn returns an error.
func (t *Ticker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return errors.Wrap(ErrAlreadyRunning, "[Start]")
	}
	if t.interval <= 0 {
		return errors.Errorf("[Start] tick interval must be positive, got %v", t.interval)
	}

	ctx, cancel := context.WithCancel(ctx)
	eg, ctx := errgroup.WithContext(ctx)
	ticks, release := t.source(t.interval)

	t.running = true
	t.paused = false
	t.cancel = cancel
	t.eg = eg

	eg.Go(func() error {
		defer cancel()
		defer release()
		defer t.markStopped()
		return t.loop(ctx, ticks)
	})
	return nil
}

func (t *Ticker) loop(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
		}

		n, ok := t.nextTick()
		if !ok {
			continue
		}
		if err := t.fn(n); err != nil {
			if errors.Cause(err) == ErrStop {
				return nil
			}
			return errors.Wrapf(err, "[loop] tick %d", n)
		}
	}
}

// nextTick counts a tick unless the ticker is paused
func (t *Ticker) nextTick() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.paused {
		return 0, false
	}
	t.ticks++
	return t.ticks, true
}

func (t *Ticker) markStopped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
}

// Pause skips ticks until Resume is called
func (t *Ticker) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
}

// Resume continues a paused ticker
func (t *Ticker) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = false
}

// Paused reports whether ticks are being skipped
func (t *Ticker) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Running reports whether the tick loop is active
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Wait blocks until the tick loop ends and returns its error
func (t *Ticker) Wait() error {
	t.mu.Lock()
	eg := t.eg
	t.mu.Unlock()

	if eg == nil {
		return nil
	}
	return eg.Wait()
}

// Stop cancels the loop, waits for it, and zeroes the tick count
func (t *Ticker) Stop() error {
	t.mu.Lock()
	cancel := t.cancel
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	err := t.Wait()

	t.mu.Lock()
	t.ticks = 0
	t.paused = false
	t.cancel = nil
	t.eg = nil
	t.mu.Unlock()
	return err
}

// Ticks returns the number of ticks delivered since the last Stop
func (t *Ticker) Ticks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticks
}

// Elapsed returns simulated time, the tick count times the interval
func (t *Ticker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Duration(t.ticks) * t.interval
}
