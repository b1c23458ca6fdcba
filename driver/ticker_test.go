package driver

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// manualTicker returns a ticker whose ticks are delivered by sending on the
// returned channel. A send completes once the loop has received the tick.
func manualTicker(fn func(int) error) (*Ticker, chan time.Time) {
	ch := make(chan time.Time)
	t := NewTicker(time.Second, fn)
	t.source = func(time.Duration) (<-chan time.Time, func()) {
		return ch, func() {}
	}
	return t, ch
}

func TestTickerCountsTicks(t *testing.T) {
	seen := make(chan int)
	tk, ticks := manualTicker(func(n int) error {
		seen <- n
		return nil
	})

	if err := tk.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !tk.Running() {
		t.Fatalf("ticker not running after Start")
	}

	for want := 1; want <= 3; want++ {
		ticks <- time.Now()
		if got := <-seen; got != want {
			t.Fatalf("tick = %d, want %d", got, want)
		}
	}
	if got := tk.Elapsed(); got != 3*time.Second {
		t.Fatalf("elapsed = %v, want 3s", got)
	}

	if err := tk.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if tk.Running() {
		t.Fatalf("ticker running after Stop")
	}
	if tk.Ticks() != 0 || tk.Elapsed() != 0 {
		t.Fatalf("Stop did not zero the counters: %d ticks, %v", tk.Ticks(), tk.Elapsed())
	}
}

func TestTickerStartTwice(t *testing.T) {
	tk, _ := manualTicker(func(int) error { return nil })
	if err := tk.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer tk.Stop()

	if err := tk.Start(context.Background()); errors.Cause(err) != ErrAlreadyRunning {
		t.Fatalf("second Start err = %v, want ErrAlreadyRunning", err)
	}
}

func TestTickerRejectsNonPositiveInterval(t *testing.T) {
	tk := NewTicker(0, func(int) error { return nil })
	if err := tk.Start(context.Background()); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}

func TestTickerErrStopEndsLoopCleanly(t *testing.T) {
	tk, ticks := manualTicker(func(n int) error {
		if n == 2 {
			return ErrStop
		}
		return nil
	})
	if err := tk.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ticks <- time.Now()
	ticks <- time.Now()

	if err := tk.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if tk.Running() {
		t.Fatalf("ticker still running after ErrStop")
	}
	if tk.Ticks() != 2 {
		t.Fatalf("ticks = %d, want 2", tk.Ticks())
	}
}

func TestTickerPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	tk, ticks := manualTicker(func(int) error { return boom })
	if err := tk.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ticks <- time.Now()
	if err := tk.Wait(); errors.Cause(err) != boom {
		t.Fatalf("Wait err = %v, want boom", err)
	}
}

func TestTickerPauseSkipsTicks(t *testing.T) {
	calls := 0
	tk, ticks := manualTicker(func(int) error {
		calls++
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := tk.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	tk.Pause()
	if !tk.Paused() {
		t.Fatalf("Paused() = false after Pause")
	}

	ticks <- time.Now()
	ticks <- time.Now()
	cancel()
	if err := tk.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if calls != 0 || tk.Ticks() != 0 {
		t.Fatalf("paused ticker delivered %d calls, %d ticks", calls, tk.Ticks())
	}
}

func TestTickerResume(t *testing.T) {
	seen := make(chan int)
	tk, ticks := manualTicker(func(n int) error {
		seen <- n
		return nil
	})
	if err := tk.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer tk.Stop()

	tk.Pause()
	tk.Resume()

	ticks <- time.Now()
	if got := <-seen; got != 1 {
		t.Fatalf("tick after resume = %d, want 1", got)
	}
}

func TestTickerCancelledContext(t *testing.T) {
	tk, _ := manualTicker(func(int) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	if err := tk.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	cancel()
	if err := tk.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if tk.Running() {
		t.Fatalf("ticker running after context cancel")
	}
}

func TestTickerWallClock(t *testing.T) {
	tk := NewTicker(time.Millisecond, func(n int) error {
		if n == 3 {
			return ErrStop
		}
		return nil
	})
	if err := tk.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := tk.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if tk.Ticks() != 3 || tk.Elapsed() != 3*time.Millisecond {
		t.Fatalf("ticks = %d elapsed = %v, want 3 and 3ms", tk.Ticks(), tk.Elapsed())
	}
}

func TestTickerWaitBeforeStart(t *testing.T) {
	tk := NewTicker(time.Second, func(int) error { return nil })
	if err := tk.Wait(); err != nil {
		t.Fatalf("Wait on idle ticker: %v", err)
	}
	if err := tk.Stop(); err != nil {
		t.Fatalf("Stop on idle ticker: %v", err)
	}
}
