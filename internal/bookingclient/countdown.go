package bookingclient

import (
	"context"
	"sync"
	"time"
)

// PaymentWindowSeconds is how long the payment step stays open once seats
// are locked.
const PaymentWindowSeconds = 600

// Countdown is the payment-window state machine. It has two states, active
// with a remaining number of seconds and expired, and a single transition
// driven by Tick. It holds no timer of its own, which keeps it testable
// with plain synchronous ticks.
type Countdown struct {
	remaining int
	expired   bool
}

func NewCountdown(seconds int) *Countdown {
	return &Countdown{remaining: seconds}
}

// Tick advances the countdown by one second. It returns true exactly once,
// on the tick that moves the state from active to expired. Ticks after
// expiry are no-ops.
func (c *Countdown) Tick() bool {
	if c.expired {
		return false
	}

	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.expired = true

		return true
	}

	return false
}

// Remaining reports the seconds left in the payment window.
func (c *Countdown) Remaining() int {
	return c.remaining
}

func (c *Countdown) Expired() bool {
	return c.expired
}

// CountdownTimer drives a Countdown from a wall-clock ticker and invokes
// onExpire on the expiry transition. onExpire runs at most once.
type CountdownTimer struct {
	mu        sync.Mutex
	countdown *Countdown
	onExpire  func()
	cancel    context.CancelFunc
}

func NewCountdownTimer(seconds int, onExpire func()) *CountdownTimer {
	return &CountdownTimer{
		countdown: NewCountdown(seconds),
		onExpire:  onExpire,
	}
}

// Start begins ticking once per second until the countdown expires, the
// timer is stopped, or ctx is cancelled.
func (t *CountdownTimer) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if t.tick() {
					return
				}
			}
		}
	}()
}

// Stop halts the ticker without expiring the countdown.
func (t *CountdownTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Remaining reports the seconds left in the payment window.
func (t *CountdownTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.countdown.Remaining()
}

func (t *CountdownTimer) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.countdown.Expired()
}

func (t *CountdownTimer) tick() bool {
	t.mu.Lock()
	expiredNow := t.countdown.Tick()
	t.mu.Unlock()

	if expiredNow && t.onExpire != nil {
		t.onExpire()
	}

	return expiredNow
}
