package toast

import "time"

// timer is the countdown of one notification with a finite lifetime.
// All fields are guarded by the owning Manager's mutex.
type timer struct {
	id       string
	lifetime time.Duration
	interval time.Duration
	elapsed  time.Duration
	stop     func()
}

// advance accumulates one tick and reports whether the lifetime is used up.
func (t *timer) advance() (expired bool) {
	t.elapsed += t.interval
	return t.elapsed >= t.lifetime
}

// remainingPercent is max(0, 100 * (1 - elapsed/lifetime)).
func (t *timer) remainingPercent() float64 {
	left := t.lifetime - t.elapsed
	if left <= 0 {
		return 0
	}
	return float64(left) * 100 / float64(t.lifetime)
}

// cancel stops future ticks. Safe to call more than once.
func (t *timer) cancel() {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}
