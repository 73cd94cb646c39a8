package bridge

import "time"

// Backoff computes a bounded exponential reconnect delay (§6.2,
// "bounded-exponential-backoff reconnect"): Base * Factor^attempt, capped
// at Max. attempt is zero-based (the first retry uses attempt 0).
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

// DefaultBackoff matches vango's reconnect tuning: a quick first retry
// that backs off to a 30s ceiling.
var DefaultBackoff = Backoff{Base: 200 * time.Millisecond, Max: 30 * time.Second, Factor: 2}

// Delay returns the delay before the (attempt+1)th reconnect attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(b.Base)
	for i := 0; i < attempt; i++ {
		d *= b.Factor
		if d >= float64(b.Max) {
			return b.Max
		}
	}
	delay := time.Duration(d)
	if delay > b.Max {
		return b.Max
	}
	return delay
}
