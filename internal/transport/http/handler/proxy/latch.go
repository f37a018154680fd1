package proxy

import "sync/atomic"

// Latch is a single-assignment flag. Exactly one Claim call returns true.
type Latch struct {
	claimed atomic.Bool
}

// Claim reports whether the caller is the first to claim the latch.
func (l *Latch) Claim() bool {
	return l.claimed.CompareAndSwap(false, true)
}
