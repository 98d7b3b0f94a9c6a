package periph

import (
	"context"
	"sort"
	"sync"
)

// Bus identifies a physical hardware channel requiring mutually
// exclusive access.
type Bus int

// Buses, in the fixed global acquisition order.
const (
	BusDigitalIO Bus = iota
	BusMotor
	BusLed
	busCount
)

// String implements Stringer.
func (b Bus) String() string {
	switch b {
	case BusDigitalIO:
		return "digital-io"
	case BusMotor:
		return "motor"
	case BusLed:
		return "led"
	}
	return "unknown"
}

// Arbiter guarantees at most one in-flight hardware-touching operation
// per bus while operations on independent buses proceed concurrently.
// Waiters on a bus are served in arrival order. Operations spanning
// multiple buses acquire them in the fixed global bus order, which rules
// out deadlock by construction.
type Arbiter struct {
	buses [busCount]fifoLock
}

// NewArbiter creates an Arbiter.
func NewArbiter() *Arbiter {
	return &Arbiter{}
}

// Do acquires exclusive access to the listed buses, runs fn to
// completion and releases them. A caller may abandon the request via ctx
// while still queued, with no side effect; once all buses are granted,
// fn runs without mid-flight cancellation.
func (a *Arbiter) Do(ctx context.Context, fn func() error, buses ...Bus) error {
	ordered := orderBuses(buses)
	acquired := make([]Bus, 0, len(ordered))
	for _, bus := range ordered {
		if err := a.buses[bus].acquire(ctx); err != nil {
			for i := len(acquired) - 1; i >= 0; i-- {
				a.buses[acquired[i]].release()
			}
			return err
		}
		acquired = append(acquired, bus)
	}
	err := fn()
	for i := len(acquired) - 1; i >= 0; i-- {
		a.buses[acquired[i]].release()
	}
	return err
}

// orderBuses sorts ascending and removes duplicates. The locks are
// non-reentrant, so a duplicate would self-deadlock.
func orderBuses(buses []Bus) []Bus {
	ordered := append([]Bus(nil), buses...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })
	out := ordered[:0]
	for i, bus := range ordered {
		if i == 0 || bus != ordered[i-1] {
			out = append(out, bus)
		}
	}
	return out
}

// fifoLock is a non-reentrant mutual exclusion lock granting waiters
// strictly in arrival order.
type fifoLock struct {
	lock    sync.Mutex
	held    bool
	waiters []chan struct{}
}

func (l *fifoLock) acquire(ctx context.Context) error {
	l.lock.Lock()
	if !l.held {
		l.held = true
		l.lock.Unlock()
		return nil
	}
	grant := make(chan struct{})
	l.waiters = append(l.waiters, grant)
	l.lock.Unlock()
	select {
	case <-grant:
		return nil
	case <-ctx.Done():
	}
	// Abandoned while queued: leave the queue. If the grant raced the
	// cancellation and was already handed over, pass it on.
	l.lock.Lock()
	for i, w := range l.waiters {
		if w == grant {
			l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
			l.lock.Unlock()
			return ctx.Err()
		}
	}
	l.lock.Unlock()
	l.release()
	return ctx.Err()
}

func (l *fifoLock) release() {
	l.lock.Lock()
	if len(l.waiters) > 0 {
		grant := l.waiters[0]
		l.waiters = l.waiters[1:]
		l.lock.Unlock()
		close(grant)
		return
	}
	l.held = false
	l.lock.Unlock()
}
