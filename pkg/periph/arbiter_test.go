package periph

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func (l *fifoLock) queued() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.waiters)
}

func waitQueued(t *testing.T, l *fifoLock, n int) {
	deadline := time.Now().Add(time.Second)
	for l.queued() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %d queued waiters", n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestArbiterMutualExclusion(t *testing.T) {
	arb := NewArbiter()
	var inFlight, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := arb.Do(context.Background(), func() error {
				n := atomic.AddInt32(&inFlight, 1)
				if n > atomic.LoadInt32(&peak) {
					atomic.StoreInt32(&peak, n)
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			}, BusDigitalIO)
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestArbiterFIFOOrder(t *testing.T) {
	arb := NewArbiter()
	release := make(chan struct{})
	started := make(chan struct{})
	go arb.Do(context.Background(), func() error {
		close(started)
		<-release
		return nil
	}, BusMotor)
	<-started

	var order []int
	var lock sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			arb.Do(context.Background(), func() error {
				lock.Lock()
				order = append(order, n)
				lock.Unlock()
				return nil
			}, BusMotor)
		}(i)
		// each waiter must be queued before the next arrives.
		waitQueued(t, &arb.buses[BusMotor], i+1)
	}
	close(release)
	wg.Wait()
	require.Equal(t, []int{0, 1, 2}, order)
}

func TestArbiterIndependentBuses(t *testing.T) {
	arb := NewArbiter()
	release := make(chan struct{})
	started := make(chan struct{})
	go arb.Do(context.Background(), func() error {
		close(started)
		<-release
		return nil
	}, BusDigitalIO)
	<-started
	defer close(release)

	done := make(chan error, 1)
	go func() {
		done <- arb.Do(context.Background(), func() error { return nil }, BusMotor)
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("motor bus blocked by digital-io holder")
	}
}

func TestArbiterCancelWhileQueued(t *testing.T) {
	arb := NewArbiter()
	release := make(chan struct{})
	started := make(chan struct{})
	go arb.Do(context.Background(), func() error {
		close(started)
		<-release
		return nil
	}, BusLed)
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	ran := false
	go func() {
		errCh <- arb.Do(ctx, func() error {
			ran = true
			return nil
		}, BusLed)
	}()
	waitQueued(t, &arb.buses[BusLed], 1)
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
	require.False(t, ran)

	// the abandoned slot must not wedge the queue.
	close(release)
	done := make(chan error, 1)
	go func() {
		done <- arb.Do(context.Background(), func() error { return nil }, BusLed)
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("bus wedged after cancellation")
	}
}

func TestArbiterRunsToCompletionOnceGranted(t *testing.T) {
	arb := NewArbiter()
	ctx, cancel := context.WithCancel(context.Background())
	ran := false
	err := arb.Do(ctx, func() error {
		cancel()
		time.Sleep(10 * time.Millisecond)
		ran = true
		return nil
	}, BusMotor)
	require.NoError(t, err)
	require.True(t, ran)
}

func TestArbiterMultiBus(t *testing.T) {
	arb := NewArbiter()
	// duplicates are deduplicated, unordered lists are reordered.
	err := arb.Do(context.Background(), func() error { return nil },
		BusLed, BusMotor, BusMotor, BusDigitalIO)
	require.NoError(t, err)

	require.Equal(t, []Bus{BusDigitalIO, BusMotor, BusLed},
		orderBuses([]Bus{BusLed, BusMotor, BusMotor, BusDigitalIO}))
}
