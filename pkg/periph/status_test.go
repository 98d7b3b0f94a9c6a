package periph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatusPublisher(t *testing.T) {
	reg := NewRegistry(testDescriptor(t))
	type sample struct {
		status LogStatus
		pins   []PinState
	}
	samples := make(chan sample, 4)
	pub := &StatusPublisher{
		Interval: 10 * time.Millisecond,
		Registry: reg,
		Sink: PublishStatusFunc(func(ctx context.Context, status LogStatus, pins []PinState) error {
			select {
			case samples <- sample{status: status, pins: pins}:
			default:
			}
			return nil
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pub.Run(ctx) }()

	var got sample
	select {
	case got = <-samples:
	case <-time.After(time.Second):
		t.Fatal("no status published")
	}
	require.Equal(t, SeverityInfo, got.status.Severity)
	require.Len(t, got.pins, 2)

	// the publisher samples current state, it carries no history.
	reg.setPin("led-power", High)
	require.Eventually(t, func() bool {
		select {
		case got = <-samples:
			return got.pins[1].Level == High
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.Equal(t, context.Canceled, <-done)
}

func TestStatusPublisherSinkError(t *testing.T) {
	reg := NewRegistry(testDescriptor(t))
	calls := make(chan struct{}, 4)
	pub := &StatusPublisher{
		Interval: 5 * time.Millisecond,
		Registry: reg,
		Sink: PublishStatusFunc(func(ctx context.Context, status LogStatus, pins []PinState) error {
			select {
			case calls <- struct{}{}:
			default:
			}
			return context.DeadlineExceeded
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pub.Run(ctx)

	// a failing sink never stops the publisher.
	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatal("publisher stopped after sink error")
		}
	}
}
