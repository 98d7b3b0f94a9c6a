package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/periph.go/pkg/periph"
)

func TestDriverApply(t *testing.T) {
	d := New()
	ctx := context.Background()

	require.NoError(t, d.ApplyPinWrite(ctx, 1, periph.High))
	require.Equal(t, periph.High, d.Pin(1))

	require.NoError(t, d.ApplyMotorConfig(ctx, 10, map[uint8]float64{1: 2000}))
	val, ok := d.MotorReg(10, 1)
	require.True(t, ok)
	require.Equal(t, 2000.0, val)
	_, ok = d.MotorReg(10, 9)
	require.False(t, ok)

	require.NoError(t, d.ApplyLedPattern(ctx, 20, periph.PatternBlink, 250*time.Millisecond))
	require.Equal(t, LedPattern{Kind: periph.PatternBlink, Period: 250 * time.Millisecond}, d.Led(20))
}

func TestDriverFaultInjection(t *testing.T) {
	d := New()
	ctx := context.Background()
	boom := context.DeadlineExceeded

	d.FailWith(OpPinWrite, 1, boom)
	require.Equal(t, boom, d.ApplyPinWrite(ctx, 1, periph.High))
	// other addresses are unaffected.
	require.NoError(t, d.ApplyPinWrite(ctx, 2, periph.High))

	d.ClearFault(OpPinWrite, 1)
	require.NoError(t, d.ApplyPinWrite(ctx, 1, periph.High))
}

func TestDriverInputEvents(t *testing.T) {
	d := New()
	d.InjectInput(2, periph.Low)
	select {
	case ev := <-d.Events():
		require.Equal(t, periph.PinEvent{Addr: 2, Level: periph.Low}, ev)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
	require.NoError(t, d.Close())
	_, ok := <-d.Events()
	require.False(t, ok)
}
