package periph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistrySeeding(t *testing.T) {
	reg := NewRegistry(testDescriptor(t))

	pin, err := reg.Pin("led-power")
	require.NoError(t, err)
	require.Equal(t, ModeOutput, pin.Mode)
	require.Equal(t, Low, pin.Level)

	pin, err = reg.Pin("estop")
	require.NoError(t, err)
	require.Equal(t, ModeInput, pin.Mode)
	require.Equal(t, High, pin.Level)

	motor, err := reg.Motor("drive-left")
	require.NoError(t, err)
	require.False(t, motor.Applied)
	require.Equal(t, 1000.0, motor.Params["max_speed"])
	require.Equal(t, 500.0, motor.Params["accel"])

	led, err := reg.Led("status")
	require.NoError(t, err)
	require.Equal(t, PatternSolid, led.Kind)
	require.False(t, led.Active)

	require.Equal(t, SeverityInfo, reg.Status().Severity)
}

func TestRegistryUnknownResource(t *testing.T) {
	reg := NewRegistry(testDescriptor(t))
	_, err := reg.Pin("nope")
	require.Equal(t, CodeUnknownResource, CodeOf(err))
	_, err = reg.Motor("nope")
	require.Equal(t, CodeUnknownResource, CodeOf(err))
	_, err = reg.Led("nope")
	require.Equal(t, CodeUnknownResource, CodeOf(err))
}

func TestRegistryPinsSorted(t *testing.T) {
	reg := NewRegistry(testDescriptor(t))
	pins := reg.Pins()
	require.Len(t, pins, 2)
	require.Equal(t, "estop", pins[0].ID)
	require.Equal(t, "led-power", pins[1].ID)
}

func TestRegistryUpdates(t *testing.T) {
	reg := NewRegistry(testDescriptor(t))

	reg.setPin("led-power", High)
	pin, err := reg.Pin("led-power")
	require.NoError(t, err)
	require.Equal(t, High, pin.Level)

	reg.setMotorParams("drive-left", map[string]float64{"max_speed": 2000})
	motor, err := reg.Motor("drive-left")
	require.NoError(t, err)
	require.True(t, motor.Applied)
	require.Equal(t, 2000.0, motor.Params["max_speed"])
	// untouched params keep their defaults.
	require.Equal(t, 500.0, motor.Params["accel"])

	reg.setLedPattern("status", PatternBlink, 250*time.Millisecond)
	led, err := reg.Led("status")
	require.NoError(t, err)
	require.Equal(t, PatternBlink, led.Kind)
	require.Equal(t, 250*time.Millisecond, led.Period)
	require.True(t, led.Active)
}

func TestRegistrySnapshotIsolation(t *testing.T) {
	reg := NewRegistry(testDescriptor(t))
	motor, err := reg.Motor("drive-left")
	require.NoError(t, err)
	motor.Params["max_speed"] = 42

	again, err := reg.Motor("drive-left")
	require.NoError(t, err)
	require.Equal(t, 1000.0, again.Params["max_speed"])
}
