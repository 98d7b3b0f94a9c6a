package periph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidatePinWrite(t *testing.T) {
	desc := testDescriptor(t)
	v := NewValidator(desc, NewRegistry(desc))

	testCases := []struct {
		name string
		pin  string
		code Code
	}{
		{"output ok", "led-power", ""},
		{"unknown pin", "nope", CodeUnknownResource},
		{"input pin", "estop", CodeModeMismatch},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidatePinWrite(tc.pin, High)
			if tc.code == "" {
				require.NoError(t, err)
			} else {
				require.Equal(t, tc.code, CodeOf(err))
			}
		})
	}
}

func TestValidateMotorConfig(t *testing.T) {
	desc := testDescriptor(t)
	v := NewValidator(desc, NewRegistry(desc))

	testCases := []struct {
		name   string
		motor  string
		params map[string]float64
		code   Code
	}{
		{"ok", "drive-left", map[string]float64{"max_speed": 2500, "accel": 100}, ""},
		{"at bounds", "drive-left", map[string]float64{"max_speed": 5000}, ""},
		{"unknown motor", "nope", map[string]float64{"max_speed": 1}, CodeUnknownResource},
		{"unknown param", "drive-left", map[string]float64{"torque": 1}, CodeUnknownParameter},
		{"below min", "drive-left", map[string]float64{"max_speed": -1}, CodeOutOfRange},
		{"above max", "drive-left", map[string]float64{"accel": 2001}, CodeOutOfRange},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateMotorConfig(tc.motor, tc.params)
			if tc.code == "" {
				require.NoError(t, err)
			} else {
				require.Equal(t, tc.code, CodeOf(err))
			}
		})
	}
}

func TestValidateLedPattern(t *testing.T) {
	desc := testDescriptor(t)
	v := NewValidator(desc, NewRegistry(desc))

	testCases := []struct {
		name   string
		led    string
		kind   PatternKind
		period time.Duration
		code   Code
	}{
		{"solid ignores period", "status", PatternSolid, 0, ""},
		{"blink ok", "status", PatternBlink, 100 * time.Millisecond, ""},
		{"unknown led", "nope", PatternSolid, 0, CodeUnknownResource},
		{"unsupported kind", "status", PatternPulse, 100 * time.Millisecond, CodeUnsupportedPattern},
		{"zero period", "status", PatternBlink, 0, CodeInvalidPeriod},
		{"negative period", "status", PatternBlink, -time.Second, CodeInvalidPeriod},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateLedPattern(tc.led, tc.kind, tc.period)
			if tc.code == "" {
				require.NoError(t, err)
			} else {
				require.Equal(t, tc.code, CodeOf(err))
			}
		})
	}
}
