package periph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testDescriptorYAML = `
pins:
  - id: led-power
    addr: 1
    mode: output
  - id: estop
    addr: 2
    mode: input
    default: high
motors:
  - id: drive-left
    addr: 10
    params:
      max_speed: {reg: 1, min: 0, max: 5000, default: 1000}
      accel: {reg: 2, min: 0, max: 2000, default: 500}
leds:
  - id: status
    addr: 20
    patterns: [solid, blink]
`

func testDescriptor(t *testing.T) *Descriptor {
	desc, err := ParseDescriptor([]byte(testDescriptorYAML))
	require.NoError(t, err)
	return desc
}

func TestParseDescriptor(t *testing.T) {
	desc := testDescriptor(t)
	require.Len(t, desc.Pins, 2)
	require.Len(t, desc.Motors, 1)
	require.Len(t, desc.Leds, 1)

	pin := desc.PinByID("estop")
	require.NotNil(t, pin)
	require.Equal(t, uint8(2), pin.Addr)
	require.Nil(t, desc.PinByID("nope"))

	motor := desc.MotorByID("drive-left")
	require.NotNil(t, motor)
	require.Equal(t, uint8(1), motor.Params["max_speed"].Reg)
	require.Nil(t, desc.MotorByID("nope"))

	led := desc.LedByID("status")
	require.NotNil(t, led)
	require.True(t, led.SupportsPattern(PatternBlink))
	require.False(t, led.SupportsPattern(PatternPulse))
	require.Nil(t, desc.LedByID("nope"))
}

func TestVerifyDescriptor(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{
			"duplicate id",
			`
pins:
  - {id: a, addr: 1, mode: output}
leds:
  - {id: a, addr: 2, patterns: [solid]}
`,
		},
		{
			"empty id",
			`
pins:
  - {id: "", addr: 1, mode: output}
`,
		},
		{
			"bad pin mode",
			`
pins:
  - {id: a, addr: 1, mode: analog}
`,
		},
		{
			"bad pin default",
			`
pins:
  - {id: a, addr: 1, mode: output, default: up}
`,
		},
		{
			"inverted param range",
			`
motors:
  - id: m
    addr: 1
    params:
      speed: {reg: 1, min: 10, max: 1}
`,
		},
		{
			"default outside range",
			`
motors:
  - id: m
    addr: 1
    params:
      speed: {reg: 1, min: 0, max: 10, default: 20}
`,
		},
		{
			"bad led pattern",
			`
leds:
  - {id: l, addr: 1, patterns: [strobe]}
`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDescriptor([]byte(tc.yaml))
			require.Error(t, err)
		})
	}
}
