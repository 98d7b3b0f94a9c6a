package endpoint

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/periph.go/pkg/framework"
	"github.com/robotalks/periph.go/pkg/periph"
	"github.com/robotalks/periph.go/pkg/periph/driver/sim"
	"github.com/robotalks/periph.go/pkg/periph/msgs"
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
leds:
  - id: status
    addr: 20
    patterns: [solid, blink]
`

type fakeCommand struct {
	msg   fx.Message
	reply fx.Message
}

func (c *fakeCommand) Msg() fx.Message { return c.msg }

func (c *fakeCommand) Done(msg fx.Message) error {
	c.reply = msg
	return nil
}

type recordingEvents struct {
	sent []fx.Message
}

func (e *recordingEvents) SendEvent(ctx context.Context, msg fx.Message) error {
	e.sent = append(e.sent, msg)
	return nil
}

func newTestEndpoint(t *testing.T) (*Endpoint, *sim.Driver, *recordingEvents) {
	desc, err := periph.ParseDescriptor([]byte(testDescriptorYAML))
	require.NoError(t, err)
	driver := sim.New()
	events := &recordingEvents{}
	return New(periph.NewService(desc, driver), events), driver, events
}

func (c *fakeCommand) handle(t *testing.T, ep *Endpoint) fx.Message {
	ep.HandleCommand(context.Background(), c)
	require.NotNil(t, c.reply, "command completed without a reply")
	return c.reply
}

func TestEndpointDispatch(t *testing.T) {
	ep, driver, _ := newTestEndpoint(t)

	reply := (&fakeCommand{msg: &msgs.SetDigitalIO{Pin: "led-power", High: true}}).handle(t, ep)
	require.IsType(t, &msgs.CommandOK{}, reply)
	require.Equal(t, periph.High, driver.Pin(1))

	reply = (&fakeCommand{msg: &msgs.GetDigitalIO{Pin: "led-power"}}).handle(t, ep)
	state, ok := reply.(*msgs.DigitalIOPinState)
	require.True(t, ok)
	require.Equal(t, "led-power", state.Pin)
	require.Equal(t, "output", state.Mode)
	require.True(t, state.High)

	reply = (&fakeCommand{msg: &msgs.ChangeMotorConfig{
		Motor:  "drive-left",
		Params: map[string]float64{"max_speed": 2000},
	}}).handle(t, ep)
	require.IsType(t, &msgs.CommandOK{}, reply)
	val, ok := driver.MotorReg(10, 1)
	require.True(t, ok)
	require.Equal(t, 2000.0, val)

	reply = (&fakeCommand{msg: &msgs.LedBlinker{Led: "status", Kind: "blink", PeriodMs: 250}}).handle(t, ep)
	require.IsType(t, &msgs.CommandOK{}, reply)
	require.Equal(t, sim.LedPattern{Kind: periph.PatternBlink, Period: 250 * time.Millisecond}, driver.Led(20))
}

func TestEndpointErrorReplies(t *testing.T) {
	ep, _, _ := newTestEndpoint(t)

	testCases := []struct {
		name string
		msg  fx.Message
		code periph.Code
	}{
		{"unknown pin", &msgs.GetDigitalIO{Pin: "nope"}, periph.CodeUnknownResource},
		{"write input pin", &msgs.SetDigitalIO{Pin: "estop", High: true}, periph.CodeModeMismatch},
		{"out of range", &msgs.ChangeMotorConfig{
			Motor: "drive-left", Params: map[string]float64{"max_speed": 9000},
		}, periph.CodeOutOfRange},
		{"unknown parameter", &msgs.ChangeMotorConfig{
			Motor: "drive-left", Params: map[string]float64{"torque": 1},
		}, periph.CodeUnknownParameter},
		{"bad pattern kind", &msgs.LedBlinker{Led: "status", Kind: "strobe"}, periph.CodeUnsupportedPattern},
		{"zero blink period", &msgs.LedBlinker{Led: "status", Kind: "blink"}, periph.CodeInvalidPeriod},
		{"unsupported command", &msgs.CommandOK{}, periph.CodeError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reply := (&fakeCommand{msg: tc.msg}).handle(t, ep)
			cmdErr, ok := reply.(*msgs.CommandErr)
			require.True(t, ok, "expected CommandErr, got %T", reply)
			require.Equal(t, tc.code, cmdErr.OutcomeCode())
		})
	}
}

func TestEndpointPublishStatus(t *testing.T) {
	ep, _, events := newTestEndpoint(t)
	ctx := context.Background()

	pins := ep.Service.DigitalIOState()
	require.NoError(t, ep.PublishStatus(ctx, periph.LogStatus{}, pins))
	require.Len(t, events.sent, 1)
	state, ok := events.sent[0].(*msgs.DigitalIOState)
	require.True(t, ok)
	require.Len(t, state.Pins, 2)

	status := periph.LogStatus{
		Severity: periph.SeverityError,
		Message:  "pin 1 write failed",
		Time:     time.Now(),
	}
	require.NoError(t, ep.PublishStatus(ctx, status, pins))
	require.Len(t, events.sent, 3)
	log, ok := events.sent[2].(*msgs.LogStatus)
	require.True(t, ok)
	require.Equal(t, "error", log.Severity)
}
