// Package endpoint binds the peripheral service to a transport: it
// translates wire commands into service calls and registry snapshots
// into events.
package endpoint

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/periph.go/pkg/comm"
	fx "github.com/robotalks/periph.go/pkg/framework"
	"github.com/robotalks/periph.go/pkg/periph"
	"github.com/robotalks/periph.go/pkg/periph/msgs"
)

// Endpoint adapts wire messages to the Service. It implements
// comm.CommandHandler for incoming commands and periph.StatusSink for
// outgoing status events.
type Endpoint struct {
	Service *periph.Service
	Events  comm.EventSender
}

// New creates an Endpoint.
func New(svc *periph.Service, events comm.EventSender) *Endpoint {
	return &Endpoint{Service: svc, Events: events}
}

// HandleCommand implements comm.CommandHandler. Every command completes
// with exactly one reply.
func (e *Endpoint) HandleCommand(ctx context.Context, cmd comm.Command) {
	reply := e.dispatch(ctx, cmd.Msg())
	if err := cmd.Done(reply); err != nil {
		glog.Warningf("command reply failed: %v", err)
	}
}

func (e *Endpoint) dispatch(ctx context.Context, msg fx.Message) fx.Message {
	switch m := msg.(type) {
	case *msgs.GetDigitalIO:
		state, err := e.Service.GetDigitalIO(m.Pin)
		if err != nil {
			return msgs.NewCommandErr(err)
		}
		return msgs.NewDigitalIOPinState(state)
	case *msgs.SetDigitalIO:
		if err := e.Service.SetDigitalIO(ctx, m.Pin, m.Level()); err != nil {
			return msgs.NewCommandErr(err)
		}
		return msgs.NewCommandOK()
	case *msgs.ChangeMotorConfig:
		if err := e.Service.ChangeMotorConfig(ctx, m.Motor, m.Params); err != nil {
			return msgs.NewCommandErr(err)
		}
		return msgs.NewCommandOK()
	case *msgs.LedBlinker:
		kind, err := periph.ParsePatternKind(m.Kind)
		if err != nil {
			return msgs.NewCommandErr(err)
		}
		if err := e.Service.LedBlinker(ctx, m.Led, kind, m.Period()); err != nil {
			return msgs.NewCommandErr(err)
		}
		return msgs.NewCommandOK()
	}
	return msgs.NewCommandErr(msgs.ErrUnsupportedCommand)
}

// PublishStatus implements periph.StatusSink.
func (e *Endpoint) PublishStatus(ctx context.Context, status periph.LogStatus, pins []periph.PinState) error {
	var errs fx.AggregatedError
	errs.Add(e.Events.SendEvent(ctx, msgs.NewDigitalIOState(pins)))
	if status.Message != "" {
		errs.Add(e.Events.SendEvent(ctx, msgs.NewLogStatus(status)))
	}
	return errs.Aggregate()
}
