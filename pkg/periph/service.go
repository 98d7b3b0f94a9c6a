package periph

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
)

// Service is the façade over the peripheral hardware: every operation is
// validated, then arbitrated, then applied to the hardware and recorded
// in the registry. Operations are synchronous and complete with exactly
// one outcome from the Code taxonomy.
type Service struct {
	desc  *Descriptor
	reg   *Registry
	valid *Validator
	arb   *Arbiter
	drv   Driver
}

// NewService creates a Service from a verified descriptor and a driver.
func NewService(desc *Descriptor, drv Driver) *Service {
	reg := NewRegistry(desc)
	return &Service{
		desc:  desc,
		reg:   reg,
		valid: NewValidator(desc, reg),
		arb:   NewArbiter(),
		drv:   drv,
	}
}

// Registry exposes the registry for observers. Observers only read.
func (s *Service) Registry() *Registry {
	return s.reg
}

// GetDigitalIO returns the snapshot of one pin. It reads the registry
// only and never blocks on hardware.
func (s *Service) GetDigitalIO(id string) (PinState, error) {
	return s.reg.Pin(id)
}

// DigitalIOState returns snapshots of all pins, ordered by ID.
func (s *Service) DigitalIOState() []PinState {
	return s.reg.Pins()
}

// SetDigitalIO drives an output pin to a level. ctx only bounds the wait
// for bus access; once granted, the write runs to completion.
func (s *Service) SetDigitalIO(ctx context.Context, id string, level Level) error {
	if err := s.valid.ValidatePinWrite(id, level); err != nil {
		return err
	}
	spec := s.desc.PinByID(id)
	return s.arb.Do(ctx, func() error {
		if err := s.drv.ApplyPinWrite(context.Background(), spec.Addr, level); err != nil {
			return s.fault(fmt.Sprintf("pin %s write failed", id), err)
		}
		s.reg.setPin(id, level)
		return nil
	}, BusDigitalIO)
}

// ChangeMotorConfig writes validated parameter values to a motor. On a
// hardware fault the registry keeps the prior applied configuration.
func (s *Service) ChangeMotorConfig(ctx context.Context, id string, params map[string]float64) error {
	if err := s.valid.ValidateMotorConfig(id, params); err != nil {
		return err
	}
	spec := s.desc.MotorByID(id)
	regs := make(map[uint8]float64, len(params))
	for name, val := range params {
		regs[spec.Params[name].Reg] = val
	}
	return s.arb.Do(ctx, func() error {
		if err := s.drv.ApplyMotorConfig(context.Background(), spec.Addr, regs); err != nil {
			return s.fault(fmt.Sprintf("motor %s config failed", id), err)
		}
		s.reg.setMotorParams(id, params)
		return nil
	}, BusMotor)
}

// LedBlinker replaces the pattern running on an LED. The new pattern
// atomically replaces the previous one. The period is ignored for solid
// patterns and recorded as zero.
func (s *Service) LedBlinker(ctx context.Context, id string, kind PatternKind, period time.Duration) error {
	if err := s.valid.ValidateLedPattern(id, kind, period); err != nil {
		return err
	}
	if kind == PatternSolid {
		period = 0
	}
	spec := s.desc.LedByID(id)
	return s.arb.Do(ctx, func() error {
		if err := s.drv.ApplyLedPattern(context.Background(), spec.Addr, kind, period); err != nil {
			return s.fault(fmt.Sprintf("led %s pattern failed", id), err)
		}
		s.reg.setLedPattern(id, kind, period)
		return nil
	}, BusLed)
}

// Motor returns the snapshot of one motor configuration slot.
func (s *Service) Motor(id string) (MotorState, error) {
	return s.reg.Motor(id)
}

// Led returns the snapshot of one LED.
func (s *Service) Led(id string) (LedState, error) {
	return s.reg.Led(id)
}

// Name implements Named.
func (s *Service) Name() string {
	return "periph"
}

// Run consumes driver-reported input pin events, routing the registry
// updates through the arbiter to keep the single-writer rule. It returns
// when ctx is done or the driver closes its event channel.
func (s *Service) Run(ctx context.Context) error {
	s.reg.noteStatus(LogStatus{Severity: SeverityInfo, Message: "service started", Time: time.Now()})
	src, ok := s.drv.(EventSource)
	if !ok {
		<-ctx.Done()
		return ctx.Err()
	}
	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.handlePinEvent(ctx, ev)
		}
	}
}

func (s *Service) handlePinEvent(ctx context.Context, ev PinEvent) {
	id := s.pinIDByAddr(ev.Addr)
	if id == "" {
		glog.Warningf("pin event for unknown addr %d", ev.Addr)
		return
	}
	state, err := s.reg.Pin(id)
	if err != nil || state.Mode != ModeInput {
		glog.Warningf("pin event for non-input pin %q", id)
		return
	}
	err = s.arb.Do(ctx, func() error {
		s.reg.setPin(id, ev.Level)
		return nil
	}, BusDigitalIO)
	if err != nil {
		glog.V(2).Infof("pin event dropped: %v", err)
	}
}

func (s *Service) pinIDByAddr(addr uint8) string {
	for i := range s.desc.Pins {
		if s.desc.Pins[i].Addr == addr {
			return s.desc.Pins[i].ID
		}
	}
	return ""
}

// fault records a hardware fault status and returns the wrapped error.
// The registry entry is left at its last known-good value.
func (s *Service) fault(msg string, err error) error {
	glog.Errorf("%s: %v", msg, err)
	s.reg.noteStatus(LogStatus{Severity: SeverityError, Message: msg, Time: time.Now()})
	return &Error{C: CodeHardwareFault, Msg: msg, Err: err}
}
