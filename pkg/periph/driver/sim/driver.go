// Package sim provides a simulated peripheral driver for development
// and tests: state is held in memory, faults and input pin changes can
// be injected.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/periph.go/pkg/periph"
)

// Op identifies a driver operation for fault injection.
type Op string

// Operations
const (
	OpPinWrite    Op = "pin-write"
	OpMotorConfig Op = "motor-config"
	OpLedPattern  Op = "led-pattern"
)

type faultKey struct {
	op   Op
	addr uint8
}

// LedPattern is the last pattern applied to a simulated LED.
type LedPattern struct {
	Kind   periph.PatternKind
	Period time.Duration
}

// Driver simulates the peripheral hardware.
type Driver struct {
	// Latency is an optional artificial delay per operation.
	Latency time.Duration

	lock   sync.Mutex
	pins   map[uint8]periph.Level
	motors map[uint8]map[uint8]float64
	leds   map[uint8]LedPattern
	faults map[faultKey]error
	events chan periph.PinEvent
}

// New creates a Driver.
func New() *Driver {
	return &Driver{
		pins:   make(map[uint8]periph.Level),
		motors: make(map[uint8]map[uint8]float64),
		leds:   make(map[uint8]LedPattern),
		faults: make(map[faultKey]error),
		events: make(chan periph.PinEvent, 16),
	}
}

// FailWith injects a persistent fault for one operation on one address.
func (d *Driver) FailWith(op Op, addr uint8, err error) {
	d.lock.Lock()
	d.faults[faultKey{op, addr}] = err
	d.lock.Unlock()
}

// ClearFault removes an injected fault.
func (d *Driver) ClearFault(op Op, addr uint8) {
	d.lock.Lock()
	delete(d.faults, faultKey{op, addr})
	d.lock.Unlock()
}

// InjectInput reports a level change on an input pin.
func (d *Driver) InjectInput(addr uint8, level periph.Level) {
	d.events <- periph.PinEvent{Addr: addr, Level: level}
}

// Events implements EventSource.
func (d *Driver) Events() <-chan periph.PinEvent {
	return d.events
}

// Close stops event delivery.
func (d *Driver) Close() error {
	close(d.events)
	return nil
}

// ApplyPinWrite implements Driver.
func (d *Driver) ApplyPinWrite(ctx context.Context, addr uint8, level periph.Level) error {
	d.settle()
	d.lock.Lock()
	defer d.lock.Unlock()
	if err := d.faults[faultKey{OpPinWrite, addr}]; err != nil {
		return err
	}
	d.pins[addr] = level
	glog.V(2).Infof("sim: pin %d <- %v", addr, level)
	return nil
}

// ApplyMotorConfig implements Driver.
func (d *Driver) ApplyMotorConfig(ctx context.Context, addr uint8, regs map[uint8]float64) error {
	d.settle()
	d.lock.Lock()
	defer d.lock.Unlock()
	if err := d.faults[faultKey{OpMotorConfig, addr}]; err != nil {
		return err
	}
	slot := d.motors[addr]
	if slot == nil {
		slot = make(map[uint8]float64)
		d.motors[addr] = slot
	}
	for reg, val := range regs {
		slot[reg] = val
	}
	glog.V(2).Infof("sim: motor %d <- %d regs", addr, len(regs))
	return nil
}

// ApplyLedPattern implements Driver.
func (d *Driver) ApplyLedPattern(ctx context.Context, addr uint8, kind periph.PatternKind, period time.Duration) error {
	d.settle()
	d.lock.Lock()
	defer d.lock.Unlock()
	if err := d.faults[faultKey{OpLedPattern, addr}]; err != nil {
		return err
	}
	d.leds[addr] = LedPattern{Kind: kind, Period: period}
	glog.V(2).Infof("sim: led %d <- %v %v", addr, kind, period)
	return nil
}

// Pin returns the simulated level of a pin.
func (d *Driver) Pin(addr uint8) periph.Level {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.pins[addr]
}

// MotorReg returns a simulated motor register value.
func (d *Driver) MotorReg(addr, reg uint8) (float64, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()
	slot, ok := d.motors[addr]
	if !ok {
		return 0, false
	}
	val, ok := slot[reg]
	return val, ok
}

// Led returns the last pattern applied to a simulated LED.
func (d *Driver) Led(addr uint8) LedPattern {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.leds[addr]
}

func (d *Driver) settle() {
	if d.Latency > 0 {
		time.Sleep(d.Latency)
	}
}
