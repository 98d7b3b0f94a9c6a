package periph

import (
	"context"
	"time"
)

// Driver is the hardware-access collaborator. Implementations are treated
// as opaque and unreliable: any call may fail with a driver-reported I/O
// error, and the caller of this interface owns all retry policy.
type Driver interface {
	// ApplyPinWrite drives an output pin to a logic level.
	ApplyPinWrite(ctx context.Context, addr uint8, level Level) error
	// ApplyMotorConfig writes configuration register values to a motor.
	// The write is all-or-nothing from the caller's perspective.
	ApplyMotorConfig(ctx context.Context, addr uint8, regs map[uint8]float64) error
	// ApplyLedPattern replaces the pattern running on an LED.
	ApplyLedPattern(ctx context.Context, addr uint8, kind PatternKind, period time.Duration) error
}

// PinEvent reports a level change observed on an input pin.
type PinEvent struct {
	Addr  uint8
	Level Level
}

// EventSource is implemented by drivers able to report input pin changes.
type EventSource interface {
	// Events returns the channel delivering pin events. The driver closes
	// it when no more events will be delivered.
	Events() <-chan PinEvent
}
