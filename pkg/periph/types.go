package periph

import (
	"fmt"
	"time"
)

// PinMode is the configured direction of a digital I/O pin.
type PinMode int

// Pin modes
const (
	ModeInput PinMode = iota
	ModeOutput
)

// String implements Stringer.
func (m PinMode) String() string {
	if m == ModeOutput {
		return "output"
	}
	return "input"
}

// ParsePinMode parses the text form of a PinMode.
func ParsePinMode(s string) (PinMode, error) {
	switch s {
	case "input":
		return ModeInput, nil
	case "output":
		return ModeOutput, nil
	}
	return ModeInput, fmt.Errorf("unknown pin mode %q", s)
}

// Level is the logic level of a digital I/O pin.
type Level int

// Logic levels
const (
	Low  Level = 0
	High Level = 1
)

// String implements Stringer.
func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// ParseLevel parses the text form of a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "low", "0":
		return Low, nil
	case "high", "1":
		return High, nil
	}
	return Low, fmt.Errorf("unknown level %q", s)
}

// PatternKind is the kind of an LED pattern.
type PatternKind int

// Pattern kinds
const (
	PatternSolid PatternKind = iota
	PatternBlink
	PatternPulse
)

// String implements Stringer.
func (k PatternKind) String() string {
	switch k {
	case PatternBlink:
		return "blink"
	case PatternPulse:
		return "pulse"
	}
	return "solid"
}

// ParsePatternKind parses the text form of a PatternKind.
func ParsePatternKind(s string) (PatternKind, error) {
	switch s {
	case "solid":
		return PatternSolid, nil
	case "blink":
		return PatternBlink, nil
	case "pulse":
		return PatternPulse, nil
	}
	return PatternSolid, &Error{C: CodeUnsupportedPattern, Msg: fmt.Sprintf("unknown pattern kind %q", s)}
}

// Severity grades a LogStatus record.
type Severity int

// Severities
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String implements Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "info"
}

// PinState is an immutable snapshot of one digital I/O pin.
type PinState struct {
	ID         string
	Mode       PinMode
	Level      Level
	ModifiedAt time.Time
}

// MotorState is an immutable snapshot of one motor configuration slot.
// Params is a copy owned by the receiver.
type MotorState struct {
	ID         string
	Params     map[string]float64
	Applied    bool
	ModifiedAt time.Time
}

// LedState is an immutable snapshot of one LED.
type LedState struct {
	ID         string
	Kind       PatternKind
	Period     time.Duration
	Active     bool
	ModifiedAt time.Time
}

// LogStatus is an immutable status record, created on notable events
// and never mutated afterwards.
type LogStatus struct {
	Severity Severity
	Message  string
	Time     time.Time
}
