package periph

import "fmt"

// Code is a stable identifier for a command outcome. It is comparable,
// allocation-free and implements error, so it can travel over the wire
// unchanged and be matched back by callers.
type Code string

// Error implements error.
func (c Code) Error() string { return string(c) }

// Validation-time codes. Reported before any hardware access, with no
// state change.
const (
	CodeUnknownResource    Code = "unknown_resource"
	CodeModeMismatch       Code = "mode_mismatch"
	CodeOutOfRange         Code = "out_of_range"
	CodeUnknownParameter   Code = "unknown_parameter"
	CodeUnsupportedPattern Code = "unsupported_pattern"
	CodeInvalidPeriod      Code = "invalid_period"
)

// CodeHardwareFault reports a driver-level I/O failure. The registry keeps
// the last known-good value; no automatic retry is attempted.
const CodeHardwareFault Code = "hardware_fault"

// CodeError is the generic fallback for errors outside the taxonomy.
const CodeError Code = "error"

// Error pairs a Code with context and an optional cause.
type Error struct {
	C   Code
	Msg string
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}

// Unwrap supports errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// Code returns the outcome code.
func (e *Error) Code() Code { return e.C }

func codeErrf(c Code, format string, args ...interface{}) *Error {
	return &Error{C: c, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the Code from an error, defaulting to CodeError.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return CodeError
}
