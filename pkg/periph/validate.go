package periph

import "time"

// Validator checks requested operations against the descriptor and the
// current registry state. Validation is pure: it has no side effects and
// always runs before any hardware access.
type Validator struct {
	desc *Descriptor
	reg  *Registry
}

// NewValidator creates a Validator.
func NewValidator(desc *Descriptor, reg *Registry) *Validator {
	return &Validator{desc: desc, reg: reg}
}

// ValidatePinWrite checks a digital output write.
func (v *Validator) ValidatePinWrite(id string, level Level) error {
	state, err := v.reg.Pin(id)
	if err != nil {
		return err
	}
	if state.Mode != ModeOutput {
		return codeErrf(CodeModeMismatch, "pin %q is not an output", id)
	}
	return nil
}

// ValidateMotorConfig checks a motor configuration change against the
// declared parameter schema and hardware-safe ranges.
func (v *Validator) ValidateMotorConfig(id string, params map[string]float64) error {
	spec := v.desc.MotorByID(id)
	if spec == nil {
		return codeErrf(CodeUnknownResource, "unknown motor %q", id)
	}
	for name, val := range params {
		pspec, ok := spec.Params[name]
		if !ok {
			return codeErrf(CodeUnknownParameter, "motor %q has no parameter %q", id, name)
		}
		if val < pspec.Min || val > pspec.Max {
			return codeErrf(CodeOutOfRange, "motor %q parameter %q: %v outside [%v, %v]",
				id, name, val, pspec.Min, pspec.Max)
		}
	}
	return nil
}

// ValidateLedPattern checks an LED pattern request. Blink and pulse
// patterns require a positive period; solid ignores the period.
func (v *Validator) ValidateLedPattern(id string, kind PatternKind, period time.Duration) error {
	spec := v.desc.LedByID(id)
	if spec == nil {
		return codeErrf(CodeUnknownResource, "unknown led %q", id)
	}
	if !spec.SupportsPattern(kind) {
		return codeErrf(CodeUnsupportedPattern, "led %q does not support %v", id, kind)
	}
	if kind != PatternSolid && period <= 0 {
		return codeErrf(CodeInvalidPeriod, "led %q: period %v must be positive", id, period)
	}
	return nil
}
