package periph

import (
	"sort"
	"sync"
	"time"
)

// Registry holds the canonical last-known state of every addressable
// resource. Entries are created once from the descriptor and live for the
// process lifetime; values mutate only through the arbiter, which is the
// single writer per bus. Callers always receive copies.
type Registry struct {
	lock   sync.RWMutex
	pins   map[string]PinState
	motors map[string]MotorState
	leds   map[string]LedState
	status LogStatus
}

// NewRegistry creates a Registry populated from the descriptor.
func NewRegistry(desc *Descriptor) *Registry {
	now := time.Now()
	r := &Registry{
		pins:   make(map[string]PinState, len(desc.Pins)),
		motors: make(map[string]MotorState, len(desc.Motors)),
		leds:   make(map[string]LedState, len(desc.Leds)),
	}
	for _, spec := range desc.Pins {
		mode, _ := ParsePinMode(spec.Mode)
		level := Low
		if spec.Default != "" {
			level, _ = ParseLevel(spec.Default)
		}
		r.pins[spec.ID] = PinState{ID: spec.ID, Mode: mode, Level: level, ModifiedAt: now}
	}
	for _, spec := range desc.Motors {
		params := make(map[string]float64, len(spec.Params))
		for name, p := range spec.Params {
			params[name] = p.Default
		}
		r.motors[spec.ID] = MotorState{ID: spec.ID, Params: params, ModifiedAt: now}
	}
	for _, spec := range desc.Leds {
		r.leds[spec.ID] = LedState{ID: spec.ID, Kind: PatternSolid, ModifiedAt: now}
	}
	r.status = LogStatus{Severity: SeverityInfo, Message: "registry initialized", Time: now}
	return r
}

// Pin returns a snapshot of one pin.
func (r *Registry) Pin(id string) (PinState, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	state, ok := r.pins[id]
	if !ok {
		return PinState{}, codeErrf(CodeUnknownResource, "unknown pin %q", id)
	}
	return state, nil
}

// Pins returns snapshots of all pins, ordered by ID.
func (r *Registry) Pins() []PinState {
	r.lock.RLock()
	states := make([]PinState, 0, len(r.pins))
	for _, state := range r.pins {
		states = append(states, state)
	}
	r.lock.RUnlock()
	sort.Slice(states, func(i, j int) bool { return states[i].ID < states[j].ID })
	return states
}

// Motor returns a snapshot of one motor configuration slot.
func (r *Registry) Motor(id string) (MotorState, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	state, ok := r.motors[id]
	if !ok {
		return MotorState{}, codeErrf(CodeUnknownResource, "unknown motor %q", id)
	}
	state.Params = copyParams(state.Params)
	return state, nil
}

// Led returns a snapshot of one LED.
func (r *Registry) Led(id string) (LedState, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	state, ok := r.leds[id]
	if !ok {
		return LedState{}, codeErrf(CodeUnknownResource, "unknown led %q", id)
	}
	return state, nil
}

// Status returns the current status record.
func (r *Registry) Status() LogStatus {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.status
}

// setPin records a pin level after a successful hardware write, or the
// last read value of an input pin.
func (r *Registry) setPin(id string, level Level) {
	r.lock.Lock()
	if state, ok := r.pins[id]; ok {
		state.Level = level
		state.ModifiedAt = time.Now()
		r.pins[id] = state
	}
	r.lock.Unlock()
}

// setMotorParams merges parameter values after a successful hardware write
// and marks the configuration applied. Partial writes are never recorded.
func (r *Registry) setMotorParams(id string, params map[string]float64) {
	r.lock.Lock()
	if state, ok := r.motors[id]; ok {
		merged := copyParams(state.Params)
		for name, val := range params {
			merged[name] = val
		}
		state.Params = merged
		state.Applied = true
		state.ModifiedAt = time.Now()
		r.motors[id] = state
	}
	r.lock.Unlock()
}

// setLedPattern replaces the active pattern of an LED.
func (r *Registry) setLedPattern(id string, kind PatternKind, period time.Duration) {
	r.lock.Lock()
	if state, ok := r.leds[id]; ok {
		state.Kind = kind
		state.Period = period
		state.Active = true
		state.ModifiedAt = time.Now()
		r.leds[id] = state
	}
	r.lock.Unlock()
}

// noteStatus replaces the current status record.
func (r *Registry) noteStatus(status LogStatus) {
	r.lock.Lock()
	r.status = status
	r.lock.Unlock()
}

func copyParams(params map[string]float64) map[string]float64 {
	copied := make(map[string]float64, len(params))
	for name, val := range params {
		copied[name] = val
	}
	return copied
}
