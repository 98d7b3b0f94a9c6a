package periph

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// Descriptor is the static hardware descriptor loaded at service start.
// It enumerates every addressable pin, motor and LED; no resources are
// created or deleted at runtime.
type Descriptor struct {
	Pins   []PinSpec   `yaml:"pins"`
	Motors []MotorSpec `yaml:"motors"`
	Leds   []LedSpec   `yaml:"leds"`
}

// PinSpec declares one digital I/O pin.
type PinSpec struct {
	ID      string `yaml:"id"`
	Addr    uint8  `yaml:"addr"`
	Mode    string `yaml:"mode"`
	Default string `yaml:"default,omitempty"`
}

// ParamSpec declares one motor configuration parameter with its
// hardware-safe range.
type ParamSpec struct {
	Reg     uint8   `yaml:"reg"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Default float64 `yaml:"default"`
}

// MotorSpec declares one motor configuration slot.
type MotorSpec struct {
	ID     string               `yaml:"id"`
	Addr   uint8                `yaml:"addr"`
	Params map[string]ParamSpec `yaml:"params"`
}

// LedSpec declares one status LED and the pattern kinds it supports.
type LedSpec struct {
	ID       string   `yaml:"id"`
	Addr     uint8    `yaml:"addr"`
	Patterns []string `yaml:"patterns"`
}

// LoadDescriptor reads and parses a descriptor file.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDescriptor(data)
}

// ParseDescriptor parses a YAML descriptor and verifies it is
// self-consistent.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var desc Descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, err
	}
	if err := desc.Verify(); err != nil {
		return nil, err
	}
	return &desc, nil
}

// Verify checks the descriptor for duplicate identifiers, unknown mode or
// pattern names, and inverted parameter ranges.
func (d *Descriptor) Verify() error {
	ids := make(map[string]bool)
	unique := func(id string) error {
		if id == "" {
			return fmt.Errorf("descriptor: empty resource id")
		}
		if ids[id] {
			return fmt.Errorf("descriptor: duplicate resource id %q", id)
		}
		ids[id] = true
		return nil
	}
	for _, pin := range d.Pins {
		if err := unique(pin.ID); err != nil {
			return err
		}
		if _, err := ParsePinMode(pin.Mode); err != nil {
			return fmt.Errorf("descriptor: pin %q: %v", pin.ID, err)
		}
		if pin.Default != "" {
			if _, err := ParseLevel(pin.Default); err != nil {
				return fmt.Errorf("descriptor: pin %q: %v", pin.ID, err)
			}
		}
	}
	for _, motor := range d.Motors {
		if err := unique(motor.ID); err != nil {
			return err
		}
		for name, param := range motor.Params {
			if param.Min > param.Max {
				return fmt.Errorf("descriptor: motor %q param %q: min %v > max %v",
					motor.ID, name, param.Min, param.Max)
			}
			if param.Default < param.Min || param.Default > param.Max {
				return fmt.Errorf("descriptor: motor %q param %q: default %v outside [%v, %v]",
					motor.ID, name, param.Default, param.Min, param.Max)
			}
		}
	}
	for _, led := range d.Leds {
		if err := unique(led.ID); err != nil {
			return err
		}
		for _, pat := range led.Patterns {
			if _, err := ParsePatternKind(pat); err != nil {
				return fmt.Errorf("descriptor: led %q: %v", led.ID, err)
			}
		}
	}
	return nil
}

// PinByID finds a pin spec.
func (d *Descriptor) PinByID(id string) *PinSpec {
	for i := range d.Pins {
		if d.Pins[i].ID == id {
			return &d.Pins[i]
		}
	}
	return nil
}

// MotorByID finds a motor spec.
func (d *Descriptor) MotorByID(id string) *MotorSpec {
	for i := range d.Motors {
		if d.Motors[i].ID == id {
			return &d.Motors[i]
		}
	}
	return nil
}

// LedByID finds an LED spec.
func (d *Descriptor) LedByID(id string) *LedSpec {
	for i := range d.Leds {
		if d.Leds[i].ID == id {
			return &d.Leds[i]
		}
	}
	return nil
}

// SupportsPattern reports whether the LED supports a pattern kind.
func (s *LedSpec) SupportsPattern(kind PatternKind) bool {
	for _, pat := range s.Patterns {
		if k, err := ParsePatternKind(pat); err == nil && k == kind {
			return true
		}
	}
	return false
}
