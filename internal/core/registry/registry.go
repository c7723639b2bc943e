package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/berfenger/hwpgen/internal/core/domain"
)

var (
	keyRegexp     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	bindingRegexp = regexp.MustCompile(`^set_(.+)_sensor$`)
)

// Registry holds the sensor and input descriptor tables of one component.
// Iteration order is insertion order and drives generation order.
type Registry struct {
	sensors []domain.SensorDescriptor
	inputs  []domain.InputDescriptor
	comp    domain.Component
	index   map[string]int
}

// New validates both tables against each other and against the binding
// points exposed by the component class.
func New(sensors []domain.SensorDescriptor, inputs []domain.InputDescriptor, comp domain.Component) (*Registry, error) {
	r := &Registry{
		sensors: make([]domain.SensorDescriptor, len(sensors)),
		inputs:  make([]domain.InputDescriptor, len(inputs)),
		comp:    comp,
		index:   map[string]int{},
	}
	copy(r.sensors, sensors)
	copy(r.inputs, inputs)
	r.comp.Controls = append([]domain.ControlDescriptor(nil), comp.Controls...)
	r.comp.Class.Methods = append([]string(nil), comp.Class.Methods...)

	for i, s := range r.sensors {
		if !s.Kind.IsSensor() {
			return nil, fmt.Errorf("sensor %q has kind %q: %w", s.Key, s.Kind, domain.ErrUnknownKind)
		}
		if err := r.addKey(s.Key, i); err != nil {
			return nil, err
		}
	}
	for i, in := range r.inputs {
		if !in.Kind.IsInput() {
			return nil, fmt.Errorf("input %q has kind %q: %w", in.Key, in.Kind, domain.ErrUnknownKind)
		}
		if err := r.addKey(in.Key, len(r.sensors)+i); err != nil {
			return nil, err
		}
		if err := checkRegisterOptions(in); err != nil {
			return nil, err
		}
		in.Register.Options = append([]string(nil), in.Register.Options...)
		r.inputs[i] = in
	}
	if err := r.checkControls(); err != nil {
		return nil, err
	}
	if err := r.checkBindings(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) checkControls() error {
	seen := map[string]bool{}
	for _, c := range r.comp.Controls {
		if c.Kind != domain.KIND_SWITCH && c.Kind != domain.KIND_BUTTON {
			return fmt.Errorf("control %q has kind %q: %w", c.Key, c.Kind, domain.ErrUnknownKind)
		}
		if !keyRegexp.MatchString(c.Key) {
			return fmt.Errorf("control %q: %w", c.Key, domain.ErrInvalidKey)
		}
		if r.isComponentID(c.Key) {
			return fmt.Errorf("control %q is a component id: %w", c.Key, domain.ErrReservedKey)
		}
		if _, ok := r.index[c.Key]; ok || seen[c.Key] {
			return fmt.Errorf("control %q: %w", c.Key, domain.ErrDuplicateKey)
		}
		seen[c.Key] = true
	}
	return nil
}

func (r *Registry) addKey(key string, pos int) error {
	if !keyRegexp.MatchString(key) {
		return fmt.Errorf("key %q: %w", key, domain.ErrInvalidKey)
	}
	for _, reserved := range domain.ReservedKeys {
		if strings.EqualFold(reserved, key) {
			return fmt.Errorf("key %q: %w", key, domain.ErrReservedKey)
		}
	}
	if r.isComponentID(key) {
		return fmt.Errorf("key %q is a component id: %w", key, domain.ErrReservedKey)
	}
	if _, ok := r.index[key]; ok {
		return fmt.Errorf("key %q: %w", key, domain.ErrDuplicateKey)
	}
	r.index[key] = pos
	return nil
}

// isComponentID reports whether key would default to an id the controller
// itself defines.
func (r *Registry) isComponentID(key string) bool {
	id := r.comp.DefaultID
	return id != "" && (key == id || key == domain.PinID(id))
}

func checkRegisterOptions(in domain.InputDescriptor) error {
	switch in.Kind {
	case domain.KIND_NUMBER:
		o := in.Register
		if o.MinValue > o.MaxValue {
			return fmt.Errorf("input %q: min_value %v > max_value %v: %w", in.Key, o.MinValue, o.MaxValue, domain.ErrInvalidBounds)
		}
		if o.Step <= 0 {
			return fmt.Errorf("input %q: step %v must be positive: %w", in.Key, o.Step, domain.ErrInvalidBounds)
		}
	case domain.KIND_SELECT:
		if len(in.Register.Options) == 0 {
			return fmt.Errorf("input %q: empty option list: %w", in.Key, domain.ErrInvalidOptions)
		}
		seen := map[string]bool{}
		for _, o := range in.Register.Options {
			if seen[o] {
				return fmt.Errorf("input %q: option %q repeated: %w", in.Key, o, domain.ErrInvalidOptions)
			}
			seen[o] = true
		}
	}
	return nil
}

// checkBindings requires exactly one set_{key}_sensor on the parent per key.
func (r *Registry) checkBindings() error {
	parent := r.comp.Class
	for _, key := range r.Keys() {
		if !parent.HasMethod(domain.BindingName(key)) {
			return fmt.Errorf("%s has no %s: %w", parent.Name, domain.BindingName(key), domain.ErrMissingBindingPoint)
		}
	}
	seen := map[string]bool{}
	for _, m := range parent.Methods {
		match := bindingRegexp.FindStringSubmatch(m)
		if match == nil {
			continue
		}
		if seen[m] {
			return fmt.Errorf("%s declares %s twice: %w", parent.Name, m, domain.ErrDuplicateKey)
		}
		seen[m] = true
		if _, ok := r.index[match[1]]; !ok {
			return fmt.Errorf("%s declares %s: %w", parent.Name, m, domain.ErrUnboundBindingPoint)
		}
	}
	return nil
}

func (r *Registry) Sensors() []domain.SensorDescriptor {
	out := make([]domain.SensorDescriptor, len(r.sensors))
	copy(out, r.sensors)
	return out
}

func (r *Registry) Inputs() []domain.InputDescriptor {
	out := make([]domain.InputDescriptor, len(r.inputs))
	for i, in := range r.inputs {
		in.Register.Options = append([]string(nil), in.Register.Options...)
		out[i] = in
	}
	return out
}

func (r *Registry) Parent() domain.ClassDecl {
	return r.comp.Class
}

func (r *Registry) Component() domain.Component {
	return r.comp
}

func (r *Registry) Controls() []domain.ControlDescriptor {
	return append([]domain.ControlDescriptor(nil), r.comp.Controls...)
}

// Keys returns sensor keys followed by input keys.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.sensors)+len(r.inputs))
	for _, s := range r.sensors {
		keys = append(keys, s.Key)
	}
	for _, in := range r.inputs {
		keys = append(keys, in.Key)
	}
	return keys
}

func (r *Registry) BindingNames() []string {
	keys := r.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = domain.BindingName(k)
	}
	return names
}

func (r *Registry) Sensor(key string) (domain.SensorDescriptor, bool) {
	pos, ok := r.index[key]
	if !ok || pos >= len(r.sensors) {
		return domain.SensorDescriptor{}, false
	}
	return r.sensors[pos], true
}

func (r *Registry) Input(key string) (domain.InputDescriptor, bool) {
	pos, ok := r.index[key]
	if !ok || pos < len(r.sensors) {
		return domain.InputDescriptor{}, false
	}
	return r.Inputs()[pos-len(r.sensors)], true
}
