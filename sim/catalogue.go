package sim

import "github.com/pkg/errors"

// constructor builds a *Component from its descriptor. Constructors must
// not mutate desc.
type constructor func(desc ComponentDescriptor) (*Component, error)

// registry maps catalogue Type names to their constructors. Populated by
// register() calls in each component family's init() (gates.go, sources.go,
// flipflops.go, combinational.go, registers.go, memory.go, io.go).
var registry = map[Type]constructor{}

func register(t Type, c constructor) {
	if _, exists := registry[t]; exists {
		panic("sim: duplicate registration for type " + string(t))
	}
	registry[t] = c
}

// ErrUnknownType is wrapped into the error returned by NewComponent when
// desc.Type has no registered constructor.
var ErrUnknownType = errors.New("unknown component type")

// NewComponent constructs a Component from desc using the catalogue
// registry. Per spec §4.6.2 this is fatal to the caller (Initialize or
// AddGate reject the whole operation) — NewComponent itself just reports the
// error; it never panics on an unknown type.
func NewComponent(desc ComponentDescriptor) (*Component, error) {
	ctor, ok := registry[desc.Type]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "type %q (component %q)", desc.Type, desc.ID)
	}
	c, err := ctor(desc)
	if err != nil {
		return nil, errors.Wrapf(err, "constructing component %q", desc.ID)
	}
	c.ID = desc.ID
	c.Type = desc.Type
	return c, nil
}

// baseComponent builds the common scaffolding (port slices, previous-input
// snapshot, wire index slices) shared by every constructor.
func baseComponent(delay Time, numIn, numOut int) *Component {
	return &Component{
		Delay:       delay,
		Inputs:      fillUnknown(numIn),
		PrevInputs:  fillUnknown(numIn),
		Outputs:     fillUnknown(numOut),
		InputWires:  make([][]string, numIn),
		OutputWires: make([][]string, numOut),
	}
}
