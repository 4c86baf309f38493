package sim

// Type identifies one of the catalogue's component variants (spec §4.4).
type Type string

const (
	TypeToggle     Type = "TOGGLE"
	TypeClock      Type = "CLOCK"
	TypePulse      Type = "PULSE"
	TypeNot        Type = "NOT"
	TypeAnd        Type = "AND"
	TypeOr         Type = "OR"
	TypeXor        Type = "XOR"
	TypeNand       Type = "NAND"
	TypeNor        Type = "NOR"
	TypeXnor       Type = "XNOR"
	TypeBuffer     Type = "BUFFER"
	TypeTriBuffer  Type = "TRI_BUFFER"
	TypeDFF        Type = "D_FLIPFLOP"
	TypeDFFSR      Type = "D_FLIPFLOP_SR"
	TypeJKFF       Type = "JK_FLIPFLOP"
	TypeJKFFSR     Type = "JK_FLIPFLOP_SR"
	TypeMux2to1    Type = "MUX_2TO1"
	TypeMux4to1    Type = "MUX_4TO1"
	TypeMux8to1    Type = "MUX_8TO1"
	TypeDemux1to2  Type = "DEMUX_1TO2"
	TypeDemux1to4  Type = "DEMUX_1TO4"
	TypeDecoder2to4 Type = "DECODER_2TO4"
	TypeDecoder3to8 Type = "DECODER_3TO8"
	TypeEncoder4to2 Type = "ENCODER_4TO2"
	TypeEncoder8to3 Type = "ENCODER_8TO3"
	TypeFullAdder  Type = "FULL_ADDER"
	TypeAdder4Bit  Type = "ADDER_4BIT"
	TypeComparator1Bit Type = "COMPARATOR_1BIT"
	TypeComparator4Bit Type = "COMPARATOR_4BIT"
	TypeRegister4Bit Type = "REGISTER_4BIT"
	TypeRegister8Bit Type = "REGISTER_8BIT"
	TypeShiftReg4Bit Type = "SHIFT_REG_4BIT"
	TypeCounter4Bit  Type = "COUNTER_4BIT"
	TypeRAM16x4 Type = "RAM_16X4"
	TypeRAM16x8 Type = "RAM_16X8"
	TypeROM16x4 Type = "ROM_16X4"
	TypeROM16x8 Type = "ROM_16X8"
	TypeLED         Type = "LED"
	TypeDisplay1D   Type = "DISPLAY_1D"
	TypeDisplay2D   Type = "DISPLAY_2D"
	TypeKeypad      Type = "KEYPAD"
)

// EvalContext carries the ambient values a component's Evaluate function may
// need beyond its own ports and memory.
type EvalContext struct {
	Time Time
}

// evalFunc computes new outputs (and mutates Memory/PrevInputs as needed)
// from the component's current Inputs. It returns by mutating c.Outputs in
// place; the kernel diffs against a pre-evaluation snapshot to decide what
// to propagate.
type evalFunc func(c *Component, ctx EvalContext)

// Component is one instance of a catalogue Type: a fixed-arity bundle of
// input/output ports, an optional opaque Memory record, and an Evaluate
// closure bound at construction time. There is no inheritance: every
// variant's behavior lives entirely in the closure the catalogue factory
// supplies (spec §9 "No inheritance").
type Component struct {
	ID    string
	Type  Type
	Delay Time

	Inputs        []State
	PrevInputs    []State
	Outputs       []State
	InputWires    [][]string // per input port, ids of wires feeding it
	OutputWires   [][]string // per output port, ids of wires it drives

	Params map[string]interface{}
	Memory interface{} // per-variant hidden state; nil if outputs fully describe it

	eval     evalFunc
	resetFn  func(c *Component) // restores Outputs/Memory defaults; nil for stateless components
}

// Reset restores a component to the default state of its type (spec §4.6
// "reset()"); values seeded from a descriptor's InternalState or
// OutputStates are not restored. Inputs/PrevInputs always return to Unknown: the kernel
// re-schedules a full evaluation for every component immediately after a
// reset, so purely combinational components recompute their outputs from
// freshly-resolved inputs without needing a resetFn. Components whose
// outputs double as memory (flip-flops, registers, counters, sources) -- or
// that hold hidden Memory not reachable by recomputation (RAM) -- register a
// resetFn to restore those explicitly. ROM has no resetFn: its memory
// persists across reset by construction (spec §3 Lifecycles).
func (c *Component) Reset() {
	for i := range c.Inputs {
		c.Inputs[i] = Unknown
	}
	for i := range c.PrevInputs {
		c.PrevInputs[i] = Unknown
	}
	if c.resetFn != nil {
		c.resetFn(c)
		return
	}
	for i := range c.Outputs {
		c.Outputs[i] = Unknown
	}
}

// RisingEdge reports whether input i made a strict ZERO->ONE transition
// since the last evaluation (spec §4.5).
func (c *Component) RisingEdge(i int) bool {
	if i < 0 || i >= len(c.PrevInputs) || i >= len(c.Inputs) {
		return false
	}
	return c.PrevInputs[i] == Zero && c.Inputs[i] == One
}

// FallingEdge reports whether input i made a strict ONE->ZERO transition
// since the last evaluation (spec §4.5).
func (c *Component) FallingEdge(i int) bool {
	if i < 0 || i >= len(c.PrevInputs) || i >= len(c.Inputs) {
		return false
	}
	return c.PrevInputs[i] == One && c.Inputs[i] == Zero
}

// Evaluate runs the component's bound evaluation function. Components with
// no registered function (should not happen outside of programmer error)
// are left untouched.
func (c *Component) Evaluate(ctx EvalContext) {
	if c.eval == nil {
		return
	}
	c.eval(c, ctx)
}

// snapshotPrevInputs copies the current input vector into PrevInputs, to be
// compared against on the *next* evaluation (spec §4.5).
func (c *Component) snapshotPrevInputs() {
	if cap(c.PrevInputs) < len(c.Inputs) {
		c.PrevInputs = make([]State, len(c.Inputs))
	}
	c.PrevInputs = c.PrevInputs[:len(c.Inputs)]
	copy(c.PrevInputs, c.Inputs)
}

// input returns the state of input i, or Unknown if out of range (defensive;
// the netlist store is responsible for keeping port indices in range).
func (c *Component) input(i int) State {
	if i < 0 || i >= len(c.Inputs) {
		return Unknown
	}
	return c.Inputs[i]
}

func fillUnknown(n int) []State {
	s := make([]State, n)
	for i := range s {
		s[i] = Unknown
	}
	return s
}

func fillZero(n int) []State {
	s := make([]State, n)
	for i := range s {
		s[i] = Zero
	}
	return s
}
