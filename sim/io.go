package sim

func init() {
	register(TypeLED, newLED)
	register(TypeDisplay1D, newDisplay(4))
	register(TypeDisplay2D, newDisplay(8))
	register(TypeKeypad, newKeypad)
}

// LED is a pure observer: one input, no outputs, nothing for Evaluate to do.
// Its only purpose is to be read back in a snapshot.
func newLED(desc ComponentDescriptor) (*Component, error) {
	c := baseComponent(0, 1, 0)
	c.eval = func(c *Component, _ EvalContext) {}
	return c, nil
}

// newDisplay builds a DISPLAY_1D (n=4) or DISPLAY_2D (n=8): n inputs,
// LSB-first, no outputs. Like LED it is a pure observer; the decoded integer
// value is computed on demand by snapshot.go, not cached here.
func newDisplay(n int) constructor {
	return func(desc ComponentDescriptor) (*Component, error) {
		c := baseComponent(0, n, 0)
		c.eval = func(c *Component, _ EvalContext) {}
		return c, nil
	}
}

// keypadMemory holds a KEYPAD's internal 0..15 value, set by the UI via
// SetKeypadValue and driven out LSB-first on the four outputs.
type keypadMemory struct {
	Value int
}

// KEYPAD has no inputs and four outputs (Q0..Q3, LSB-first) driving its
// internal value as a constant.
func newKeypad(desc ComponentDescriptor) (*Component, error) {
	c := baseComponent(0, 0, 4)
	mem := &keypadMemory{}
	if v, ok := desc.InternalState["value"]; ok {
		n, err := toUint(v)
		if err == nil && n <= 15 {
			mem.Value = int(n)
		}
	}
	c.Memory = mem
	setCounterValue(c.Outputs, mem.Value)
	c.eval = func(c *Component, _ EvalContext) {
		setCounterValue(c.Outputs, c.Memory.(*keypadMemory).Value)
	}
	c.resetFn = func(c *Component) {
		c.Memory.(*keypadMemory).Value = 0
		setCounterValue(c.Outputs, 0)
	}
	return c, nil
}

// SetKeypadValue sets a KEYPAD component's internal value (0..15, clamped),
// implementing the §6 setKeypadValue message.
func SetKeypadValue(c *Component, v int) {
	if v < 0 {
		v = 0
	}
	if v > 15 {
		v = 15
	}
	c.Memory.(*keypadMemory).Value = v
}

// displayValue decodes a DISPLAY_1D/2D's current input vector into an
// integer for snapshot reporting, LSB-first. ok is false if any bit is not a
// valid 0/1 state.
func displayValue(c *Component) (value int, ok bool) {
	return counterValue2(c.Inputs)
}

func counterValue2(bits []State) (int, bool) {
	v := 0
	for i, b := range bits {
		if !b.Valid() {
			return 0, false
		}
		if b == One {
			v |= 1 << uint(i)
		}
	}
	return v, true
}
