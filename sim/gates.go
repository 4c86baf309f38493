package sim

func init() {
	register(TypeNot, newNot)
	register(TypeAnd, newNaryGate(AndN))
	register(TypeOr, newNaryGate(OrN))
	register(TypeXor, newNaryGate(XorN))
	register(TypeNand, newNaryGate(func(in ...State) State { return Not(AndN(in...)) }))
	register(TypeNor, newNaryGate(func(in ...State) State { return Not(OrN(in...)) }))
	register(TypeXnor, newNaryGate(func(in ...State) State { return Not(XorN(in...)) }))
	register(TypeBuffer, newBuffer)
	register(TypeTriBuffer, newTriBuffer)
}

// width returns the input arity from the descriptor's InputStates length,
// falling back to def when unspecified (spec §4.4 "n inputs (default 2)").
func width(desc ComponentDescriptor, def int) int {
	if n := len(desc.InputStates); n > 0 {
		return n
	}
	return def
}

func newNot(desc ComponentDescriptor) (*Component, error) {
	c := baseComponent(1, 1, 1)
	c.eval = func(c *Component, _ EvalContext) {
		c.Outputs[0] = Not(c.input(0))
	}
	return c, nil
}

// newNaryGate returns a constructor for an n-ary gate (default width 2)
// whose single output is fold(inputs...).
func newNaryGate(fold func(in ...State) State) constructor {
	return func(desc ComponentDescriptor) (*Component, error) {
		n := width(desc, 2)
		c := baseComponent(1, n, 1)
		c.eval = func(c *Component, _ EvalContext) {
			c.Outputs[0] = fold(c.Inputs...)
		}
		return c, nil
	}
}

func newBuffer(desc ComponentDescriptor) (*Component, error) {
	c := baseComponent(1, 1, 1)
	c.eval = func(c *Component, _ EvalContext) {
		c.Outputs[0] = c.input(0)
	}
	return c, nil
}

// newTriBuffer builds a TRI_BUFFER: inputs (data, enable), output follows
// data when enabled, HiZ when disabled, Unknown when enable itself is
// indeterminate (spec §4.4).
func newTriBuffer(desc ComponentDescriptor) (*Component, error) {
	c := baseComponent(1, 2, 1)
	c.eval = func(c *Component, _ EvalContext) {
		data, enable := c.input(0), c.input(1)
		switch enable {
		case One:
			c.Outputs[0] = data
		case Zero:
			c.Outputs[0] = HiZ
		default:
			c.Outputs[0] = Unknown
		}
	}
	return c, nil
}
