package sim

func init() {
	register(TypeDFF, newDFF)
	register(TypeDFFSR, newDFFSR)
	register(TypeJKFF, newJKFF)
	register(TypeJKFFSR, newJKFFSR)
}

// D_FLIPFLOP: inputs (D, CLK), outputs (Q, Q̄). Initial Q = ZERO.
func newDFF(desc ComponentDescriptor) (*Component, error) {
	const d, clk = 0, 1
	c := baseComponent(1, 2, 2)
	c.Outputs[0], c.Outputs[1] = Zero, One
	c.eval = func(c *Component, _ EvalContext) {
		if c.RisingEdge(clk) {
			c.Outputs[0] = dffNext(c.input(d))
		}
		c.Outputs[1] = Not(c.Outputs[0])
	}
	c.resetFn = qResetFn
	return c, nil
}

func qResetFn(c *Component) {
	c.Outputs[0], c.Outputs[1] = Zero, One
}

func dffNext(d State) State {
	switch d {
	case Zero, One:
		return d
	case Conflict:
		return Conflict
	default:
		return Unknown
	}
}

// D_FLIPFLOP_SR: inputs (D, CLK, SET, RESET), active-low async SET/RESET
// with priority over the clock. Both asserted simultaneously -> Q=CONFLICT.
func newDFFSR(desc ComponentDescriptor) (*Component, error) {
	const d, clk, set, reset = 0, 1, 2, 3
	c := baseComponent(1, 4, 2)
	c.Outputs[0], c.Outputs[1] = Zero, One
	c.eval = func(c *Component, _ EvalContext) {
		s, r := c.input(set), c.input(reset)
		switch {
		case s == Zero && r == Zero:
			c.Outputs[0] = Conflict
		case r == Zero:
			c.Outputs[0] = Zero
		case s == Zero:
			c.Outputs[0] = One
		case c.RisingEdge(clk):
			c.Outputs[0] = dffNext(c.input(d))
		}
		c.Outputs[1] = Not(c.Outputs[0])
	}
	c.resetFn = qResetFn
	return c, nil
}

// jkNext implements the JK truth table via the algebra of spec §4.1 so that
// invalid J/K values propagate through the same Not/And/Or priority rules
// rather than through a hand-special-cased branch:
//
//	next = (J AND NOT Q) OR (NOT K AND Q)
func jkNext(j, k, q State) State {
	return Or(And(j, Not(q)), And(Not(k), q))
}

// JK_FLIPFLOP: inputs (J, K, CLK), outputs (Q, Q̄).
func newJKFF(desc ComponentDescriptor) (*Component, error) {
	const j, k, clk = 0, 1, 2
	c := baseComponent(1, 3, 2)
	c.Outputs[0], c.Outputs[1] = Zero, One
	c.eval = func(c *Component, _ EvalContext) {
		if c.RisingEdge(clk) {
			c.Outputs[0] = jkNext(c.input(j), c.input(k), c.Outputs[0])
		}
		c.Outputs[1] = Not(c.Outputs[0])
	}
	c.resetFn = qResetFn
	return c, nil
}

// JK_FLIPFLOP_SR: inputs (J, K, CLK, SET, RESET), same async priority and
// conflict rule as D_FLIPFLOP_SR.
func newJKFFSR(desc ComponentDescriptor) (*Component, error) {
	const j, k, clk, set, reset = 0, 1, 2, 3, 4
	c := baseComponent(1, 5, 2)
	c.Outputs[0], c.Outputs[1] = Zero, One
	c.eval = func(c *Component, _ EvalContext) {
		s, r := c.input(set), c.input(reset)
		switch {
		case s == Zero && r == Zero:
			c.Outputs[0] = Conflict
		case r == Zero:
			c.Outputs[0] = Zero
		case s == Zero:
			c.Outputs[0] = One
		case c.RisingEdge(clk):
			c.Outputs[0] = jkNext(c.input(j), c.input(k), c.Outputs[0])
		}
		c.Outputs[1] = Not(c.Outputs[0])
	}
	c.resetFn = qResetFn
	return c, nil
}
