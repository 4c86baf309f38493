package sim

func init() {
	register(TypeRegister4Bit, newRegister(4))
	register(TypeRegister8Bit, newRegister(8))
	register(TypeShiftReg4Bit, newShiftReg4Bit)
	register(TypeCounter4Bit, newCounter4Bit)
}

// newRegister builds an n-bit parallel register. Inputs: n data bits
// followed by CLK, CLR, LOAD. Outputs: the n stored bits.
func newRegister(n int) constructor {
	clk, clr, load := n, n+1, n+2
	return func(desc ComponentDescriptor) (*Component, error) {
		c := baseComponent(1, n+3, n)
		for i := range c.Outputs {
			c.Outputs[i] = Zero
		}
		c.eval = func(c *Component, _ EvalContext) {
			if !c.RisingEdge(clk) {
				return
			}
			switch {
			case c.input(clr) == One:
				for i := range c.Outputs {
					c.Outputs[i] = Zero
				}
			case c.input(load) == One:
				copy(c.Outputs, c.Inputs[:n])
			}
		}
		c.resetFn = zeroOutputsResetFn
		return c, nil
	}
}

func zeroOutputsResetFn(c *Component) {
	for i := range c.Outputs {
		c.Outputs[i] = Zero
	}
}

// SHIFT_REG_4BIT: inputs (SER_IN, CLK, CLR, SHIFT_EN, DIR); outputs (Q0..Q3,
// SER_OUT). DIR=ONE shifts left (toward Q3, SER_OUT=old Q3); DIR=ZERO shifts
// right (toward Q0, SER_OUT=old Q0).
func newShiftReg4Bit(desc ComponentDescriptor) (*Component, error) {
	const serIn, clk, clr, shiftEn, dir = 0, 1, 2, 3, 4
	c := baseComponent(1, 5, 5)
	for i := range c.Outputs {
		c.Outputs[i] = Zero
	}
	c.eval = func(c *Component, _ EvalContext) {
		if !c.RisingEdge(clk) {
			return
		}
		if c.input(clr) == One {
			for i := 0; i < 4; i++ {
				c.Outputs[i] = Zero
			}
			return
		}
		if c.input(shiftEn) != One || !c.input(dir).Valid() {
			return
		}
		q0, q1, q2, q3 := c.Outputs[0], c.Outputs[1], c.Outputs[2], c.Outputs[3]
		in := c.input(serIn)
		if c.input(dir) == One {
			c.Outputs[0], c.Outputs[1], c.Outputs[2], c.Outputs[3] = in, q0, q1, q2
			c.Outputs[4] = q3
		} else {
			c.Outputs[0], c.Outputs[1], c.Outputs[2], c.Outputs[3] = q1, q2, q3, in
			c.Outputs[4] = q0
		}
	}
	c.resetFn = zeroOutputsResetFn
	return c, nil
}

// COUNTER_4BIT: inputs (CLK, CLR, EN, LOAD, UP_DOWN, D0..D3); outputs
// (Q0..Q3, CARRY). Priority on rising CLK: CLR, then LOAD, then EN+UP_DOWN.
func newCounter4Bit(desc ComponentDescriptor) (*Component, error) {
	const clk, clr, en, load, upDown = 0, 1, 2, 3, 4
	d0 := 5
	c := baseComponent(1, 9, 5)
	for i := range c.Outputs {
		c.Outputs[i] = Zero
	}
	c.eval = func(c *Component, _ EvalContext) {
		if !c.RisingEdge(clk) {
			return
		}
		switch {
		case c.input(clr) == One:
			for i := 0; i < 4; i++ {
				c.Outputs[i] = Zero
			}
			c.Outputs[4] = Zero
		case c.input(load) == One:
			copy(c.Outputs[:4], c.Inputs[d0:d0+4])
			c.Outputs[4] = Zero
		case c.input(en) == One:
			v := counterValue(c.Outputs[:4])
			carry := Zero
			if c.input(upDown) == One {
				if v == 15 {
					carry = One
				}
				v = (v + 1) & 0xF
			} else {
				if v == 0 {
					carry = One
				}
				v = (v - 1) & 0xF
			}
			setCounterValue(c.Outputs[:4], v)
			c.Outputs[4] = carry
		default:
			// Neither CLR, LOAD, nor EN fired: hold every output, CARRY
			// included, rather than clearing it on every idle edge.
		}
	}
	c.resetFn = zeroOutputsResetFn
	return c, nil
}

func counterValue(bits []State) int {
	v := 0
	for i, b := range bits {
		if b == One {
			v |= 1 << uint(i)
		}
	}
	return v
}

func setCounterValue(bits []State, v int) {
	for i := range bits {
		bits[i] = FromBool(v&(1<<uint(i)) != 0)
	}
}
