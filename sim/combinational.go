package sim

func init() {
	register(TypeMux2to1, newMux(2, 1))
	register(TypeMux4to1, newMux(4, 2))
	register(TypeMux8to1, newMux(8, 3))
	register(TypeDemux1to2, newDemux(2, 1))
	register(TypeDemux1to4, newDemux(4, 2))
	register(TypeDecoder2to4, newDecoder(2))
	register(TypeDecoder3to8, newDecoder(3))
	register(TypeEncoder4to2, newEncoder(4, 2))
	register(TypeEncoder8to3, newEncoder(8, 3))
	register(TypeFullAdder, newFullAdder)
	register(TypeAdder4Bit, newAdder4Bit)
	register(TypeComparator1Bit, newComparator1Bit)
	register(TypeComparator4Bit, newComparator4Bit)
}

// selectIndex decodes sel (LSB-first) into an integer, returning ok=false
// if any select bit is not a valid bit.
func selectIndex(sel []State) (int, bool) {
	idx := 0
	for i, s := range sel {
		if !s.Valid() {
			return 0, false
		}
		if s == One {
			idx |= 1 << uint(i)
		}
	}
	return idx, true
}

// newMux builds a data-MUX with nData data inputs (indices 0..nData-1)
// followed by nSel select inputs, LSB-first.
func newMux(nData, nSel int) constructor {
	return func(desc ComponentDescriptor) (*Component, error) {
		c := baseComponent(1, nData+nSel, 1)
		c.eval = func(c *Component, _ EvalContext) {
			idx, ok := selectIndex(c.Inputs[nData : nData+nSel])
			if !ok {
				c.Outputs[0] = Unknown
				return
			}
			c.Outputs[0] = c.input(idx)
		}
		return c, nil
	}
}

// newDemux builds a 1-to-n DEMUX: one data input followed by nSel select
// inputs, LSB-first, and n outputs.
func newDemux(n, nSel int) constructor {
	return func(desc ComponentDescriptor) (*Component, error) {
		c := baseComponent(1, 1+nSel, n)
		c.eval = func(c *Component, _ EvalContext) {
			idx, ok := selectIndex(c.Inputs[1 : 1+nSel])
			if !ok {
				for i := range c.Outputs {
					c.Outputs[i] = Unknown
				}
				return
			}
			data := c.input(0)
			for i := range c.Outputs {
				if i == idx {
					c.Outputs[i] = data
				} else {
					c.Outputs[i] = Zero
				}
			}
		}
		return c, nil
	}
}

// newDecoder builds an nAddr-to-2^nAddr DECODER with an enable input
// following the address bits (LSB-first).
func newDecoder(nAddr int) constructor {
	n := 1 << uint(nAddr)
	return func(desc ComponentDescriptor) (*Component, error) {
		c := baseComponent(1, nAddr+1, n)
		c.eval = func(c *Component, _ EvalContext) {
			enable := c.input(nAddr)
			switch enable {
			case Zero:
				for i := range c.Outputs {
					c.Outputs[i] = Zero
				}
			case One:
				idx, ok := selectIndex(c.Inputs[:nAddr])
				if !ok {
					for i := range c.Outputs {
						c.Outputs[i] = Unknown
					}
					return
				}
				for i := range c.Outputs {
					if i == idx {
						c.Outputs[i] = One
					} else {
						c.Outputs[i] = Zero
					}
				}
			default:
				for i := range c.Outputs {
					c.Outputs[i] = Unknown
				}
			}
		}
		return c, nil
	}
}

// newEncoder builds an n-input priority encoder: the highest-index ONE wins,
// driving idxBits binary index outputs (LSB-first) plus a trailing Valid
// line. Any invalid input forces all outputs Unknown.
func newEncoder(n, idxBits int) constructor {
	return func(desc ComponentDescriptor) (*Component, error) {
		c := baseComponent(1, n, idxBits+1)
		c.eval = func(c *Component, _ EvalContext) {
			for _, in := range c.Inputs {
				if !in.Valid() {
					for i := range c.Outputs {
						c.Outputs[i] = Unknown
					}
					return
				}
			}
			winner, valid := -1, false
			for i := n - 1; i >= 0; i-- {
				if c.Inputs[i] == One {
					winner, valid = i, true
					break
				}
			}
			for b := 0; b < idxBits; b++ {
				bit := Zero
				if valid && winner&(1<<uint(b)) != 0 {
					bit = One
				}
				c.Outputs[b] = bit
			}
			c.Outputs[idxBits] = FromBool(valid)
		}
		return c, nil
	}
}

// newFullAdder: inputs (a, b, cin), outputs (sum, cout).
func newFullAdder(desc ComponentDescriptor) (*Component, error) {
	const a, b, cin = 0, 1, 2
	c := baseComponent(1, 3, 2)
	c.eval = func(c *Component, _ EvalContext) {
		sum, cout := fullAdd(c.input(a), c.input(b), c.input(cin))
		c.Outputs[0], c.Outputs[1] = sum, cout
	}
	return c, nil
}

func fullAdd(a, b, cin State) (sum, cout State) {
	axb := Xor(a, b)
	sum = Xor(axb, cin)
	cout = Or(And(a, b), And(cin, axb))
	return
}

// newAdder4Bit: inputs a0..a3, b0..b3, cin (9 inputs, LSB-first bit order);
// outputs sum0..sum3, cout, overflow (6 outputs).
func newAdder4Bit(desc ComponentDescriptor) (*Component, error) {
	c := baseComponent(1, 9, 6)
	c.eval = func(c *Component, _ EvalContext) {
		carry := c.input(8)
		var cinMSB State
		for i := 0; i < 4; i++ {
			if i == 3 {
				cinMSB = carry
			}
			sum, cout := fullAdd(c.input(i), c.input(4+i), carry)
			c.Outputs[i] = sum
			carry = cout
		}
		c.Outputs[4] = carry
		c.Outputs[5] = Xor(cinMSB, carry)
	}
	return c, nil
}

// newComparator1Bit: inputs (A, B, GTin, EQin, LTin); outputs (GT, EQ, LT).
func newComparator1Bit(desc ComponentDescriptor) (*Component, error) {
	const a, b, gtIn, eqIn, ltIn = 0, 1, 2, 3, 4
	c := baseComponent(1, 5, 3)
	c.eval = func(c *Component, _ EvalContext) {
		av, bv := c.input(a), c.input(b)
		if !av.Valid() || !bv.Valid() {
			c.Outputs[0], c.Outputs[1], c.Outputs[2] = Unknown, Unknown, Unknown
			return
		}
		if av == bv {
			c.Outputs[0], c.Outputs[1], c.Outputs[2] = c.input(gtIn), c.input(eqIn), c.input(ltIn)
			return
		}
		if av == One {
			c.Outputs[0], c.Outputs[1], c.Outputs[2] = One, Zero, Zero
		} else {
			c.Outputs[0], c.Outputs[1], c.Outputs[2] = Zero, Zero, One
		}
	}
	return c, nil
}

// newComparator4Bit: inputs a0..a3, b0..b3 (LSB-first), GTin, EQin, LTin (11
// inputs); outputs (GT, EQ, LT). Compared MSB(index 3) down to LSB(index 0).
func newComparator4Bit(desc ComponentDescriptor) (*Component, error) {
	c := baseComponent(1, 11, 3)
	c.eval = func(c *Component, _ EvalContext) {
		for i := 0; i < 8; i++ {
			if !c.Inputs[i].Valid() {
				c.Outputs[0], c.Outputs[1], c.Outputs[2] = Unknown, Unknown, Unknown
				return
			}
		}
		for bit := 3; bit >= 0; bit-- {
			av, bv := c.Inputs[bit], c.Inputs[4+bit]
			if av != bv {
				if av == One {
					c.Outputs[0], c.Outputs[1], c.Outputs[2] = One, Zero, Zero
				} else {
					c.Outputs[0], c.Outputs[1], c.Outputs[2] = Zero, Zero, One
				}
				return
			}
		}
		c.Outputs[0], c.Outputs[1], c.Outputs[2] = c.input(8), c.input(9), c.input(10)
	}
	return c, nil
}
