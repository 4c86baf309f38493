package sim

import "github.com/pkg/errors"

const memoryRows = 16

func init() {
	register(TypeRAM16x4, newRAM(4))
	register(TypeRAM16x8, newRAM(8))
	register(TypeROM16x4, newROM(4))
	register(TypeROM16x8, newROM(8))
}

// ramMemory/romMemory hold the 16-row word-addressable memory map behind
// RAM_16Xn and ROM_16Xn. Cells default to Zero ("never written" per spec
// §4.4, not Unknown), so an async read of an untouched address is well
// defined.
type ramMemory struct {
	width int
	cells [memoryRows][]State
}

type romMemory struct {
	width int
	cells [memoryRows][]State
}

func newMemoryCells(width int) [memoryRows][]State {
	var cells [memoryRows][]State
	for i := range cells {
		cells[i] = fillZero(width)
	}
	return cells
}

// newRAM builds a RAM_16Xn: inputs A0..A3, DIN0..DINn-1, WE, CLK; outputs
// the n bits at the addressed location.
func newRAM(n int) constructor {
	din, we, clk := 4, 4+n, 4+n+1
	return func(desc ComponentDescriptor) (*Component, error) {
		c := baseComponent(1, 4+n+2, n)
		mem := &ramMemory{width: n, cells: newMemoryCells(n)}
		if raw, ok := desc.InternalState["memory"]; ok {
			rows, err := decodeMemoryRows(raw, n)
			if err != nil {
				return nil, errors.Wrap(err, "RAM initial memory")
			}
			mem.cells = rows
		}
		c.Memory = mem
		c.eval = func(c *Component, _ EvalContext) {
			m := c.Memory.(*ramMemory)
			idx, addrOK := selectIndex(c.Inputs[:4])
			if addrOK && c.RisingEdge(clk) && c.input(we) == One {
				copy(m.cells[idx], c.Inputs[din:din+n])
			}
			if !addrOK {
				for i := range c.Outputs {
					c.Outputs[i] = Unknown
				}
				return
			}
			copy(c.Outputs, m.cells[idx])
		}
		c.resetFn = func(c *Component) {
			c.Memory.(*ramMemory).cells = newMemoryCells(n)
			for i := range c.Outputs {
				c.Outputs[i] = Unknown
			}
		}
		return c, nil
	}
}

// newROM builds a ROM_16Xn: inputs A0..A3, EN; outputs the n bits stored at
// the addressed location. Memory is seeded at construction and persists
// across reset (spec §3 Lifecycles) -- there is no resetFn that touches it.
func newROM(n int) constructor {
	const en = 4
	return func(desc ComponentDescriptor) (*Component, error) {
		c := baseComponent(1, 5, n)
		mem := &romMemory{width: n, cells: newMemoryCells(n)}
		if raw, ok := desc.InternalState["memory"]; ok {
			rows, err := decodeMemoryRows(raw, n)
			if err != nil {
				return nil, errors.Wrap(err, "ROM initial memory")
			}
			mem.cells = rows
		}
		c.Memory = mem
		c.eval = func(c *Component, _ EvalContext) {
			m := c.Memory.(*romMemory)
			switch c.input(en) {
			case Zero:
				for i := range c.Outputs {
					c.Outputs[i] = HiZ
				}
			case One:
				idx, ok := selectIndex(c.Inputs[:4])
				if !ok {
					for i := range c.Outputs {
						c.Outputs[i] = Unknown
					}
					return
				}
				copy(c.Outputs, m.cells[idx])
			default:
				for i := range c.Outputs {
					c.Outputs[i] = Unknown
				}
			}
		}
		return c, nil
	}
}

// SetMemoryData replaces a RAM or ROM component's internal memory map,
// implementing the §6 setMemoryData message. data must have exactly 16 rows
// each of the component's word width.
func SetMemoryData(c *Component, data [][]State) error {
	var width int
	switch m := c.Memory.(type) {
	case *ramMemory:
		width = m.width
	case *romMemory:
		width = m.width
	default:
		return errors.Errorf("component %q is not a memory component", c.ID)
	}
	if len(data) != memoryRows {
		return errors.Errorf("memory data must have %d rows, got %d", memoryRows, len(data))
	}
	var cells [memoryRows][]State
	for i, row := range data {
		if len(row) != width {
			return errors.Errorf("row %d: expected %d bits, got %d", i, width, len(row))
		}
		cells[i] = append([]State(nil), row...)
	}
	switch m := c.Memory.(type) {
	case *ramMemory:
		m.cells = cells
	case *romMemory:
		m.cells = cells
	}
	return nil
}

// decodeMemoryRows parses a generic 16-row memory map, as it would arrive
// via JSON (interface{} nested slices of numbers).
func decodeMemoryRows(raw interface{}, width int) ([memoryRows][]State, error) {
	var out [memoryRows][]State
	for i := range out {
		out[i] = fillZero(width)
	}
	rows, ok := raw.([]interface{})
	if !ok {
		return out, errors.New("expected an array of rows")
	}
	if len(rows) != memoryRows {
		return out, errors.Errorf("expected %d rows, got %d", memoryRows, len(rows))
	}
	for i, rawRow := range rows {
		bits, ok := rawRow.([]interface{})
		if !ok {
			return out, errors.Errorf("row %d: expected an array of bits", i)
		}
		if len(bits) != width {
			return out, errors.Errorf("row %d: expected %d bits, got %d", i, width, len(bits))
		}
		row := make([]State, width)
		for j, b := range bits {
			s, ok := toState(b)
			if !ok {
				return out, errors.Errorf("row %d bit %d: invalid state value", i, j)
			}
			row[j] = s
		}
		out[i] = row
	}
	return out, nil
}
