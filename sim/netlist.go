package sim

import "github.com/pkg/errors"

// Wire is one point-to-point connection: a cached State plus the two port
// addresses it binds (spec §3 "Wire"). A component's single output port may
// drive many wires (fan-out); many wires may drive a single input port
// (multi-driver net, resolved by ResolveWire).
type Wire struct {
	ID            string
	SourceGateID  string
	SourcePortIdx int
	TargetGateID  string
	TargetPortIdx int
	State         State
}

// Netlist owns every component and wire by id, plus the bidirectional
// port-to-wire indices that let evaluation and propagation stay O(fan-out)
// rather than O(n). It knows nothing about simulated time or scheduling --
// that belongs to Kernel, which holds a Netlist alongside the event queue.
//
// Iteration order matters for determinism (spec §9): components and wires
// are also tracked in insertion-order slices, so that Components()/Wires()
// never depend on Go's randomized map iteration.
type Netlist struct {
	components map[string]*Component
	gateOrder  []string
	wires      map[string]*Wire
	wireOrder  []string
}

// NewNetlist returns an empty store.
func NewNetlist() *Netlist {
	return &Netlist{
		components: make(map[string]*Component),
		wires:      make(map[string]*Wire),
	}
}

// Clear drops every component and wire, restoring an empty store.
func (n *Netlist) Clear() {
	n.components = make(map[string]*Component)
	n.gateOrder = nil
	n.wires = make(map[string]*Wire)
	n.wireOrder = nil
}

// Component looks up a component by id.
func (n *Netlist) Component(id string) (*Component, bool) {
	c, ok := n.components[id]
	return c, ok
}

// Components returns every component in insertion order.
func (n *Netlist) Components() []*Component {
	out := make([]*Component, 0, len(n.gateOrder))
	for _, id := range n.gateOrder {
		out = append(out, n.components[id])
	}
	return out
}

// Wire looks up a wire by id.
func (n *Netlist) Wire(id string) (*Wire, bool) {
	w, ok := n.wires[id]
	return w, ok
}

// Wires returns every wire in insertion order.
func (n *Netlist) Wires() []*Wire {
	out := make([]*Wire, 0, len(n.wireOrder))
	for _, id := range n.wireOrder {
		out = append(out, n.wires[id])
	}
	return out
}

// AddGate registers a newly constructed component. The caller (Kernel) is
// responsible for scheduling its initial evaluation.
func (n *Netlist) AddGate(c *Component) error {
	if _, exists := n.components[c.ID]; exists {
		return errors.Errorf("gate %q already exists", c.ID)
	}
	n.components[c.ID] = c
	n.gateOrder = append(n.gateOrder, c.ID)
	return nil
}

// RemoveGate drops a component and every wire incident to it (spec §3
// Lifecycles), returning the ids of the removed wires so the caller can
// purge their pending events too. Removing an unknown id is a no-op.
func (n *Netlist) RemoveGate(id string) (removedWires []string) {
	c, ok := n.components[id]
	if !ok {
		return nil
	}
	// RemoveWire compacts c.InputWires[port]/c.OutputWires[port] in place via
	// unlinkWire, so a range over those slices directly would read a
	// corrupted backing array mid-iteration once wires start disappearing
	// from underneath it. Copy each port's connection list before removing.
	for _, wireIDs := range c.InputWires {
		for _, wid := range append([]string(nil), wireIDs...) {
			if w, ok := n.wires[wid]; ok && w.TargetGateID == id {
				n.RemoveWire(wid)
				removedWires = append(removedWires, wid)
			}
		}
	}
	for _, wireIDs := range c.OutputWires {
		for _, wid := range append([]string(nil), wireIDs...) {
			if w, ok := n.wires[wid]; ok && w.SourceGateID == id {
				n.RemoveWire(wid)
				removedWires = append(removedWires, wid)
			}
		}
	}
	delete(n.components, id)
	n.gateOrder = removeString(n.gateOrder, id)
	return removedWires
}

// AddWire registers a wire and links it into both endpoints' connection
// lists. Per spec §7, a dangling endpoint (unknown component) or an
// out-of-range port index does not fail the call -- the wire is stored but
// inert on that side.
func (n *Netlist) AddWire(w *Wire) error {
	if _, exists := n.wires[w.ID]; exists {
		return errors.Errorf("wire %q already exists", w.ID)
	}
	n.wires[w.ID] = w
	n.wireOrder = append(n.wireOrder, w.ID)
	n.linkWire(w)
	return nil
}

// RemoveWire unlinks and drops a wire. Removing an unknown id is a no-op.
func (n *Netlist) RemoveWire(id string) {
	w, ok := n.wires[id]
	if !ok {
		return
	}
	n.unlinkWire(w)
	delete(n.wires, id)
	n.wireOrder = removeString(n.wireOrder, id)
}

func (n *Netlist) linkWire(w *Wire) {
	if src, ok := n.components[w.SourceGateID]; ok && w.SourcePortIdx >= 0 && w.SourcePortIdx < len(src.OutputWires) {
		src.OutputWires[w.SourcePortIdx] = append(src.OutputWires[w.SourcePortIdx], w.ID)
	}
	if dst, ok := n.components[w.TargetGateID]; ok && w.TargetPortIdx >= 0 && w.TargetPortIdx < len(dst.InputWires) {
		dst.InputWires[w.TargetPortIdx] = append(dst.InputWires[w.TargetPortIdx], w.ID)
	}
}

func (n *Netlist) unlinkWire(w *Wire) {
	if src, ok := n.components[w.SourceGateID]; ok && w.SourcePortIdx >= 0 && w.SourcePortIdx < len(src.OutputWires) {
		src.OutputWires[w.SourcePortIdx] = removeString(src.OutputWires[w.SourcePortIdx], w.ID)
	}
	if dst, ok := n.components[w.TargetGateID]; ok && w.TargetPortIdx >= 0 && w.TargetPortIdx < len(dst.InputWires) {
		dst.InputWires[w.TargetPortIdx] = removeString(dst.InputWires[w.TargetPortIdx], w.ID)
	}
}

// ResolveInput recomputes a component's input port i from the cached states
// of every wire in its connection list (spec §3 invariant 2, §4.2). An empty
// connection list resolves to UNKNOWN.
func (n *Netlist) ResolveInput(c *Component, port int) State {
	if port < 0 || port >= len(c.InputWires) {
		return Unknown
	}
	wireIDs := c.InputWires[port]
	if len(wireIDs) == 0 {
		return Unknown
	}
	drivers := make([]State, 0, len(wireIDs))
	for _, wid := range wireIDs {
		if w, ok := n.wires[wid]; ok {
			drivers = append(drivers, w.State)
		}
	}
	return ResolveWire(drivers)
}

func removeString(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
