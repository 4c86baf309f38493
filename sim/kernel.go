package sim

import "github.com/pkg/errors"

// RunState is the kernel's coarse lifecycle state (spec §4.6 "State machine
// of the kernel").
type RunState int

const (
	Idle RunState = iota
	Running
	Paused
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Config bounds per-step work (spec §4.6).
type Config struct {
	// MaxEventsPerStep caps how many events ProcessOneStep drains in one
	// call; backpressure against unstable combinational feedback loops.
	MaxEventsPerStep int
	// MaxTimePerStep is reserved for future use (spec §4.6), carried here
	// so Config round-trips but not yet consulted by ProcessOneStep.
	MaxTimePerStep int
}

// DefaultConfig matches spec §4.6's stated defaults.
func DefaultConfig() Config {
	return Config{MaxEventsPerStep: 10000, MaxTimePerStep: 1000}
}

// Update is one observable (componentId, portIndex, old, new) change
// produced by a ProcessOneStep call (spec §4.6 step 5).
type Update struct {
	ComponentID string
	PortIndex   int
	Old         State
	New         State
}

// Kernel binds the netlist, the event queue and simulated time into the
// single-threaded, cooperative simulation engine (spec §4.6, §5). No
// operation suspends mid-evaluation; every public method here either
// returns synchronously or enqueues an event for a later ProcessOneStep.
type Kernel struct {
	netlist     *Netlist
	queue       *eventQueue
	currentTime Time
	clockIDs    []string
	pulseIDs    []string
	state       RunState
	config      Config
}

// NewKernel returns an idle kernel with an empty netlist.
func NewKernel(config Config) *Kernel {
	return &Kernel{
		netlist: NewNetlist(),
		queue:   newEventQueue(),
		state:   Idle,
		config:  config,
	}
}

// State reports the kernel's current lifecycle state.
func (k *Kernel) State() RunState { return k.state }

// Time reports the kernel's current simulated time.
func (k *Kernel) Time() Time { return k.currentTime }

// Netlist exposes the underlying store, chiefly for snapshot building.
func (k *Kernel) Netlist() *Netlist { return k.netlist }

// Initialize replaces the entire kernel state from descriptors (spec §4.6
// "Initialization"): clears everything, constructs every component,
// registers clock/pulse components, wires the netlist, and schedules a
// full-evaluation event at time 0 for every component.
func (k *Kernel) Initialize(gates []ComponentDescriptor, wires []WireDescriptor) error {
	netlist := NewNetlist()
	var clockIDs, pulseIDs []string
	for _, desc := range gates {
		c, err := NewComponent(desc)
		if err != nil {
			return errors.Wrapf(err, "initialize: gate %q", desc.ID)
		}
		seedComponentState(c, desc)
		if err := netlist.AddGate(c); err != nil {
			return errors.Wrap(err, "initialize")
		}
		switch c.Type {
		case TypeClock:
			clockIDs = append(clockIDs, c.ID)
		case TypePulse:
			pulseIDs = append(pulseIDs, c.ID)
		}
	}
	var unresolvedWires []string
	for _, wd := range wires {
		w := &Wire{
			ID:            wd.ID,
			SourceGateID:  wd.SourceGateID,
			SourcePortIdx: wd.SourcePortIdx,
			TargetGateID:  wd.TargetGateID,
			TargetPortIdx: wd.TargetPortIdx,
		}
		if wd.State != nil {
			w.State = *wd.State
		} else {
			w.State = HiZ
			unresolvedWires = append(unresolvedWires, wd.ID)
		}
		if err := netlist.AddWire(w); err != nil {
			return errors.Wrap(err, "initialize")
		}
	}
	// A wire with no explicit state (spec §6 "state optional; kernel will
	// resolve it") is seeded from its source's current output, the same way
	// AddWire propagates a newly connected wire's initial value -- not left
	// at HI_Z until something happens to change the source's output.
	seedWiresFromSources(netlist, unresolvedWires)

	k.netlist = netlist
	k.queue = newEventQueue()
	k.clockIDs = clockIDs
	k.pulseIDs = pulseIDs
	k.currentTime = 0
	k.state = Idle

	for _, id := range netlist.gateOrder {
		k.queue.Push(Event{Time: 0, ComponentID: id, PortIndex: PortIndexWhole})
	}
	return nil
}

// seedWiresFromSources copies each named wire's State from its source
// component's current output and re-resolves the target port. Source-type
// components (TOGGLE/CLOCK/PULSE) construct with their Outputs already set
// to a real value rather than UNKNOWN, so their first Evaluate call never
// produces a detectable change to drive this propagation on its own; every
// caller that resets a wire to HI_Z without also rolling back its source's
// output must reseed through here afterward.
func seedWiresFromSources(netlist *Netlist, wireIDs []string) {
	for _, wid := range wireIDs {
		w, ok := netlist.Wire(wid)
		if !ok {
			continue
		}
		src, ok := netlist.Component(w.SourceGateID)
		if !ok || w.SourcePortIdx < 0 || w.SourcePortIdx >= len(src.Outputs) {
			continue
		}
		w.State = src.Outputs[w.SourcePortIdx]
		if dst, ok := netlist.Component(w.TargetGateID); ok && w.TargetPortIdx >= 0 && w.TargetPortIdx < len(dst.Inputs) {
			dst.Inputs[w.TargetPortIdx] = netlist.ResolveInput(dst, w.TargetPortIdx)
		}
	}
}

// seedComponentState applies a descriptor's InputStates/OutputStates onto a
// freshly constructed component, for round-tripping a previously captured
// snapshot through init.
func seedComponentState(c *Component, desc ComponentDescriptor) {
	for i, s := range desc.InputStates {
		if i < len(c.Inputs) {
			c.Inputs[i] = s
		}
	}
	for i, s := range desc.OutputStates {
		if i < len(c.Outputs) {
			c.Outputs[i] = s
		}
	}
}

// AddGate constructs and registers a new component, scheduling its first
// evaluation at the current time (spec §4.6 "Incremental mutation").
func (k *Kernel) AddGate(desc ComponentDescriptor) error {
	c, err := NewComponent(desc)
	if err != nil {
		return errors.Wrap(err, "addGate")
	}
	seedComponentState(c, desc)
	if err := k.netlist.AddGate(c); err != nil {
		return errors.Wrap(err, "addGate")
	}
	switch c.Type {
	case TypeClock:
		k.clockIDs = append(k.clockIDs, c.ID)
	case TypePulse:
		k.pulseIDs = append(k.pulseIDs, c.ID)
	}
	k.queue.Push(Event{Time: k.currentTime, ComponentID: c.ID, PortIndex: PortIndexWhole})
	return nil
}

// RemoveGate drops a component, every wire incident to it, and its pending
// events (spec §4.6 "Incremental mutation").
func (k *Kernel) RemoveGate(id string) {
	k.netlist.RemoveGate(id)
	k.clockIDs = removeString(k.clockIDs, id)
	k.pulseIDs = removeString(k.pulseIDs, id)
	k.queue.RemoveEventsFor(id)
}

// AddWire creates a wire record, links it into both endpoints, then
// propagates the source's current output onto it so the downstream input
// re-resolves and the target is rescheduled (spec §4.6 "Incremental
// mutation").
func (k *Kernel) AddWire(desc WireDescriptor) error {
	w := &Wire{
		ID:            desc.ID,
		SourceGateID:  desc.SourceGateID,
		SourcePortIdx: desc.SourcePortIdx,
		TargetGateID:  desc.TargetGateID,
		TargetPortIdx: desc.TargetPortIdx,
		State:         HiZ,
	}
	if err := k.netlist.AddWire(w); err != nil {
		return errors.Wrap(err, "addWire")
	}
	src, ok := k.netlist.Component(w.SourceGateID)
	if ok && w.SourcePortIdx >= 0 && w.SourcePortIdx < len(src.Outputs) {
		k.propagateWire(w.ID, src.Outputs[w.SourcePortIdx])
	}
	return nil
}

// RemoveWire drops a wire and schedules its former target for re-evaluation
// one tick later, since its input re-resolves without this driver (spec
// §4.6 "Incremental mutation").
func (k *Kernel) RemoveWire(id string) {
	w, ok := k.netlist.Wire(id)
	if !ok {
		return
	}
	target := w.TargetGateID
	k.netlist.RemoveWire(id)
	if _, ok := k.netlist.Component(target); ok {
		k.queue.Push(Event{Time: k.currentTime + 1, ComponentID: target, PortIndex: PortIndexWhole})
	}
}

// Toggle flips a TOGGLE component's value and schedules its re-evaluation
// at the current time.
func (k *Kernel) Toggle(id string) error {
	c, ok := k.netlist.Component(id)
	if !ok || c.Type != TypeToggle {
		return errors.Errorf("toggle: %q is not a TOGGLE", id)
	}
	Toggle(c)
	k.queue.Push(Event{Time: k.currentTime, ComponentID: id, PortIndex: PortIndexWhole})
	return nil
}

// SetInput sets a TOGGLE component's value directly and schedules its
// re-evaluation at the current time.
func (k *Kernel) SetInput(id string, v State) error {
	c, ok := k.netlist.Component(id)
	if !ok || c.Type != TypeToggle {
		return errors.Errorf("setInput: %q is not a TOGGLE", id)
	}
	SetToggleValue(c, v)
	k.queue.Push(Event{Time: k.currentTime, ComponentID: id, PortIndex: PortIndexWhole})
	return nil
}

// TriggerPulse arms a PULSE component and schedules its re-evaluation at the
// current time.
func (k *Kernel) TriggerPulse(id string) error {
	c, ok := k.netlist.Component(id)
	if !ok || c.Type != TypePulse {
		return errors.Errorf("triggerPulse: %q is not a PULSE", id)
	}
	ArmPulse(c, k.currentTime)
	k.queue.Push(Event{Time: k.currentTime, ComponentID: id, PortIndex: PortIndexWhole})
	return nil
}

// SetKeypadValue sets a KEYPAD component's internal value and schedules its
// re-evaluation at the current time.
func (k *Kernel) SetKeypadValue(id string, v int) error {
	c, ok := k.netlist.Component(id)
	if !ok || c.Type != TypeKeypad {
		return errors.Errorf("setKeypadValue: %q is not a KEYPAD", id)
	}
	SetKeypadValue(c, v)
	k.queue.Push(Event{Time: k.currentTime, ComponentID: id, PortIndex: PortIndexWhole})
	return nil
}

// SetMemoryData replaces a RAM/ROM component's internal memory map and
// schedules its re-evaluation at the current time.
func (k *Kernel) SetMemoryData(id string, data [][]State) error {
	c, ok := k.netlist.Component(id)
	if !ok {
		return errors.Errorf("setMemoryData: unknown gate %q", id)
	}
	if err := SetMemoryData(c, data); err != nil {
		return errors.Wrap(err, "setMemoryData")
	}
	k.queue.Push(Event{Time: k.currentTime, ComponentID: id, PortIndex: PortIndexWhole})
	return nil
}

// Run transitions Idle/Paused -> Running.
func (k *Kernel) Run() {
	if k.state != Running {
		k.state = Running
	}
}

// Pause transitions Running -> Paused. It stops the driver's pacing but
// does not drain the event queue (spec §5).
func (k *Kernel) Pause() {
	if k.state == Running {
		k.state = Paused
	}
}

// Reset clears the event queue, resets every non-ROM component's internal
// state, zeroes simulated time, and re-schedules the initial evaluations
// (spec §4.6 "State machine of the kernel").
func (k *Kernel) Reset() {
	k.queue.Clear()
	k.currentTime = 0
	k.state = Idle
	for _, c := range k.netlist.Components() {
		c.Reset()
	}
	for _, w := range k.netlist.Wires() {
		w.State = HiZ
	}
	seedWiresFromSources(k.netlist, k.netlist.wireOrder)
	for _, id := range k.netlist.gateOrder {
		k.queue.Push(Event{Time: 0, ComponentID: id, PortIndex: PortIndexWhole})
	}
}

// Step runs n ProcessOneStep iterations (n defaults to 1 per spec §6
// "step"), returning every observable update produced across all of them.
func (k *Kernel) Step(n int) []Update {
	if n <= 0 {
		n = 1
	}
	var all []Update
	for i := 0; i < n; i++ {
		all = append(all, k.ProcessOneStep()...)
	}
	return all
}

// ProcessOneStep executes one kernel time-slice per spec §4.6 "Time step":
// re-evaluate changed clocks, disarm expired pulses, drain the event queue
// up to currentTime bounded by MaxEventsPerStep, then advance time.
func (k *Kernel) ProcessOneStep() []Update {
	for _, id := range k.clockIDs {
		c, ok := k.netlist.Component(id)
		if !ok {
			continue
		}
		m := c.Memory.(*clockMemory)
		next := clockOutputAt(m.Period, m.DutyCycle, k.currentTime)
		if next != c.Outputs[0] {
			k.queue.Push(Event{Time: k.currentTime, ComponentID: id, PortIndex: PortIndexWhole})
		}
	}
	for _, id := range k.pulseIDs {
		c, ok := k.netlist.Component(id)
		if !ok {
			continue
		}
		if PulseExpired(c, k.currentTime) {
			k.queue.Push(Event{Time: k.currentTime, ComponentID: id, PortIndex: PortIndexWhole})
		}
	}

	var updates []Update
	processed := 0
	for processed < k.config.MaxEventsPerStep {
		ev, ok := k.queue.Peek()
		if !ok || ev.Time > k.currentTime {
			break
		}
		k.queue.Pop()
		processed++

		c, ok := k.netlist.Component(ev.ComponentID)
		if !ok {
			continue // spec §4.6.2: events for removed components are silently skipped
		}

		prevOutputs := append([]State(nil), c.Outputs...)
		for i := range c.Inputs {
			c.Inputs[i] = k.netlist.ResolveInput(c, i)
		}
		c.Evaluate(EvalContext{Time: k.currentTime})
		c.snapshotPrevInputs()

		for i, newVal := range c.Outputs {
			if newVal == prevOutputs[i] {
				continue
			}
			updates = append(updates, Update{ComponentID: c.ID, PortIndex: i, Old: prevOutputs[i], New: newVal})
			for _, wid := range c.OutputWires[i] {
				k.propagateWire(wid, newVal)
			}
		}
	}

	if !k.queue.Empty() {
		head, _ := k.queue.Peek()
		next := k.currentTime + 1
		if head.Time > next {
			next = head.Time
		}
		k.currentTime = next
	} else {
		k.currentTime++
	}
	return updates
}

// propagateWire implements spec §4.6.1: update the wire's cached state (no
// effect if unchanged), re-resolve the target port from all of its drivers,
// and schedule the target for evaluation one tick later.
func (k *Kernel) propagateWire(wireID string, newState State) {
	w, ok := k.netlist.Wire(wireID)
	if !ok || w.State == newState {
		return
	}
	w.State = newState
	target, ok := k.netlist.Component(w.TargetGateID)
	if !ok || w.TargetPortIdx < 0 || w.TargetPortIdx >= len(target.Inputs) {
		return
	}
	target.Inputs[w.TargetPortIdx] = k.netlist.ResolveInput(target, w.TargetPortIdx)
	k.queue.Push(Event{Time: k.currentTime + 1, ComponentID: target.ID, PortIndex: w.TargetPortIdx})
}
