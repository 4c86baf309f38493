package sim

// GateSnapshot is the wire-format view of one component (spec §6 "Snapshot
// shape").
type GateSnapshot struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	InputStates   []State                `json:"inputStates"`
	OutputStates  []State                `json:"outputStates"`
	InternalState map[string]interface{} `json:"internalState,omitempty"`
}

// WireSnapshot is the wire-format view of one wire (spec §6 "Snapshot
// shape").
type WireSnapshot struct {
	ID            string `json:"id"`
	State         State  `json:"state"`
	SourceGateID  string `json:"sourceGateId"`
	SourcePortIdx int    `json:"sourcePortIndex"`
	TargetGateID  string `json:"targetGateId"`
	TargetPortIdx int    `json:"targetPortIndex"`
}

// Snapshot is a read-only copy of kernel state published to observers at
// frame boundaries (spec §9 "Snapshots, not diffs"). Consumers diff against
// their previous snapshot; the kernel never emits deltas itself.
type Snapshot struct {
	Time  Time           `json:"time"`
	Gates []GateSnapshot `json:"gates"`
	Wires []WireSnapshot `json:"wires"`
}

// Snapshot builds a full copy of the kernel's current state.
func (k *Kernel) Snapshot() Snapshot {
	components := k.netlist.Components()
	gates := make([]GateSnapshot, 0, len(components))
	for _, c := range components {
		gates = append(gates, GateSnapshot{
			ID:            c.ID,
			Type:          c.Type,
			InputStates:   append([]State(nil), c.Inputs...),
			OutputStates:  append([]State(nil), c.Outputs...),
			InternalState: internalStateOf(c),
		})
	}
	wires := k.netlist.Wires()
	wireSnaps := make([]WireSnapshot, 0, len(wires))
	for _, w := range wires {
		wireSnaps = append(wireSnaps, WireSnapshot{
			ID:            w.ID,
			State:         w.State,
			SourceGateID:  w.SourceGateID,
			SourcePortIdx: w.SourcePortIdx,
			TargetGateID:  w.TargetGateID,
			TargetPortIdx: w.TargetPortIdx,
		})
	}
	return Snapshot{Time: k.currentTime, Gates: gates, Wires: wireSnaps}
}

// internalStateOf extracts a component's hidden Memory (and, for the pure
// observer I/O markers, a computed view over its ports) into the generic
// map a GateSnapshot carries. Components with no Memory and no derived view
// return nil, omitting the field entirely.
func internalStateOf(c *Component) map[string]interface{} {
	switch m := c.Memory.(type) {
	case *toggleMemory:
		return map[string]interface{}{"value": m.Value}
	case *clockMemory:
		return map[string]interface{}{"period": uint64(m.Period), "dutyCycle": m.DutyCycle}
	case *pulseMemory:
		return map[string]interface{}{"active": m.Active, "endTime": uint64(m.EndTime)}
	case *keypadMemory:
		return map[string]interface{}{"value": m.Value}
	case *ramMemory:
		return map[string]interface{}{"memory": memoryRowsOf(m.cells[:])}
	case *romMemory:
		return map[string]interface{}{"memory": memoryRowsOf(m.cells[:])}
	}
	switch c.Type {
	case TypeDisplay1D, TypeDisplay2D:
		if v, ok := displayValue(c); ok {
			return map[string]interface{}{"value": v}
		}
		return map[string]interface{}{"value": nil}
	}
	return nil
}

func memoryRowsOf(cells [][]State) []interface{} {
	rows := make([]interface{}, len(cells))
	for i, row := range cells {
		bits := make([]interface{}, len(row))
		for j, s := range row {
			bits[j] = int(s)
		}
		rows[i] = bits
	}
	return rows
}
