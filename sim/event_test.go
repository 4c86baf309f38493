package sim_test

import (
	"testing"

	"github.com/circuitkit/hwkernel/sim"
)

// Test_EventQueue_order checks spec invariant 6: among events with equal
// time, pop order equals push order.
func Test_EventQueue_order(t *testing.T) {
	// TOGGLE presets its output to a real value at construction, so its own
	// first Evaluate is a no-op diff and produces no Update. Route each
	// toggle through a NOT gate instead: NOT constructs with output UNKNOWN,
	// so its first evaluation always yields a real, observable change.
	k := sim.NewKernel(sim.DefaultConfig())
	gates := []sim.ComponentDescriptor{
		{ID: "ta", Type: sim.TypeToggle},
		{ID: "tb", Type: sim.TypeToggle},
		{ID: "tc", Type: sim.TypeToggle},
		{ID: "a", Type: sim.TypeNot},
		{ID: "b", Type: sim.TypeNot},
		{ID: "c", Type: sim.TypeNot},
	}
	wires := []sim.WireDescriptor{
		mustWire("wa", "ta", 0, "a", 0),
		mustWire("wb", "tb", 0, "b", 0),
		mustWire("wc", "tc", 0, "c", 0),
	}
	if err := k.Initialize(gates, wires); err != nil {
		t.Fatal(err)
	}
	// Initialize schedules every gate in insertion order at t=0; running one
	// step drains all six and should report the NOT gates' updates in the
	// same relative order their TOGGLE drivers were declared.
	updates := k.Step(1)
	if len(updates) < 3 {
		t.Fatalf("expected at least 3 updates, got %d", len(updates))
	}
	order := map[string]int{}
	for i, u := range updates {
		if _, seen := order[u.ComponentID]; !seen {
			order[u.ComponentID] = i
		}
	}
	if !(order["a"] < order["b"] && order["b"] < order["c"]) {
		t.Errorf("expected push order a<b<c, got %v", order)
	}
}

func Test_Kernel_Time_nondecreasing(t *testing.T) {
	k := sim.NewKernel(sim.DefaultConfig())
	if err := k.Initialize([]sim.ComponentDescriptor{{ID: "t", Type: sim.TypeToggle}}, nil); err != nil {
		t.Fatal(err)
	}
	last := k.Time()
	for i := 0; i < 50; i++ {
		k.Step(1)
		if k.Time() < last {
			t.Fatalf("time decreased: %d -> %d", last, k.Time())
		}
		last = k.Time()
	}
}
