package sim_test

import (
	"testing"

	"github.com/circuitkit/hwkernel/sim"
)

func mustComponent(t *testing.T, id string, typ sim.Type) *sim.Component {
	t.Helper()
	c, err := sim.NewComponent(sim.ComponentDescriptor{ID: id, Type: typ})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// Test_RemoveGate_multiWireFanIn is a regression test for a compaction bug:
// RemoveGate used to range directly over a port's live connection-list slice
// while removing wires from that very slice underneath itself, silently
// skipping every other entry on 3+-way fan-in/fan-out.
func Test_RemoveGate_multiWireFanIn(t *testing.T) {
	n := sim.NewNetlist()
	for _, id := range []string{"s1", "s2", "s3"} {
		if err := n.AddGate(mustComponent(t, id, sim.TypeToggle)); err != nil {
			t.Fatal(err)
		}
	}
	target := mustComponent(t, "target", sim.TypeLED)
	if err := n.AddGate(target); err != nil {
		t.Fatal(err)
	}
	for _, src := range []string{"s1", "s2", "s3"} {
		w := &sim.Wire{ID: "w" + src, SourceGateID: src, SourcePortIdx: 0, TargetGateID: "target", TargetPortIdx: 0}
		if err := n.AddWire(w); err != nil {
			t.Fatal(err)
		}
	}

	n.RemoveGate("target")
	for _, wid := range []string{"ws1", "ws2", "ws3"} {
		if _, ok := n.Wire(wid); ok {
			t.Fatalf("wire %q should have been removed along with a 3-way fan-in target", wid)
		}
	}
}

// Test_RemoveGate_multiWireFanOut is the fan-out-side counterpart: one
// source driving three separate targets from a single output port.
func Test_RemoveGate_multiWireFanOut(t *testing.T) {
	n := sim.NewNetlist()
	src := mustComponent(t, "src", sim.TypeToggle)
	if err := n.AddGate(src); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"t1", "t2", "t3"} {
		if err := n.AddGate(mustComponent(t, id, sim.TypeLED)); err != nil {
			t.Fatal(err)
		}
	}
	for _, dst := range []string{"t1", "t2", "t3"} {
		w := &sim.Wire{ID: "w" + dst, SourceGateID: "src", SourcePortIdx: 0, TargetGateID: dst, TargetPortIdx: 0}
		if err := n.AddWire(w); err != nil {
			t.Fatal(err)
		}
	}

	n.RemoveGate("src")
	for _, wid := range []string{"wt1", "wt2", "wt3"} {
		if _, ok := n.Wire(wid); ok {
			t.Fatalf("wire %q should have been removed along with a 3-way fan-out source", wid)
		}
	}
}
