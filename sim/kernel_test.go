package sim_test

import (
	"fmt"
	"testing"

	"github.com/circuitkit/hwkernel/sim"
)

func mustWire(id, srcID string, srcPort int, dstID string, dstPort int) sim.WireDescriptor {
	return sim.WireDescriptor{ID: id, SourceGateID: srcID, SourcePortIdx: srcPort, TargetGateID: dstID, TargetPortIdx: dstPort}
}

func newKernel(t *testing.T, gates []sim.ComponentDescriptor, wires []sim.WireDescriptor) *sim.Kernel {
	t.Helper()
	k := sim.NewKernel(sim.DefaultConfig())
	if err := k.Initialize(gates, wires); err != nil {
		t.Fatal(err)
	}
	return k
}

// Test_E1_NotPropagation implements spec scenario E1.
func Test_E1_NotPropagation(t *testing.T) {
	k := newKernel(t,
		[]sim.ComponentDescriptor{
			{ID: "t", Type: sim.TypeToggle},
			{ID: "n", Type: sim.TypeNot},
			{ID: "l", Type: sim.TypeLED},
		},
		[]sim.WireDescriptor{
			mustWire("w1", "t", 0, "n", 0),
			mustWire("w2", "n", 0, "l", 0),
		},
	)
	k.Step(10)
	n, _ := k.Netlist().Component("n")
	l, _ := k.Netlist().Component("l")
	if n.Outputs[0] != sim.One {
		t.Fatalf("n.output = %v, want ONE", n.Outputs[0])
	}
	if l.Inputs[0] != sim.One {
		t.Fatalf("l.input = %v, want ONE", l.Inputs[0])
	}

	if err := k.Toggle("t"); err != nil {
		t.Fatal(err)
	}
	k.Step(10)
	if n.Outputs[0] != sim.Zero {
		t.Fatalf("after toggle: n.output = %v, want ZERO", n.Outputs[0])
	}
	if l.Inputs[0] != sim.Zero {
		t.Fatalf("after toggle: l.input = %v, want ZERO", l.Inputs[0])
	}
}

// Test_E2_AndTruthTable implements spec scenario E2.
func Test_E2_AndTruthTable(t *testing.T) {
	k := newKernel(t,
		[]sim.ComponentDescriptor{
			{ID: "t1", Type: sim.TypeToggle},
			{ID: "t2", Type: sim.TypeToggle},
			{ID: "a", Type: sim.TypeAnd},
		},
		[]sim.WireDescriptor{
			mustWire("w1", "t1", 0, "a", 0),
			mustWire("w2", "t2", 0, "a", 1),
		},
	)
	a, _ := k.Netlist().Component("a")
	k.Step(10)
	if a.Outputs[0] != sim.Zero {
		t.Fatalf("(0,0): a.out = %v, want ZERO", a.Outputs[0])
	}

	if err := k.Toggle("t1"); err != nil {
		t.Fatal(err)
	}
	k.Step(10)
	if a.Outputs[0] != sim.Zero {
		t.Fatalf("(1,0): a.out = %v, want ZERO", a.Outputs[0])
	}

	if err := k.Toggle("t2"); err != nil {
		t.Fatal(err)
	}
	k.Step(10)
	if a.Outputs[0] != sim.One {
		t.Fatalf("(1,1): a.out = %v, want ONE", a.Outputs[0])
	}

	if err := k.Toggle("t1"); err != nil {
		t.Fatal(err)
	}
	k.Step(10)
	if a.Outputs[0] != sim.Zero {
		t.Fatalf("(0,1): a.out = %v, want ZERO", a.Outputs[0])
	}
}

// Test_E4_TriStateBusConflict implements spec scenario E4.
func Test_E4_TriStateBusConflict(t *testing.T) {
	k := newKernel(t,
		[]sim.ComponentDescriptor{
			{ID: "d1", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.Zero}},
			{ID: "e1", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.One}},
			{ID: "d2", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.One}},
			{ID: "e2", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.One}},
			{ID: "b1", Type: sim.TypeTriBuffer},
			{ID: "b2", Type: sim.TypeTriBuffer},
			{ID: "led", Type: sim.TypeLED},
		},
		[]sim.WireDescriptor{
			mustWire("wd1", "d1", 0, "b1", 0),
			mustWire("we1", "e1", 0, "b1", 1),
			mustWire("wd2", "d2", 0, "b2", 0),
			mustWire("we2", "e2", 0, "b2", 1),
			mustWire("wb1", "b1", 0, "led", 0),
			mustWire("wb2", "b2", 0, "led", 0),
		},
	)
	k.Step(10)
	led, _ := k.Netlist().Component("led")
	if led.Inputs[0] != sim.Conflict {
		t.Fatalf("both enabled, 0 vs 1: led.input = %v, want CONFLICT", led.Inputs[0])
	}

	if err := k.Toggle("e2"); err != nil { // disable b2
		t.Fatal(err)
	}
	k.Step(10)
	if led.Inputs[0] != sim.Zero {
		t.Fatalf("only b1 enabled: led.input = %v, want ZERO", led.Inputs[0])
	}
}

// Test_E6_RAMWriteReadRoundTrip implements spec scenario E6.
func Test_E6_RAMWriteReadRoundTrip(t *testing.T) {
	gates := []sim.ComponentDescriptor{
		{ID: "a0", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.One}},
		{ID: "a1", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.Zero}},
		{ID: "a2", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.One}},
		{ID: "a3", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.Zero}},
		{ID: "din0", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.Zero}},
		{ID: "din1", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.One}},
		{ID: "din2", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.Zero}},
		{ID: "din3", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.One}},
		{ID: "we", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.One}},
		{ID: "clk", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.Zero}},
		{ID: "ram", Type: sim.TypeRAM16x4},
	}
	// A0..A3 DIN0..DIN3 WE CLK, per newRAM(4) port order.
	var wires []sim.WireDescriptor
	addrs := []string{"a0", "a1", "a2", "a3", "din0", "din1", "din2", "din3", "we", "clk"}
	for i, id := range addrs {
		wires = append(wires, mustWire("w"+id, id, 0, "ram", i))
	}
	k := newKernel(t, gates, wires)
	k.Step(5)

	if err := k.Toggle("clk"); err != nil { // rising edge, WE=1 -> write
		t.Fatal(err)
	}
	k.Step(5)

	ram, _ := k.Netlist().Component("ram")
	want := []sim.State{sim.Zero, sim.One, sim.Zero, sim.One}
	for i, w := range want {
		if ram.Outputs[i] != w {
			t.Fatalf("after write: ram.out[%d] = %v, want %v", i, ram.Outputs[i], w)
		}
	}

	if err := k.SetInput("we", sim.Zero); err != nil {
		t.Fatal(err)
	}
	k.Step(5)
	if err := k.Toggle("clk"); err != nil { // falling edge, no write
		t.Fatal(err)
	}
	k.Step(5)
	if err := k.Toggle("clk"); err != nil { // rising edge, WE=0 -> no write
		t.Fatal(err)
	}
	k.Step(5)
	for i, w := range want {
		if ram.Outputs[i] != w {
			t.Fatalf("read-only pass: ram.out[%d] = %v, want %v (unchanged)", i, ram.Outputs[i], w)
		}
	}
}

// Test_Reset_preservesROM_clearsOthers implements spec invariant 3.
func Test_Reset_preservesROM_clearsOthers(t *testing.T) {
	romData := [][]interface{}{}
	for i := 0; i < 16; i++ {
		romData = append(romData, []interface{}{float64(1), float64(0), float64(1), float64(0)})
	}
	gates := []sim.ComponentDescriptor{
		{ID: "t", Type: sim.TypeToggle, InternalState: map[string]interface{}{"value": sim.One}},
		{ID: "rom", Type: sim.TypeROM16x4, InternalState: map[string]interface{}{"memory": toInterfaceSlice(romData)}},
	}
	k := newKernel(t, gates, nil)
	k.Step(1)

	before := romMemoryOf(t, k, "rom")

	k.Reset()
	if k.Time() != 0 {
		t.Fatalf("reset: time = %d, want 0", k.Time())
	}
	tg, _ := k.Netlist().Component("t")
	if tg.Outputs[0] != sim.Zero {
		t.Fatalf("reset: toggle.out = %v, want ZERO (constructor default)", tg.Outputs[0])
	}

	after := romMemoryOf(t, k, "rom")
	if before != after {
		t.Fatalf("rom memory changed across reset:\nbefore: %s\nafter:  %s", before, after)
	}
}

func romMemoryOf(t *testing.T, k *sim.Kernel, id string) string {
	t.Helper()
	for _, g := range k.Snapshot().Gates {
		if g.ID == id {
			return fmt.Sprint(g.InternalState["memory"])
		}
	}
	t.Fatalf("gate %q not found in snapshot", id)
	return ""
}

func toInterfaceSlice(rows [][]interface{}) []interface{} {
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// Test_RemoveGate_purgesWiresAndEvents implements spec invariant 4.
func Test_RemoveGate_purgesWiresAndEvents(t *testing.T) {
	k := newKernel(t,
		[]sim.ComponentDescriptor{
			{ID: "t", Type: sim.TypeToggle},
			{ID: "n", Type: sim.TypeNot},
		},
		[]sim.WireDescriptor{mustWire("w1", "t", 0, "n", 0)},
	)
	k.RemoveGate("n")
	if _, ok := k.Netlist().Wire("w1"); ok {
		t.Fatal("wire w1 should have been removed along with gate n")
	}
	if _, ok := k.Netlist().Component("n"); ok {
		t.Fatal("gate n should have been removed")
	}
	// Stepping must not panic even though events for "n" may still be queued.
	k.Step(5)
}
