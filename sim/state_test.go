package sim_test

import (
	"testing"
	"testing/quick"

	"github.com/circuitkit/hwkernel/sim"
)

func Test_Not(t *testing.T) {
	td := []struct {
		in   sim.State
		want sim.State
	}{
		{sim.Zero, sim.One},
		{sim.One, sim.Zero},
		{sim.HiZ, sim.Unknown},
		{sim.Conflict, sim.Conflict},
		{sim.Unknown, sim.Unknown},
	}
	for _, d := range td {
		if got := sim.Not(d.in); got != d.want {
			t.Errorf("Not(%v) = %v, want %v", d.in, got, d.want)
		}
	}
}

func Test_And(t *testing.T) {
	td := []struct {
		a, b, want sim.State
	}{
		{sim.Zero, sim.Zero, sim.Zero},
		{sim.Zero, sim.One, sim.Zero},
		{sim.One, sim.Zero, sim.Zero},
		{sim.One, sim.One, sim.One},
		{sim.Zero, sim.Conflict, sim.Zero},
		{sim.One, sim.Conflict, sim.Conflict},
		{sim.One, sim.Unknown, sim.Unknown},
		{sim.One, sim.HiZ, sim.Unknown},
	}
	for _, d := range td {
		if got := sim.And(d.a, d.b); got != d.want {
			t.Errorf("And(%v,%v) = %v, want %v", d.a, d.b, got, d.want)
		}
	}
}

func Test_Or(t *testing.T) {
	td := []struct {
		a, b, want sim.State
	}{
		{sim.Zero, sim.Zero, sim.Zero},
		{sim.Zero, sim.One, sim.One},
		{sim.One, sim.Zero, sim.One},
		{sim.Zero, sim.Conflict, sim.Conflict},
		{sim.Zero, sim.Unknown, sim.Unknown},
		{sim.Zero, sim.HiZ, sim.Unknown},
	}
	for _, d := range td {
		if got := sim.Or(d.a, d.b); got != d.want {
			t.Errorf("Or(%v,%v) = %v, want %v", d.a, d.b, got, d.want)
		}
	}
}

func Test_Xor(t *testing.T) {
	td := []struct {
		a, b, want sim.State
	}{
		{sim.Zero, sim.Zero, sim.Zero},
		{sim.Zero, sim.One, sim.One},
		{sim.One, sim.One, sim.Zero},
		{sim.Zero, sim.Conflict, sim.Conflict},
		{sim.Zero, sim.Unknown, sim.Unknown},
	}
	for _, d := range td {
		if got := sim.Xor(d.a, d.b); got != d.want {
			t.Errorf("Xor(%v,%v) = %v, want %v", d.a, d.b, got, d.want)
		}
	}
}

// Test_DeMorgan checks De Morgan's laws on valid (ZERO/ONE) inputs, per
// spec invariant 7.
func Test_DeMorgan(t *testing.T) {
	vals := []sim.State{sim.Zero, sim.One}
	for _, a := range vals {
		for _, b := range vals {
			if got, want := sim.Nand(a, b), sim.Or(sim.Not(a), sim.Not(b)); got != want {
				t.Errorf("Nand(%v,%v) = %v, want %v (De Morgan)", a, b, got, want)
			}
			if got, want := sim.Nor(a, b), sim.And(sim.Not(a), sim.Not(b)); got != want {
				t.Errorf("Nor(%v,%v) = %v, want %v (De Morgan)", a, b, got, want)
			}
		}
	}
}

// Test_LogicIdentities covers spec invariant 7: double negation, AND
// idempotence, XOR-is-zero-on-equal-valid-inputs.
func Test_LogicIdentities(t *testing.T) {
	for _, a := range []sim.State{sim.Zero, sim.One} {
		if got := sim.Not(sim.Not(a)); got != a {
			t.Errorf("Not(Not(%v)) = %v, want %v", a, got, a)
		}
		if got := sim.And(a, a); got != a {
			t.Errorf("And(%v,%v) = %v, want %v", a, a, got, a)
		}
		if got := sim.Xor(a, a); got != sim.Zero {
			t.Errorf("Xor(%v,%v) = %v, want ZERO", a, a, got)
		}
	}
}

func Test_AndN_OrN_XorN(t *testing.T) {
	if got := sim.AndN(sim.One, sim.One, sim.One); got != sim.One {
		t.Errorf("AndN(1,1,1) = %v, want ONE", got)
	}
	if got := sim.AndN(sim.One, sim.Zero, sim.One); got != sim.Zero {
		t.Errorf("AndN(1,0,1) = %v, want ZERO", got)
	}
	if got := sim.OrN(sim.Zero, sim.Zero, sim.One); got != sim.One {
		t.Errorf("OrN(0,0,1) = %v, want ONE", got)
	}
	if got := sim.XorN(sim.One, sim.One, sim.One); got != sim.One {
		t.Errorf("XorN(1,1,1) = %v, want ONE", got)
	}
}

// Test_State_quick checks that Not is stable after one application
// (Not(Not(Not(a))) == Not(a)) across randomly generated states drawn from
// all five values, in the teacher's testing/quick style.
func Test_State_quick(t *testing.T) {
	gen := func(n int) sim.State {
		return sim.State(uint8(n) % 5)
	}
	f := func(n int) bool {
		a := gen(n)
		return sim.Not(sim.Not(sim.Not(a))) == sim.Not(a)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}
