// Package driver adapts wall-clock time to simulated kernel ticks and
// publishes snapshots, the way a UI-facing worker isolate would (spec §4.7,
// §5). It owns no simulation semantics of its own -- everything here is
// pacing and scheduling around a *sim.Kernel.
package driver

import (
	"sync"
	"time"

	"github.com/circuitkit/hwkernel/sim"
)

// MaxStepsPerFrame bounds how many kernel steps one Tick call may run,
// backpressure against CPU saturation if the driver falls far behind.
const MaxStepsPerFrame = 100

const (
	minMsPerTick = 1
	maxMsPerTick = 1000
)

// Driver paces a *sim.Kernel against wall-clock time using an accumulator
// (spec §4.7): each Tick call converts elapsed wall time into a whole
// number of simulated steps, carrying any remainder forward.
type Driver struct {
	mu sync.Mutex

	kernel *sim.Kernel

	msPerTick   int64
	accumulator int64
	lastTime    time.Time

	onSnapshot func(sim.Snapshot)
}

// New wraps kernel in a Driver with the given initial pacing.
func New(kernel *sim.Kernel, msPerTick int) *Driver {
	return &Driver{
		kernel:    kernel,
		msPerTick: clampMsPerTick(msPerTick),
		lastTime:  time.Time{},
	}
}

func clampMsPerTick(v int) int64 {
	if v < minMsPerTick {
		v = minMsPerTick
	}
	if v > maxMsPerTick {
		v = maxMsPerTick
	}
	return int64(v)
}

// OnSnapshot registers a callback invoked with the kernel's snapshot after
// every Tick, whether or not any steps ran. Passing nil disables publishing.
func (d *Driver) OnSnapshot(fn func(sim.Snapshot)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onSnapshot = fn
}

// SetSpeed adjusts msPerTick (spec §6 "setSpeed"), clamped to [1,1000].
func (d *Driver) SetSpeed(msPerTick int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msPerTick = clampMsPerTick(msPerTick)
}

// Start resets the accumulator against the current wall-clock time. Call it
// once before the first Tick, and again after any long pause, to avoid a
// burst of catch-up steps.
func (d *Driver) Start(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastTime = now
	d.accumulator = 0
}

// Tick converts elapsed wall-clock time since the last Tick/Start into a
// whole number of kernel steps, runs them (only while the kernel is
// Running), and publishes a snapshot via the registered callback.
func (d *Driver) Tick(now time.Time) []sim.Update {
	d.mu.Lock()
	if d.lastTime.IsZero() {
		d.lastTime = now
	}
	dt := now.Sub(d.lastTime).Milliseconds()
	d.lastTime = now
	d.accumulator += dt

	n := int(d.accumulator / d.msPerTick)
	d.accumulator -= int64(n) * d.msPerTick
	if n > MaxStepsPerFrame {
		n = MaxStepsPerFrame
		d.accumulator = 0
	}
	kernel := d.kernel
	cb := d.onSnapshot
	d.mu.Unlock()

	var updates []sim.Update
	if n > 0 && kernel.State() == sim.Running {
		updates = kernel.Step(n)
	}
	if cb != nil {
		cb(kernel.Snapshot())
	}
	return updates
}

// Run blocks, ticking at roughly 60 Hz until stop is closed. Intended for
// cmd/hwsimctl's main loop; library callers embedding the kernel in their
// own event loop should call Tick directly instead.
func (d *Driver) Run(stop <-chan struct{}) {
	d.Start(time.Now())
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			d.Tick(now)
		}
	}
}
