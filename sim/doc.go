/*
Package sim provides a deterministic, event-driven simulator for
digital-logic circuits built from a fixed catalogue of combinational,
sequential and memory components.

It accepts a netlist of components and point-to-point wires, runs a
discrete-time simulation over a 5-valued logic algebra, and exposes
per-component input/output/internal state through Snapshot for external
consumers (an editor, a console, a test).

The simulation kernel is single-threaded and cooperative: every exported
method on Kernel either returns synchronously or enqueues work for a later
Step. Pacing a Kernel against wall-clock time is the job of the driver
package, not of sim itself.
*/
package sim
