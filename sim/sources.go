package sim

import (
	"math"

	"github.com/pkg/errors"
)

func init() {
	register(TypeToggle, newToggle)
	register(TypeClock, newClock)
	register(TypePulse, newPulse)
}

// toggleMemory holds a TOGGLE's current driven value.
type toggleMemory struct {
	Value State
}

// clockMemory holds a CLOCK's construction parameters. A clock carries no
// other hidden state: its output is a pure function of simulated time.
type clockMemory struct {
	Period     Time
	DutyCycle  float64
}

// pulseMemory holds a PULSE's arm/disarm state.
type pulseMemory struct {
	Duration Time
	Active   bool
	EndTime  Time
}

func newToggle(desc ComponentDescriptor) (*Component, error) {
	c := baseComponent(0, 0, 1)
	val := Zero
	if v, ok := desc.InternalState["value"]; ok {
		if s, ok := toState(v); ok {
			val = s
		}
	}
	c.Outputs[0] = val
	c.Memory = &toggleMemory{Value: val}
	c.eval = func(c *Component, _ EvalContext) {
		c.Outputs[0] = c.Memory.(*toggleMemory).Value
	}
	c.resetFn = func(c *Component) {
		c.Memory.(*toggleMemory).Value = Zero
		c.Outputs[0] = Zero
	}
	return c, nil
}

func newClock(desc ComponentDescriptor) (*Component, error) {
	period := Time(1)
	if v, ok := desc.Params["period"]; ok {
		p, err := toUint(v)
		if err != nil {
			return nil, errors.Wrap(err, "CLOCK period")
		}
		if p == 0 {
			return nil, errors.New("CLOCK period must be positive")
		}
		period = Time(p)
	}
	duty := 0.5
	if v, ok := desc.Params["dutyCycle"]; ok {
		d, err := toFloat(v)
		if err != nil {
			return nil, errors.Wrap(err, "CLOCK dutyCycle")
		}
		if d <= 0 || d >= 1 {
			return nil, errors.New("CLOCK dutyCycle must be in (0,1)")
		}
		duty = d
	}
	c := baseComponent(0, 0, 1)
	c.Memory = &clockMemory{Period: period, DutyCycle: duty}
	c.Outputs[0] = clockOutputAt(period, duty, 0)
	c.eval = func(c *Component, ctx EvalContext) {
		m := c.Memory.(*clockMemory)
		c.Outputs[0] = clockOutputAt(m.Period, m.DutyCycle, ctx.Time)
	}
	c.resetFn = func(c *Component) {
		m := c.Memory.(*clockMemory)
		c.Outputs[0] = clockOutputAt(m.Period, m.DutyCycle, 0)
	}
	return c, nil
}

// clockOutputAt implements spec §4.4: ONE iff (t mod period) < floor(period
// * dutyCycle), else ZERO. A period of 1 makes the threshold always equal to
// t mod period (0), so the clock output is a constant ZERO -- this is the
// deliberate, documented behavior of spec §9 Open Question (b), preserved
// here rather than special-cased away.
func clockOutputAt(period Time, duty float64, t Time) State {
	threshold := Time(math.Floor(float64(period) * duty))
	if Time(uint64(t)%uint64(period)) < threshold {
		return One
	}
	return Zero
}

func newPulse(desc ComponentDescriptor) (*Component, error) {
	duration := Time(1)
	if v, ok := desc.Params["duration"]; ok {
		d, err := toUint(v)
		if err != nil {
			return nil, errors.Wrap(err, "PULSE duration")
		}
		if d == 0 {
			return nil, errors.New("PULSE duration must be positive")
		}
		duration = Time(d)
	}
	c := baseComponent(0, 0, 1)
	c.Outputs[0] = Zero
	c.Memory = &pulseMemory{Duration: duration}
	c.eval = func(c *Component, _ EvalContext) {
		m := c.Memory.(*pulseMemory)
		c.Outputs[0] = FromBool(m.Active)
	}
	c.resetFn = func(c *Component) {
		m := c.Memory.(*pulseMemory)
		m.Active = false
		m.EndTime = 0
		c.Outputs[0] = Zero
	}
	return c, nil
}

// Toggle flips a TOGGLE component's driven value. Panics if c is not a
// TOGGLE; callers (Kernel.Toggle) are responsible for type-checking first.
func Toggle(c *Component) {
	m := c.Memory.(*toggleMemory)
	if m.Value == One {
		m.Value = Zero
	} else {
		m.Value = One
	}
}

// SetToggleValue sets a TOGGLE component's driven value directly.
func SetToggleValue(c *Component, v State) {
	c.Memory.(*toggleMemory).Value = v
}

// ArmPulse starts a PULSE's timed high period starting at "at"; the caller
// (Kernel) is responsible for scheduling the disarm check.
func ArmPulse(c *Component, at Time) {
	m := c.Memory.(*pulseMemory)
	m.Active = true
	m.EndTime = at + m.Duration
}

// PulseExpired reports whether the pulse is armed and its end time has
// passed, and disarms it as a side effect if so.
func PulseExpired(c *Component, now Time) bool {
	m := c.Memory.(*pulseMemory)
	if m.Active && now >= m.EndTime {
		m.Active = false
		return true
	}
	return false
}

func toState(v interface{}) (State, bool) {
	switch x := v.(type) {
	case State:
		return x, true
	case float64:
		return State(x), true
	case int:
		return State(x), true
	}
	return Unknown, false
}

func toUint(v interface{}) (uint64, error) {
	switch x := v.(type) {
	case int:
		return uint64(x), nil
	case int64:
		return uint64(x), nil
	case uint64:
		return x, nil
	case float64:
		return uint64(x), nil
	}
	return 0, errors.Errorf("expected an integer, got %T", v)
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	}
	return 0, errors.Errorf("expected a number, got %T", v)
}
