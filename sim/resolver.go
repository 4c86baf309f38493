package sim

// ResolveWire combines the states of every driver on one net into a single
// State, per spec §4.2. The function is total, commutative, associative and
// idempotent in its inputs.
func ResolveWire(drivers []State) State {
	hasZero, hasOne, hasUnknown := false, false, false
	for _, d := range drivers {
		switch d {
		case Conflict:
			return Conflict
		case Zero:
			hasZero = true
		case One:
			hasOne = true
		case Unknown:
			hasUnknown = true
		case HiZ:
			// non-driving; does not participate in resolution
		}
	}
	switch {
	case hasZero && hasOne:
		return Conflict
	case hasOne:
		return One
	case hasZero:
		return Zero
	case hasUnknown:
		return Unknown
	default:
		return HiZ
	}
}
