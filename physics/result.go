package physics

// Outcome describes which path a tick took.
type Outcome uint8

const (
	OutcomeNormal Outcome = iota
	OutcomeTeleported
	// OutcomeNonFinite means the tick produced a NaN or infinite value and was dropped. The
	// returned core is the input core.
	OutcomeNonFinite
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNormal:
		return "normal"
	case OutcomeTeleported:
		return "teleported"
	case OutcomeNonFinite:
		return "non-finite"
	}
	return "unknown"
}

// Result captures side information about a single tick.
type Result struct {
	Outcome Outcome

	Grounded bool
	// Froze is set when the core became frozen during the tick.
	Froze bool
	// Unfroze is set when the core stopped being frozen during the tick.
	Unfroze bool
	// HookHit is set when the hook grabbed onto a tile during the tick.
	HookHit bool

	FirePresses int
}
