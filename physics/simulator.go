package physics

// SimulatorOptions tune diagnostics of a Simulator. They never affect the simulated trajectory.
type SimulatorOptions struct {
	// Debugf receives internal trace logs for callers that need deep diagnostics.
	Debugf func(format string, args ...any)
}

// Simulator steps character cores against one world with one set of tuning parameters.
type Simulator struct {
	World   WorldProvider
	Tuning  TuningParams
	Options SimulatorOptions
}

func NewSimulator(w WorldProvider, tuning TuningParams) *Simulator {
	return &Simulator{World: w, Tuning: tuning}
}

// Tick advances core by one tick using input and returns the new core. It is a pure function of
// its arguments.
func Tick(core CharacterCore, input InputFrame, w WorldProvider, tuning TuningParams) (CharacterCore, Result) {
	s := Simulator{World: w, Tuning: tuning}
	return s.Tick(core, input)
}

func (s *Simulator) debugf(format string, args ...any) {
	if s.Options.Debugf != nil {
		s.Options.Debugf(format, args...)
	}
}
