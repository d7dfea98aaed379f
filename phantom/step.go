package phantom

import (
	"github.com/fujix-tas/fujix/physics"
	"github.com/fujix-tas/fujix/replay"
)

// StepResult summarizes one Advance or Step call.
type StepResult struct {
	Applied int
	Froze   bool

	RolledBack bool
	Rollback   Rollback
}

// Push queues live inputs for the next Advance. Entries at or before the last applied tick are
// ignored.
func (p *Simulator) Push(entries ...replay.TickEntry) {
	if p.mode != ModeLive {
		return
	}
	for _, e := range entries {
		if e.Tick <= p.tick {
			continue
		}
		if n := len(p.pending); n > 0 && p.pending[n-1].Tick >= e.Tick {
			if p.pending[n-1].Tick == e.Tick {
				p.pending[n-1] = e
			}
			continue
		}
		p.pending = append(p.pending, e)
	}
}

// Advance applies every queued live input in tick order. When the phantom freezes while recording
// with rollback on freeze enabled, it is rolled back and the rest of the queue is dropped.
func (p *Simulator) Advance() StepResult {
	var res StepResult
	if p.mode != ModeLive {
		return res
	}
	for len(p.pending) > 0 {
		e := p.pending[0]
		p.pending = p.pending[1:]

		applied, froze := p.apply(e)
		res.Applied += applied
		if !froze {
			continue
		}
		res.Froze = true
		if p.opts.RollbackOnFreeze && p.recording {
			res.Rollback = p.Rollback(p.opts.RollbackTicks)
			res.RolledBack = true
			return res
		}
	}
	p.pending = nil
	return res
}

// Step plays the loaded log up to and including offset.
func (p *Simulator) Step(offset int32) StepResult {
	var res StepResult
	if p.mode != ModePlayback {
		return res
	}
	for p.playIndex < p.playback.Len() {
		e := p.playback.At(p.playIndex)
		if e.Tick > offset {
			break
		}
		p.playIndex++
		applied, froze := p.apply(e)
		res.Applied += applied
		res.Froze = res.Froze || froze
	}
	if p.playIndex >= p.playback.Len() {
		p.mode = ModeFinished
		p.log.Debugf("phantom playback finished on tick %d", p.tick)
	}
	return res
}

// apply runs the ticks up to e.Tick, repeating the previous input for any skipped tick, and returns
// how many ticks ran and whether the phantom froze.
func (p *Simulator) apply(e replay.TickEntry) (int, bool) {
	applied, froze := 0, false
	for t := p.tick + 1; t < e.Tick; t++ {
		if p.step(t, p.input) {
			froze = true
		}
		applied++
	}
	if p.step(e.Tick, e.Input) {
		froze = true
	}
	return applied + 1, froze
}

func (p *Simulator) step(tick int32, in physics.InputFrame) bool {
	next, res := p.sim.Tick(p.core, in)
	if res.Outcome == physics.OutcomeNonFinite {
		p.log.Warnf("phantom tick %d produced a non-finite state, keeping the previous one", tick)
	}
	p.prev, p.core = p.core, next
	p.tick = tick
	p.input = in
	p.history.Append(HistoryEntry{
		Tick:            tick,
		Core:            p.core,
		Prev:            p.prev,
		Input:           in,
		FreezeCountdown: p.core.FreezeCountdown(),
	})
	return res.Froze
}
