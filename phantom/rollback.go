package phantom

import (
	"github.com/fujix-tas/fujix/oerror"
	"github.com/fujix-tas/fujix/physics"
)

// Rollback describes where a rollback landed.
type Rollback struct {
	// Target is the log offset the phantom now stands after. Everything recorded after it must be
	// discarded.
	Target int32
	// Clamped is set when the history did not reach back far enough and the oldest entry was used.
	Clamped bool
}

// Rollback restores the latest history entry at or before the current tick minus ticks, clamped to
// the oldest entry still retained, and drops every later history entry and queued input.
func (p *Simulator) Rollback(ticks int32) Rollback {
	if p.history.Len() == 0 {
		return Rollback{Target: p.tick, Clamped: ticks > 0}
	}

	want := p.tick - ticks
	idx, clamped := -1, false
	for i, e := range p.history.Backward() {
		if e.Tick <= want {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx, clamped = 0, true
	}

	retained := p.history.Len()
	e, _ := p.history.Get(idx)
	p.history.Truncate(idx + 1)
	p.core, p.prev = e.Core, e.Prev
	p.tick = e.Tick
	p.input = e.Input
	p.pending = nil
	if p.playback != nil {
		i, found := p.playback.Find(e.Tick)
		if found {
			i++
		}
		p.playIndex = i
		if p.mode == ModeFinished {
			p.mode = ModePlayback
		}
	}
	p.rollbacks++

	if clamped {
		err := oerror.Newf(oerror.KindRollbackBeyondHistory, "%d ticks requested, %d retained", ticks, retained)
		p.log.WithError(err).Debugf("rollback clamped to tick %d", e.Tick)
	} else {
		p.log.Debugf("rolled back %d ticks to tick %d", ticks, e.Tick)
	}
	return Rollback{Target: e.Tick, Clamped: clamped}
}

// Lookahead simulates ticks ahead of the phantom holding its last input, without touching its state.
func (p *Simulator) Lookahead(ticks int) physics.Lookahead {
	return p.sim.Lookahead(p.core, p.input, ticks)
}
