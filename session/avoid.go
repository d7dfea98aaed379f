package session

import (
	"github.com/fujix-tas/fujix/game"
	"github.com/fujix-tas/fujix/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/samber/lo"
)

type avoidState uint8

const (
	avoidIdle avoidState = iota
	// avoidRehook holds the hook released until it can fire at the chosen target.
	avoidRehook
	// avoidHooking keeps the hook on the target until letting go no longer leads into freeze.
	avoidHooking
)

// freezeAvoider rewrites the hook part of the local input when the character is about to run into
// freeze, re-hooking the point whose rope stays farthest from it.
type freezeAvoider struct {
	enabled bool
	ticks   int

	state  avoidState
	target mgl32.Vec2
}

func newFreezeAvoider(enabled bool, ticks int) *freezeAvoider {
	a := &freezeAvoider{enabled: enabled}
	a.setTicks(ticks)
	return a
}

func (a *freezeAvoider) setTicks(ticks int) {
	a.ticks = lo.Clamp(ticks, 2, 20)
}

func (a *freezeAvoider) setEnabled(enabled bool) {
	a.enabled = enabled
	a.state = avoidIdle
}

// adjust returns the input to apply on top of core. It reports whether a new hook target was picked.
func (a *freezeAvoider) adjust(sim *physics.Simulator, core physics.CharacterCore, in physics.InputFrame) (physics.InputFrame, bool) {
	if !a.enabled || core.Frozen() {
		a.state = avoidIdle
		return in, false
	}
	released := in
	released.Hook = false

	switch a.state {
	case avoidRehook:
		// A new hook needs an idle hook and a released button on the previous tick.
		if core.HookState != physics.HookIdle || core.Input.Hook {
			return released, false
		}
		a.state = avoidHooking
		return a.aim(in, core.Pos), false
	case avoidHooking:
		if core.HookState != physics.HookFlying && core.HookState != physics.HookGrabbed {
			a.state = avoidIdle
			break
		}
		if sim.Lookahead(core, released, a.ticks).FreezeIn < 0 {
			a.state = avoidIdle
			return released, false
		}
		return a.aim(in, core.Pos), false
	}

	if sim.Lookahead(core, in, a.ticks).FreezeIn < 0 {
		return in, false
	}
	target, ok := sim.HookTarget(core.Pos)
	if !ok {
		return in, false
	}
	a.target = target
	a.state = avoidRehook
	return released, true
}

func (a *freezeAvoider) aim(in physics.InputFrame, pos mgl32.Vec2) physics.InputFrame {
	d := a.target.Sub(pos)
	in.TargetX, in.TargetY = game.RoundToInt(d[0]), game.RoundToInt(d[1])
	in.Hook = true
	return in
}
