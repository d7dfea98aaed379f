package physics

import (
	"github.com/fujix-tas/fujix/game"
	"github.com/go-gl/mathgl/mgl32"
)

// simulateHook runs the hook state machine for one tick and returns true if the hook grabbed onto a
// tile.
func (s *Simulator) simulateHook(c *CharacterCore, prev, in InputFrame) bool {
	t := s.Tuning
	if !in.Hook {
		if c.HookState == HookFlying || c.HookState == HookGrabbed {
			s.releaseHook(c, HookRetracted)
		}
	} else if c.HookState == HookIdle && HookPressed(prev, in) {
		dir := game.Normalize(in.Target())
		c.HookState = HookFlying
		c.HookPos = game.MulAdd(c.Pos, dir, game.PhysicalSize*game.HookSpawnFactor)
		c.HookDir = dir
		c.HookedEntity = NoEntity
		c.HookTick = 0
	}

	grabbed := false
	switch c.HookState {
	case HookIdle:
		c.HookedEntity = NoEntity
		c.HookPos = c.Pos
	case HookRetracted:
		c.HookTick++
		if c.HookTick >= t.HookRetractTicks {
			s.releaseHook(c, HookIdle)
		}
	case HookFlying:
		grabbed = s.flyHook(c)
	}

	if c.HookState == HookGrabbed {
		s.dragHook(c)
	}
	return grabbed
}

func (s *Simulator) flyHook(c *CharacterCore) bool {
	t := s.Tuning
	target := game.MulAdd(c.HookPos, c.HookDir, t.HookFireSpeed)
	retract := false
	if game.Distance(c.Pos, target) > t.HookLength {
		retract = true
		target = game.MulAdd(c.Pos, game.Normalize(target.Sub(c.Pos)), t.HookLength)
	}

	hit := s.World.IntersectLine(c.HookPos, target)
	switch {
	case hit.Collided() && hit.Kind.Hookable():
		c.HookState = HookGrabbed
		c.HookPos = hit.Pos
		c.HookTick = 0
		s.debugf("hook grabbed tile at %v on tick %d", hit.Pos, c.Tick)
		return true
	case hit.Collided():
		retract = true
		target = hit.Pos
	case !s.World.InBounds(target):
		// Leaving the map counts as a miss.
		retract = true
	}

	c.HookPos = target
	if retract {
		c.HookState = HookRetracted
		c.HookTick = 0
	}
	return false
}

// dragHook pulls the core towards a grabbed tile. A hook held longer than HookDuration ticks or
// stretched beyond HookLength is retracted.
func (s *Simulator) dragHook(c *CharacterCore) {
	t := s.Tuning
	if game.Distance(c.HookPos, c.Pos) > t.HookLength {
		s.debugf("hook overstretched on tick %d", c.Tick)
		s.releaseHook(c, HookRetracted)
		return
	}
	if c.HookedEntity == NoEntity && game.Distance(c.HookPos, c.Pos) > game.HookDragMinDistance {
		hookVel := game.Scale(game.Normalize(c.HookPos.Sub(c.Pos)), t.HookDragAccel)
		if hookVel[1] > 0 {
			hookVel[1] = float32(hookVel[1] * 0.3)
		}
		if (hookVel[0] < 0 && c.Direction < 0) || (hookVel[0] > 0 && c.Direction > 0) {
			hookVel[0] = float32(hookVel[0] * 0.95)
		} else {
			hookVel[0] = float32(hookVel[0] * 0.75)
		}

		newVel := c.Vel.Add(hookVel)
		if l := game.Length(newVel); l < t.HookDragSpeed || l < game.Length(c.Vel) {
			c.Vel = newVel
		}
	}

	c.HookTick++
	if c.HookTick > t.HookDuration {
		s.releaseHook(c, HookRetracted)
	}
}

func (s *Simulator) releaseHook(c *CharacterCore, state HookState) {
	c.HookState = state
	c.HookedEntity = NoEntity
	c.HookPos = c.Pos
	c.HookTick = 0
}

// resetHook drops whatever the hook is doing, as happens on teleport.
func (s *Simulator) resetHook(c *CharacterCore) {
	s.releaseHook(c, HookIdle)
	c.HookDir = mgl32.Vec2{}
}
