package physics

import (
	"github.com/fujix-tas/fujix/game"
	"github.com/go-gl/mathgl/mgl32"
)

// Tick advances core by one tick using input and returns the new core.
func (s *Simulator) Tick(core CharacterCore, input InputFrame) (CharacterCore, Result) {
	next := core
	next.Tick++

	var res Result
	s.expireFreeze(&next)

	effective := input.sanitize()
	if next.Frozen() {
		effective = effective.withoutMovement()
	}
	res.FirePresses = FirePresses(core.Input.Fire, effective.Fire)
	if effective.WantedWeapon != 0 {
		next.ActiveWeapon = effective.WantedWeapon - 1
	}

	res.Grounded = s.grounded(next.Pos)
	s.applyControl(&next, effective, res.Grounded)
	res.HookHit = s.simulateHook(&next, core.Input, effective)
	s.attemptJump(&next, core.Input, effective, res.Grounded)

	s.move(&next)
	if s.handleTiles(&next, core.Pos) {
		res.Outcome = OutcomeTeleported
	}

	if next.Frozen() {
		effective = effective.withoutMovement()
		next.Direction = 0
	}
	next.Input = effective

	if !next.Finite() {
		s.debugf("tick %d produced non-finite state pos=%v vel=%v, dropping it", next.Tick, next.Pos, next.Vel)
		return core, Result{Outcome: OutcomeNonFinite}
	}
	next.Quantize()

	res.Froze = !core.Frozen() && next.Frozen()
	res.Unfroze = core.Frozen() && !next.Frozen()
	return next, res
}

func (s *Simulator) grounded(pos mgl32.Vec2) bool {
	y := pos[1] + game.HalfPhysicalSize + game.GroundCheckDepth
	return s.World.CheckPoint(mgl32.Vec2{pos[0] + game.HalfPhysicalSize, y}) ||
		s.World.CheckPoint(mgl32.Vec2{pos[0] - game.HalfPhysicalSize, y})
}

// applyControl applies gravity and horizontal control.
func (s *Simulator) applyControl(c *CharacterCore, in InputFrame, grounded bool) {
	t := s.Tuning
	c.Vel[1] += t.Gravity

	maxSpeed, accel, friction := t.AirControlSpeed, t.AirControlAccel, t.AirFriction
	if grounded {
		maxSpeed, accel, friction = t.GroundControlSpeed, t.GroundControlAccel, t.GroundFriction
	}

	c.Direction = in.Direction
	switch {
	case c.Direction < 0:
		c.Vel[0] = game.SaturatedAdd(-maxSpeed, maxSpeed, c.Vel[0], -accel)
	case c.Direction > 0:
		c.Vel[0] = game.SaturatedAdd(-maxSpeed, maxSpeed, c.Vel[0], accel)
	default:
		c.Vel[0] = float32(c.Vel[0] * friction)
	}

	if grounded {
		c.JumpsLeft = c.Jumps
	}
}

// attemptJump performs a ground or air jump on a jump edge if the jump allowance permits it.
func (s *Simulator) attemptJump(c *CharacterCore, prev, in InputFrame, grounded bool) {
	if !JumpPressed(prev, in) {
		return
	}
	if !grounded && c.Jumps > 0 && c.JumpsLeft == c.Jumps {
		// Walking off a ledge forfeits the ground jump.
		c.JumpsLeft--
	}
	if c.JumpsLeft == 0 {
		return
	}

	if grounded {
		c.Vel[1] = -s.Tuning.GroundJumpImpulse
	} else {
		c.Vel[1] = -s.Tuning.AirJumpImpulse
	}
	if c.JumpsLeft > 0 {
		c.JumpsLeft--
	}
}

// move clamps the velocity and sweeps the body through the world. Horizontal velocity is scaled by
// the velocity ramp for the sweep only.
func (s *Simulator) move(c *CharacterCore) {
	t := s.Tuning
	if game.Length(c.Vel) > t.MaxVelocity {
		c.Vel = game.Scale(game.Normalize(c.Vel), t.MaxVelocity)
	}

	ramp := game.VelocityRamp(float32(game.Length(c.Vel)*game.TickRate), t.VelrampStart, t.VelrampRange, t.VelrampCurvature)
	c.Vel[0] = float32(c.Vel[0] * ramp)
	c.Pos, c.Vel = MoveBox(s.World, c.Pos, c.Vel, game.PhysicalSize, 0)
	c.Vel[0] = float32(c.Vel[0] * (1 / ramp))
}
