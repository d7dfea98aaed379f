package physics

import (
	"github.com/chewxy/math32"
	"github.com/fujix-tas/fujix/game"
	"github.com/go-gl/mathgl/mgl32"
)

// MoveBox sweeps a square box of the given side from pos along vel in steps no longer than one unit.
// When a step is blocked the vertical axis is tested first and then the horizontal one; each
// blocked axis keeps its last free coordinate and has its velocity reflected by elasticity. If
// neither axis alone is blocked both are.
func MoveBox(w WorldProvider, pos, vel mgl32.Vec2, size, elasticity float32) (mgl32.Vec2, mgl32.Vec2) {
	distance := game.Length(vel)
	if !(distance > 0.00001) || math32.IsInf(distance, 0) {
		return pos, vel
	}

	steps := int(distance)
	fraction := 1 / float32(steps+1)
	for i := 0; i <= steps; i++ {
		next := game.MulAdd(pos, vel, fraction)
		if w.TestBox(next, size) {
			hits := 0
			if w.TestBox(mgl32.Vec2{pos[0], next[1]}, size) {
				next[1] = pos[1]
				vel[1] = float32(vel[1] * -elasticity)
				hits++
			}
			if w.TestBox(mgl32.Vec2{next[0], pos[1]}, size) {
				next[0] = pos[0]
				vel[0] = float32(vel[0] * -elasticity)
				hits++
			}
			if hits == 0 {
				next = pos
				vel = mgl32.Vec2{float32(vel[0] * -elasticity), float32(vel[1] * -elasticity)}
			}
		}
		pos = next
	}
	return pos, vel
}
