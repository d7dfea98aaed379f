package physics

import (
	"github.com/fujix-tas/fujix/game"
	"github.com/go-gl/mathgl/mgl32"
)

// InputFrame is the player input applied during one tick. Jump and Fire are toggle counters: the low
// bit is the button state and every press or release increments the counter.
type InputFrame struct {
	Direction int32 `msgpack:"dir"`
	TargetX   int32 `msgpack:"tx"`
	TargetY   int32 `msgpack:"ty"`
	Jump      int32 `msgpack:"jump"`
	Fire      int32 `msgpack:"fire"`
	Hook      bool  `msgpack:"hook"`
	// WantedWeapon is the weapon to switch to plus one, or zero to keep the current one.
	WantedWeapon int32 `msgpack:"weapon"`
}

// JumpHeld reports whether the jump button is down.
func (in InputFrame) JumpHeld() bool {
	return in.Jump&1 != 0
}

// Active reports whether any control is engaged.
func (in InputFrame) Active() bool {
	return in.Direction != 0 || in.JumpHeld() || in.Fire&1 != 0 || in.Hook
}

// Target returns the aim vector, defaulting to straight up when it is zero.
func (in InputFrame) Target() mgl32.Vec2 {
	if in.TargetX == 0 && in.TargetY == 0 {
		return mgl32.Vec2{0, -1}
	}
	return mgl32.Vec2{float32(in.TargetX), float32(in.TargetY)}
}

func (in InputFrame) sanitize() InputFrame {
	switch {
	case in.Direction < 0:
		in.Direction = -1
	case in.Direction > 0:
		in.Direction = 1
	}
	return in
}

// withoutMovement strips the controls a frozen character cannot use. Aim, fire and weapon
// selection are kept.
func (in InputFrame) withoutMovement() InputFrame {
	in.Direction = 0
	in.Jump = 0
	in.Hook = false
	return in
}

// JumpPressed reports a jump edge: the low bit changed between the frames and the button is now down.
func JumpPressed(prev, cur InputFrame) bool {
	return (prev.Jump^cur.Jump)&1 != 0 && cur.JumpHeld()
}

// HookPressed reports a hook edge.
func HookPressed(prev, cur InputFrame) bool {
	return !prev.Hook && cur.Hook
}

// FirePresses counts the presses between two fire counters, wrapping at the input state mask.
func FirePresses(prev, cur int32) int {
	prev &= game.InputStateMask
	cur &= game.InputStateMask
	presses := 0
	for i := prev; i != cur; {
		i = (i + 1) & game.InputStateMask
		if i&1 != 0 {
			presses++
		}
	}
	return presses
}
