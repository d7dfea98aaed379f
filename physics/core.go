package physics

import (
	"encoding/binary"
	"math"

	"github.com/fujix-tas/fujix/game"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"
)

// HookState is the state of the grappling hook.
type HookState int8

const (
	HookRetracted HookState = iota - 1
	HookIdle
	HookFlying
	HookGrabbed
)

func (h HookState) String() string {
	switch h {
	case HookRetracted:
		return "retracted"
	case HookIdle:
		return "idle"
	case HookFlying:
		return "flying"
	case HookGrabbed:
		return "grabbed"
	}
	return "unknown"
}

// NoEntity is the HookedEntity value of a hook that holds no entity.
const NoEntity = -1

// CharacterCore is the complete physical state of one character. It is a plain value: copying it
// snapshots the character.
type CharacterCore struct {
	Tick int32

	Pos mgl32.Vec2
	Vel mgl32.Vec2

	HookState    HookState
	HookTick     int32
	HookPos      mgl32.Vec2
	HookDir      mgl32.Vec2
	HookedEntity int32

	Direction int32
	// Jumps is the jump allowance, -1 for unlimited.
	Jumps int32
	// JumpsLeft is refilled from Jumps whenever the character stands on the ground.
	JumpsLeft int32

	DeepFrozen bool
	LiveFrozen bool
	// FreezeEnd is the tick the freeze countdown ends at, 0 when there is none and -1 while deep
	// frozen.
	FreezeEnd int32

	ActiveWeapon int32

	// Input is the effective input of the last tick.
	Input InputFrame
}

// NewCore returns an idle core standing at pos.
func NewCore(pos mgl32.Vec2, tuning TuningParams) CharacterCore {
	return CharacterCore{
		Pos:          game.QuantizePos(pos),
		HookPos:      game.QuantizePos(pos),
		HookedEntity: NoEntity,
		Jumps:        tuning.DefaultJumps,
		JumpsLeft:    tuning.DefaultJumps,
	}
}

// Frozen reports whether any freeze is in effect.
func (c CharacterCore) Frozen() bool {
	return c.DeepFrozen || c.LiveFrozen || c.FreezeEnd != 0
}

// FreezeCountdown returns the ticks left on the freeze countdown, -1 while deep frozen and 0 when
// there is no countdown.
func (c CharacterCore) FreezeCountdown() int32 {
	switch {
	case c.DeepFrozen || c.FreezeEnd < 0:
		return -1
	case c.FreezeEnd > c.Tick:
		return c.FreezeEnd - c.Tick
	}
	return 0
}

// Quantize snaps the core onto its canonical grid: positions to whole units, velocity and hook
// direction to 1/256 units. Quantizing a quantized core does nothing.
func (c *CharacterCore) Quantize() {
	c.Pos = game.QuantizePos(c.Pos)
	c.Vel = game.QuantizeVel(c.Vel)
	c.HookPos = game.QuantizePos(c.HookPos)
	c.HookDir = game.QuantizeVel(c.HookDir)
}

// Finite reports whether none of the continuous fields are NaN or infinite.
func (c CharacterCore) Finite() bool {
	return game.IsFinite(c.Pos) && game.IsFinite(c.Vel) && game.IsFinite(c.HookPos) && game.IsFinite(c.HookDir)
}

// Checksum hashes the canonical encoding of the core. Two cores with the same checksum are
// bit-identical for every practical purpose.
func (c CharacterCore) Checksum() uint64 {
	var buf [96]byte
	b := buf[:0]
	u32 := func(v uint32) { b = binary.LittleEndian.AppendUint32(b, v) }
	i32 := func(v int32) { u32(uint32(v)) }
	vec := func(v mgl32.Vec2) { u32(math.Float32bits(v[0])); u32(math.Float32bits(v[1])) }
	flag := func(v bool) {
		if v {
			b = append(b, 1)
		} else {
			b = append(b, 0)
		}
	}

	i32(c.Tick)
	vec(c.Pos)
	vec(c.Vel)
	b = append(b, byte(c.HookState))
	i32(c.HookTick)
	vec(c.HookPos)
	vec(c.HookDir)
	i32(c.HookedEntity)
	i32(c.Direction)
	i32(c.Jumps)
	i32(c.JumpsLeft)
	flag(c.DeepFrozen)
	flag(c.LiveFrozen)
	i32(c.FreezeEnd)
	i32(c.ActiveWeapon)

	in := c.Input
	i32(in.Direction)
	i32(in.TargetX)
	i32(in.TargetY)
	i32(in.Jump)
	i32(in.Fire)
	flag(in.Hook)
	i32(in.WantedWeapon)
	return xxh3.Hash(b)
}
