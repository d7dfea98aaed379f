package physics

import (
	"github.com/fujix-tas/fujix/game"
	"github.com/fujix-tas/fujix/world"
	"github.com/go-gl/mathgl/mgl32"
)

// expireFreeze ends an elapsed freeze countdown, unless the core still stands in freeze, in which case
// the countdown starts over without a free tick in between.
func (s *Simulator) expireFreeze(c *CharacterCore) {
	if c.FreezeEnd <= 0 || c.Tick < c.FreezeEnd {
		return
	}
	tile := s.World.TileAt(c.Pos)
	if tile.Game == world.TileFreeze {
		c.FreezeEnd = c.Tick + s.freezeTicks(tile)
		s.debugf("freeze re-armed on tick %d until %d", c.Tick, c.FreezeEnd)
		return
	}
	c.FreezeEnd = 0
}

func (s *Simulator) freezeTicks(tile world.Tile) int32 {
	seconds := s.Tuning.FreezeSeconds
	if tile.Switch.Kind == world.SwitchFreeze && tile.Switch.Delay > 0 {
		seconds = int32(tile.Switch.Delay)
	}
	return seconds * game.TickRate
}

// handleTiles applies the side effects of the tile the core ended the tick on. Teleports resolve
// first; freeze and switch tiles are then read at the destination. from is the position the tick
// started at. It returns true if the core was teleported.
func (s *Simulator) handleTiles(c *CharacterCore, from mgl32.Vec2) bool {
	tile := s.World.TileAt(c.Pos)
	entered := s.World.TileAt(from).Game != tile.Game

	teleported := false
	if k := tile.Tele.Kind; k == world.TeleIn || k == world.TeleInEvil {
		if outs := s.World.TeleOuts(tile.Tele.Group); len(outs) > 0 {
			c.Pos = outs[0]
			if k == world.TeleInEvil {
				c.Vel = mgl32.Vec2{}
			}
			s.resetHook(c)
			s.debugf("teleported to %v through group %d on tick %d", c.Pos, tile.Tele.Group, c.Tick)
			tile = s.World.TileAt(c.Pos)
			teleported, entered = true, true
		}
	}

	switch tile.Game {
	case world.TileFreeze:
		// Standing in freeze lets the countdown run out and expireFreeze re-arm it.
		if !c.DeepFrozen && (entered || c.FreezeEnd == 0) {
			if end := c.Tick + s.freezeTicks(tile); end > c.FreezeEnd {
				c.FreezeEnd = end
			}
		}
	case world.TileDeepFreeze:
		c.DeepFrozen = true
		c.FreezeEnd = -1
	case world.TileLiveFreeze:
		c.LiveFrozen = true
	case world.TileUndeep:
		if c.DeepFrozen {
			c.DeepFrozen = false
			c.FreezeEnd = c.Tick + s.freezeTicks(tile)
		}
	case world.TileLiveUnfreeze:
		c.LiveFrozen = false
	case world.TileUnfreeze:
		if !c.DeepFrozen {
			c.FreezeEnd = 0
		}
	}

	switch tile.Switch.Kind {
	case world.SwitchJump:
		jumps := int32(tile.Switch.Delay)
		if tile.Switch.Delay == game.JumpSwitchUnlimited {
			jumps = -1
		}
		if jumps != c.Jumps {
			c.Jumps, c.JumpsLeft = jumps, jumps
		}
	case world.SwitchSpeedup:
		c.Vel = game.MulAdd(c.Vel, game.DirectionFromAngle(float32(tile.Switch.Angle)), float32(tile.Switch.Delay))
	}
	return teleported
}
