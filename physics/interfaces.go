package physics

import (
	"github.com/fujix-tas/fujix/world"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldProvider is the read-only collision surface a core is simulated against. *world.World
// implements it.
type WorldProvider interface {
	CheckPoint(pos mgl32.Vec2) bool
	TestBox(pos mgl32.Vec2, size float32) bool
	IntersectLine(from, to mgl32.Vec2) world.Hit
	InBounds(pos mgl32.Vec2) bool
	TileAt(pos mgl32.Vec2) world.Tile
	TeleOuts(group uint8) []mgl32.Vec2
}
