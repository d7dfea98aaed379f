package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/fujix-tas/fujix/game"
	"github.com/fujix-tas/fujix/oerror"
	"github.com/go-gl/mathgl/mgl32"
)

// World is the immutable tile grid of one map. It is built once through a Builder or ParseASCII
// and shared read-only by every character core simulated on the map.
type World struct {
	width, height int

	game     []TileKind
	tele     []TeleTile
	switches []SwitchTile

	teleOuts map[uint8][]mgl32.Vec2
	spawn    mgl32.Vec2
	hasSpawn bool

	bounds cube.BBox
}

func (w *World) Width() int {
	return w.width
}

func (w *World) Height() int {
	return w.height
}

// InBounds reports whether pos lies within the map.
func (w *World) InBounds(pos mgl32.Vec2) bool {
	min, max := w.bounds.Min(), w.bounds.Max()
	return pos[0] >= min[0] && pos[0] < max[0] && pos[1] >= min[1] && pos[1] < max[1]
}

// Index returns the tile index of the world position, or -1 if it lies outside the map. Positions
// are rounded to the nearest integer first.
func (w *World) Index(pos mgl32.Vec2) int {
	return w.indexOf(game.RoundToInt(pos[0]), game.RoundToInt(pos[1]))
}

func (w *World) indexOf(x, y int32) int {
	if x < 0 || y < 0 {
		return -1
	}
	tx, ty := int(x)/int(game.TileSize), int(y)/int(game.TileSize)
	if tx >= w.width || ty >= w.height {
		return -1
	}
	return ty*w.width + tx
}

// TileAt returns the tile at the world position. Anything outside the map is open air.
func (w *World) TileAt(pos mgl32.Vec2) Tile {
	idx := w.Index(pos)
	if idx < 0 {
		return Tile{}
	}
	return w.tileAt(idx)
}

// TileAtIndex returns the tile at the index, or an out of bounds error.
func (w *World) TileAtIndex(idx int) (Tile, error) {
	if idx < 0 || idx >= len(w.game) {
		return Tile{}, oerror.Newf(oerror.KindWorldQueryOutOfBounds, "tile index %d outside [0, %d)", idx, len(w.game))
	}
	return w.tileAt(idx), nil
}

func (w *World) tileAt(idx int) Tile {
	return Tile{Game: w.game[idx], Tele: w.tele[idx], Switch: w.switches[idx]}
}

// CheckPoint reports whether the world position is inside a solid tile.
func (w *World) CheckPoint(pos mgl32.Vec2) bool {
	idx := w.Index(pos)
	return idx >= 0 && w.game[idx].Solid()
}

// TestBox reports whether any corner of a square box of the given side centred on pos is solid.
func (w *World) TestBox(pos mgl32.Vec2, size float32) bool {
	half := size / 2
	box := cube.Box(-half, -half, 0, half, half, 0).Translate(mgl32.Vec3{pos[0], pos[1], 0})
	min, max := box.Min(), box.Max()
	return w.CheckPoint(mgl32.Vec2{min[0], min[1]}) ||
		w.CheckPoint(mgl32.Vec2{max[0], min[1]}) ||
		w.CheckPoint(mgl32.Vec2{min[0], max[1]}) ||
		w.CheckPoint(mgl32.Vec2{max[0], max[1]})
}

// IntersectLine walks the segment in unit steps and returns the first solid tile it meets.
func (w *World) IntersectLine(from, to mgl32.Vec2) Hit {
	end := int(game.Distance(from, to) + 1)
	last := from
	for i := 0; i <= end; i++ {
		p := game.Mix(from, to, float32(i)/float32(end))
		idx := w.Index(p)
		if idx >= 0 && w.game[idx].Solid() {
			return Hit{Kind: w.game[idx], Pos: p, Before: last}
		}
		last = p
	}
	return Hit{Kind: TileAir, Pos: to, Before: to}
}

// TeleOuts returns the out-points of a teleporter group in row-major tile order. The first one is
// the canonical destination.
func (w *World) TeleOuts(group uint8) []mgl32.Vec2 {
	return w.teleOuts[group]
}

// SpawnPoint returns the spawn position if the map declares one.
func (w *World) SpawnPoint() (mgl32.Vec2, bool) {
	return w.spawn, w.hasSpawn
}

// TileCenter returns the world position of the centre of the tile at column x, row y.
func TileCenter(x, y int) mgl32.Vec2 {
	return mgl32.Vec2{float32(x)*game.TileSize + game.TileSize/2, float32(y)*game.TileSize + game.TileSize/2}
}
