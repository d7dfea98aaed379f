package world

import "github.com/go-gl/mathgl/mgl32"

// TileKind is the game layer classification of a tile.
type TileKind uint8

const (
	TileAir TileKind = iota
	TileSolid
	TileNoHook
	TileFreeze
	TileDeepFreeze
	TileUndeep
	TileLiveFreeze
	TileLiveUnfreeze
	TileUnfreeze
)

// Solid reports whether the tile blocks movement.
func (k TileKind) Solid() bool {
	return k == TileSolid || k == TileNoHook
}

// Hookable reports whether a hook can grab onto the tile.
func (k TileKind) Hookable() bool {
	return k == TileSolid
}

func (k TileKind) String() string {
	switch k {
	case TileAir:
		return "air"
	case TileSolid:
		return "solid"
	case TileNoHook:
		return "nohook"
	case TileFreeze:
		return "freeze"
	case TileDeepFreeze:
		return "deep_freeze"
	case TileUndeep:
		return "undeep"
	case TileLiveFreeze:
		return "live_freeze"
	case TileLiveUnfreeze:
		return "live_unfreeze"
	case TileUnfreeze:
		return "unfreeze"
	}
	return "unknown"
}

type TeleKind uint8

const (
	TeleNone TeleKind = iota
	// TeleIn moves the character to the group's canonical out-point keeping its velocity.
	TeleIn
	// TeleInEvil moves the character like TeleIn and zeroes its velocity.
	TeleInEvil
	TeleOut
)

// TeleTile is a tile of the teleporter layer. Group links in-tiles to out-tiles.
type TeleTile struct {
	Kind  TeleKind
	Group uint8
}

type SwitchKind uint8

const (
	SwitchNone SwitchKind = iota
	// SwitchJump sets the jump allowance to Delay, or unlimited when Delay is 255.
	SwitchJump
	// SwitchFreeze overrides the freeze duration of a freeze tile at the same index with Delay seconds.
	SwitchFreeze
	// SwitchSpeedup pushes the character with force Delay along Angle.
	SwitchSpeedup
)

// SwitchTile is a tile of the switch layer carrying a delay parameter.
type SwitchTile struct {
	Kind   SwitchKind
	Number uint8
	Delay  uint8
	// Angle is in degrees and only used by speedups.
	Angle int16
}

// Tile is the resolved content of all layers at one index.
type Tile struct {
	Game   TileKind
	Tele   TeleTile
	Switch SwitchTile
}

// Hit is the outcome of a line intersection query.
type Hit struct {
	// Kind is TileAir when the line reached its end without hitting anything.
	Kind TileKind
	// Pos is the first colliding point, or the end of the line.
	Pos mgl32.Vec2
	// Before is the last free point before Pos.
	Before mgl32.Vec2
}

// Collided reports whether the line hit a solid tile.
func (h Hit) Collided() bool {
	return h.Kind.Solid()
}
