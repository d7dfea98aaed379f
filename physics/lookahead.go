package physics

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/fujix-tas/fujix/game"
	"github.com/fujix-tas/fujix/world"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// hookAimSteps is the number of evenly spaced directions HookTarget tries.
	hookAimSteps = 64
	// hookAimReach is the share of the hook length HookTarget aims at.
	hookAimReach = 0.95
	// marginStep is the distance between two samples of FreezeMargin.
	marginStep = 16
)

// Lookahead is the path of a core holding one input for a number of ticks.
type Lookahead struct {
	Path []CharacterCore
	// FreezeIn is the number of ticks until the core would freeze, or -1.
	FreezeIn int
}

// End returns the last core of the path, or false for an empty path.
func (l Lookahead) End() (CharacterCore, bool) {
	if len(l.Path) == 0 {
		return CharacterCore{}, false
	}
	return l.Path[len(l.Path)-1], true
}

// Lookahead simulates ticks ahead of core holding in. The core passed in is not modified.
func (s *Simulator) Lookahead(core CharacterCore, in InputFrame, ticks int) Lookahead {
	look := Lookahead{FreezeIn: -1}
	for i := 1; i <= ticks; i++ {
		var res Result
		core, res = s.Tick(core, in)
		look.Path = append(look.Path, core)
		if res.Froze && look.FreezeIn < 0 {
			look.FreezeIn = i
		}
	}
	return look
}

func freezing(k world.TileKind) bool {
	return k == world.TileFreeze || k == world.TileDeepFreeze || k == world.TileLiveFreeze
}

// FreezeMargin samples the segment from start to end and returns the smallest distance between a
// sample and a neighbouring freeze tile. It returns -1 if the segment is empty or crosses freeze.
// A segment far away from any freeze yields math.MaxFloat32.
func (s *Simulator) FreezeMargin(start, end mgl32.Vec2) float32 {
	length := game.Distance(start, end)
	if length <= 0 {
		return -1
	}
	dir := game.Normalize(end.Sub(start))
	margin := float32(math.MaxFloat32)
	for d := float32(0); d <= length; d += marginStep {
		pos := game.MulAdd(start, dir, d)
		if freezing(s.World.TileAt(pos).Game) {
			return -1
		}
		for ox := -1; ox <= 1; ox++ {
			for oy := -1; oy <= 1; oy++ {
				off := pos.Add(mgl32.Vec2{float32(ox) * game.TileSize, float32(oy) * game.TileSize})
				if !freezing(s.World.TileAt(off).Game) {
					continue
				}
				center := world.TileCenter(int(off[0]/game.TileSize), int(off[1]/game.TileSize))
				margin = min(margin, game.Distance(pos, center))
			}
		}
	}
	return margin
}

// HookTarget looks for the hookable point within reach of from whose rope path stays farthest from
// freeze. It returns false if no direction reaches a hookable tile without crossing freeze.
func (s *Simulator) HookTarget(from mgl32.Vec2) (mgl32.Vec2, bool) {
	reach := s.Tuning.HookLength * hookAimReach
	best, bestMargin := from, float32(-1)
	for i := 0; i < hookAimSteps; i++ {
		angle := 2 * math32.Pi * float32(i) / hookAimSteps
		to := game.MulAdd(from, mgl32.Vec2{math32.Cos(angle), math32.Sin(angle)}, reach)
		hit := s.World.IntersectLine(from, to)
		if !hit.Kind.Hookable() {
			continue
		}
		if m := s.FreezeMargin(from, hit.Pos); m > bestMargin {
			best, bestMargin = hit.Pos, m
		}
	}
	return best, bestMargin > 0
}
