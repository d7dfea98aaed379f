package world

import (
	"errors"
	"testing"

	"github.com/fujix-tas/fujix/oerror"
	"github.com/go-gl/mathgl/mgl32"
)

func TestParseASCII(t *testing.T) {
	w, err := ParseASCII("" +
		"#####\n" +
		"#S.F#\n" +
		"#####\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Width() != 5 || w.Height() != 3 {
		t.Fatalf("expected 5x3 world, got %dx%d", w.Width(), w.Height())
	}
	spawn, ok := w.SpawnPoint()
	if !ok || spawn != (mgl32.Vec2{48, 48}) {
		t.Fatalf("expected spawn at (48, 48), got %v %v", spawn, ok)
	}
	if got := w.TileAt(TileCenter(3, 1)).Game; got != TileFreeze {
		t.Fatalf("expected freeze tile, got %v", got)
	}
	if !w.CheckPoint(mgl32.Vec2{10, 10}) {
		t.Fatalf("expected corner tile to be solid")
	}

	if _, err := ParseASCII("#?#"); err == nil {
		t.Fatalf("expected error for unknown character")
	}
}

func TestOutOfBoundsIsOpen(t *testing.T) {
	w := NewBuilder(2, 2).FillRect(0, 0, 1, 1, TileSolid).Build()

	for _, p := range []mgl32.Vec2{{-5, 10}, {10, -5}, {64, 10}, {10, 1000}} {
		if w.CheckPoint(p) {
			t.Fatalf("expected %v outside the map to be open", p)
		}
		if w.TileAt(p) != (Tile{}) {
			t.Fatalf("expected empty tile outside the map at %v", p)
		}
	}
	if w.InBounds(mgl32.Vec2{64, 0}) || !w.InBounds(mgl32.Vec2{63, 63}) {
		t.Fatalf("unexpected bounds check result")
	}

	_, err := w.TileAtIndex(4)
	if !errors.Is(err, oerror.ErrWorldQueryOutOfBounds) {
		t.Fatalf("expected out of bounds error, got %v", err)
	}
}

func TestCheckPointRounds(t *testing.T) {
	w := NewBuilder(3, 3).SetTile(1, 1, TileSolid).Build()
	// 31.5 rounds up onto the first column of the solid tile.
	if !w.CheckPoint(mgl32.Vec2{31.5, 40}) {
		t.Fatalf("expected 31.5 to round into the solid tile")
	}
	if w.CheckPoint(mgl32.Vec2{31.4, 40}) {
		t.Fatalf("expected 31.4 to stay in the open tile")
	}
}

func TestTestBox(t *testing.T) {
	w := NewBuilder(4, 4).SetTile(2, 1, TileSolid).Build()
	if w.TestBox(mgl32.Vec2{48, 48}, 28) {
		t.Fatalf("box inside an open tile should not collide")
	}
	if !w.TestBox(mgl32.Vec2{52, 48}, 28) {
		t.Fatalf("box whose right edge reaches x=66 should collide")
	}
}

func TestIntersectLine(t *testing.T) {
	w := NewBuilder(10, 3).SetTile(5, 1, TileNoHook).Build()

	hit := w.IntersectLine(TileCenter(1, 1), TileCenter(8, 1))
	if !hit.Collided() || hit.Kind != TileNoHook {
		t.Fatalf("expected a nohook hit, got %+v", hit)
	}
	if hit.Pos[0] < 159.5 || hit.Before[0] >= hit.Pos[0] {
		t.Fatalf("unexpected hit geometry %+v", hit)
	}

	miss := w.IntersectLine(TileCenter(1, 0), TileCenter(8, 0))
	if miss.Collided() || miss.Pos != TileCenter(8, 0) {
		t.Fatalf("expected a miss ending at the target, got %+v", miss)
	}
}

func TestTeleOutsOrder(t *testing.T) {
	w := NewBuilder(4, 4).
		SetTele(3, 3, TeleTile{Kind: TeleOut, Group: 2}).
		SetTele(1, 0, TeleTile{Kind: TeleOut, Group: 2}).
		SetTele(0, 2, TeleTile{Kind: TeleOut, Group: 2}).
		SetTele(2, 2, TeleTile{Kind: TeleIn, Group: 2}).
		Build()

	outs := w.TeleOuts(2)
	if len(outs) != 3 {
		t.Fatalf("expected 3 out points, got %d", len(outs))
	}
	if outs[0] != TileCenter(1, 0) || outs[1] != TileCenter(0, 2) || outs[2] != TileCenter(3, 3) {
		t.Fatalf("out points not in row-major order: %v", outs)
	}
	if len(w.TeleOuts(7)) != 0 {
		t.Fatalf("expected no out points for an unused group")
	}
}
