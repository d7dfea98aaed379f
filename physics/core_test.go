package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestChecksumTracksState(t *testing.T) {
	a := NewCore(mgl32.Vec2{100, 200}, DefaultTuning())
	b := a
	if a.Checksum() != b.Checksum() {
		t.Fatalf("identical cores must hash identically")
	}

	b.Vel[0] = 1.0 / 256
	if a.Checksum() == b.Checksum() {
		t.Fatalf("a velocity change must change the checksum")
	}

	b = a
	b.Input.Hook = true
	if a.Checksum() == b.Checksum() {
		t.Fatalf("an input change must change the checksum")
	}
}

func TestFreezeCountdown(t *testing.T) {
	c := CharacterCore{Tick: 10}
	if c.Frozen() || c.FreezeCountdown() != 0 {
		t.Fatalf("expected an unfrozen core")
	}
	c.FreezeEnd = 25
	if !c.Frozen() || c.FreezeCountdown() != 15 {
		t.Fatalf("expected 15 ticks left, got %d", c.FreezeCountdown())
	}
	c.DeepFrozen, c.FreezeEnd = true, -1
	if c.FreezeCountdown() != -1 {
		t.Fatalf("expected an indefinite countdown while deep frozen")
	}
}

func TestNewCoreIsQuantized(t *testing.T) {
	c := NewCore(mgl32.Vec2{10.4, 20.6}, DefaultTuning())
	if c.Pos != (mgl32.Vec2{10, 21}) {
		t.Fatalf("expected the spawn position to be snapped, got %v", c.Pos)
	}
	if c.HookedEntity != NoEntity || c.Jumps != 2 || c.JumpsLeft != 2 {
		t.Fatalf("unexpected defaults %+v", c)
	}
}
