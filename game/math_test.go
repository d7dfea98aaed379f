package game

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestRoundToInt(t *testing.T) {
	cases := []struct {
		in   float32
		want int32
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{1.5, 2},
		{-0.5, -1},
		{-1.49, -1},
		{-2.5, -3},
		{336.5, 337},
	}
	for _, c := range cases {
		if got := RoundToInt(c.in); got != c.want {
			t.Fatalf("RoundToInt(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestQuantizeIsIdempotent(t *testing.T) {
	vecs := []mgl32.Vec2{
		{336.4, -12.6},
		{0.12345, 9.87654},
		{-1000.5, 1000.5},
		{1.0 / 3.0, -2.0 / 3.0},
	}
	for _, v := range vecs {
		p := QuantizePos(v)
		if QuantizePos(p) != p {
			t.Fatalf("position quantization of %v is not idempotent: %v -> %v", v, p, QuantizePos(p))
		}
		q := QuantizeVel(v)
		if QuantizeVel(q) != q {
			t.Fatalf("velocity quantization of %v is not idempotent: %v -> %v", v, q, QuantizeVel(q))
		}
	}
	if got := QuantizeVel(mgl32.Vec2{0.5, -0.25}); got != (mgl32.Vec2{0.5, -0.25}) {
		t.Fatalf("velocity already on the grid changed: %v", got)
	}
}

func TestSaturatedAdd(t *testing.T) {
	if got := SaturatedAdd(-10, 10, 9, 2); got != 10 {
		t.Fatalf("expected clamp to 10, got %v", got)
	}
	if got := SaturatedAdd(-10, 10, 15, 2); got != 15 {
		t.Fatalf("expected value past max to stay at 15, got %v", got)
	}
	if got := SaturatedAdd(-10, 10, -9, -2); got != -10 {
		t.Fatalf("expected clamp to -10, got %v", got)
	}
	if got := SaturatedAdd(-10, 10, 15, -2); got != 13 {
		t.Fatalf("expected braking to 13, got %v", got)
	}
}

func TestVelocityRamp(t *testing.T) {
	if got := VelocityRamp(500, 550, 2000, 1.4); got != 1 {
		t.Fatalf("expected no ramp under start, got %v", got)
	}
	got := VelocityRamp(2550, 550, 2000, 1.4)
	if !approxEq(got, 1/1.4) {
		t.Fatalf("expected 1/1.4 one range past start, got %v", got)
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := Normalize(mgl32.Vec2{}); got != (mgl32.Vec2{}) {
		t.Fatalf("expected zero vector, got %v", got)
	}
	n := Normalize(mgl32.Vec2{3, 4})
	if !approxEq(n[0], 0.6) || !approxEq(n[1], 0.8) {
		t.Fatalf("unexpected normal %v", n)
	}
	if IsFinite(mgl32.Vec2{math32.NaN(), 0}) || IsFinite(mgl32.Vec2{0, math32.Inf(1)}) {
		t.Fatalf("non-finite vectors reported finite")
	}
}

func approxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}
