package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Arithmetic here is written so every product is rounded to float32 before it is added, by way of
// an explicit conversion. Go may otherwise contract x*y+z into a fused multiply-add on some
// architectures, which would make trajectories differ between machines.

// RoundToInt rounds half away from zero.
func RoundToInt(f float32) int32 {
	if f > 0 {
		return int32(f + 0.5)
	}
	return int32(f - 0.5)
}

// QuantizePos snaps a position onto the integer grid.
func QuantizePos(v mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{float32(RoundToInt(v[0])), float32(RoundToInt(v[1]))}
}

// QuantizeVel snaps a velocity onto the 1/256 grid.
func QuantizeVel(v mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		float32(RoundToInt(float32(v[0]*VelocityScale))) / VelocityScale,
		float32(RoundToInt(float32(v[1]*VelocityScale))) / VelocityScale,
	}
}

// SaturatedAdd adds modifier to current without crossing min or max. A value already past the bound
// in the direction of the modifier is left untouched.
func SaturatedAdd(min, max, current, modifier float32) float32 {
	if modifier < 0 {
		if current < min {
			return current
		}
		current += modifier
		if current < min {
			current = min
		}
		return current
	}
	if current > max {
		return current
	}
	current += modifier
	if current > max {
		current = max
	}
	return current
}

// VelocityRamp returns the factor horizontal movement is scaled by at the given speed (units per
// second). Below start it is 1, above it decays exponentially.
func VelocityRamp(value, start, rangeLen, curvature float32) float32 {
	if value < start {
		return 1
	}
	return 1 / math32.Pow(curvature, float32((value-start)/rangeLen))
}

// Length returns the euclidean length of v.
func Length(v mgl32.Vec2) float32 {
	return math32.Sqrt(float32(float32(v[0]*v[0]) + float32(v[1]*v[1])))
}

func Distance(a, b mgl32.Vec2) float32 {
	return Length(a.Sub(b))
}

// Normalize returns v scaled to unit length, or the zero vector if v has no length.
func Normalize(v mgl32.Vec2) mgl32.Vec2 {
	l := Length(v)
	if l == 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{v[0] / l, v[1] / l}
}

// Scale multiplies v by s.
func Scale(v mgl32.Vec2, s float32) mgl32.Vec2 {
	return mgl32.Vec2{float32(v[0] * s), float32(v[1] * s)}
}

// MulAdd returns a + b*s with the product rounded before the addition.
func MulAdd(a, b mgl32.Vec2, s float32) mgl32.Vec2 {
	return mgl32.Vec2{a[0] + float32(b[0]*s), a[1] + float32(b[1]*s)}
}

// Mix linearly interpolates between a and b.
func Mix(a, b mgl32.Vec2, amount float32) mgl32.Vec2 {
	return MulAdd(a, b.Sub(a), amount)
}

// DirectionFromAngle returns the unit vector for an angle in degrees, measured clockwise from +x in
// screen space.
func DirectionFromAngle(degrees float32) mgl32.Vec2 {
	rad := mgl32.DegToRad(degrees)
	return mgl32.Vec2{math32.Cos(rad), math32.Sin(rad)}
}

// IsFinite reports whether neither component of v is NaN or infinite.
func IsFinite(v mgl32.Vec2) bool {
	for _, f := range v {
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return false
		}
	}
	return true
}
