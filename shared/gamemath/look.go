package gamemath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Yaw 0 looks down -Z; positive yaw turns left (counter-clockwise seen from above).

// Forward returns the horizontal facing vector for a yaw angle.
func Forward(yaw float64) r3.Vec {
	return r3.Vec{X: -math.Sin(yaw), Z: -math.Cos(yaw)}
}

// Right returns the horizontal strafe vector for a yaw angle.
func Right(yaw float64) r3.Vec {
	return r3.Vec{X: math.Cos(yaw), Z: -math.Sin(yaw)}
}

// LookDirection returns the unit view vector for yaw and pitch.
func LookDirection(yaw, pitch float64) r3.Vec {
	cp := math.Cos(pitch)
	return r3.Vec{
		X: -math.Sin(yaw) * cp,
		Y: math.Sin(pitch),
		Z: -math.Cos(yaw) * cp,
	}
}

// RotateAbout rotates v by angle radians around axis.
func RotateAbout(v, axis r3.Vec, angle float64) r3.Vec {
	if angle == 0 {
		return v
	}
	return r3.NewRotation(angle, axis).Rotate(v)
}

// FanDirections spreads count rays across arc radians, centred on dir and
// rotated about the world up axis. Count must be odd so the middle ray is dir.
func FanDirections(dir r3.Vec, arc float64, count int) []r3.Vec {
	if count <= 1 || arc == 0 {
		return []r3.Vec{dir}
	}
	out := make([]r3.Vec, count)
	half := count / 2
	stepAngle := arc / float64(count-1)
	for i := 0; i < count; i++ {
		out[i] = RotateAbout(dir, Up, float64(i-half)*stepAngle)
	}
	return out
}

// AlignUp returns the rotation taking the +Y axis onto n, followed by a spin
// of angle radians about n. Decal quads lie in the XZ plane before rotation.
func AlignUp(n r3.Vec, spin float64) r3.Rotation {
	n = SafeUnit(n, Up)
	var align r3.Rotation
	switch d := r3.Dot(Up, n); {
	case d > 1-1e-9:
		align = r3.Rotation{Real: 1}
	case d < -1+1e-9:
		align = r3.NewRotation(math.Pi, r3.Vec{X: 1})
	default:
		align = r3.NewRotation(math.Acos(d), r3.Cross(Up, n))
	}
	if spin == 0 {
		return align
	}
	return r3.Rotation(quat.Mul(quat.Number(r3.NewRotation(spin, n)), quat.Number(align)))
}
