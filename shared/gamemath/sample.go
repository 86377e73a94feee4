package gamemath

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// TangentBasis returns two unit vectors perpendicular to n and to each other.
func TangentBasis(n r3.Vec) (t, b r3.Vec) {
	ref := Up
	if math.Abs(n.Y) > 0.99 {
		ref = r3.Vec{X: 1}
	}
	t = r3.Unit(r3.Cross(ref, n))
	b = r3.Cross(n, t)
	return t, b
}

// UnitSphere samples a uniformly distributed unit vector.
func UnitSphere(rng *rand.Rand) r3.Vec {
	z := rng.Float64()*2 - 1
	phi := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return r3.Vec{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
}

// Hemisphere samples a unit vector on the side of n, pulled towards n by
// bias in [0, 1]. Bias 0 is uniform over the hemisphere.
func Hemisphere(rng *rand.Rand, n r3.Vec, bias float64) r3.Vec {
	d := UnitSphere(rng)
	if r3.Dot(d, n) < 0 {
		d = r3.Scale(-1, d)
	}
	bias = Clamp(bias, 0, 1)
	return SafeUnit(r3.Add(r3.Scale(bias, n), r3.Scale(1-bias, d)), n)
}

// Cone deviates dir by a random angle of at most halfAngle radians.
func Cone(rng *rand.Rand, dir r3.Vec, halfAngle float64) r3.Vec {
	if halfAngle <= 0 {
		return dir
	}
	theta := halfAngle * math.Sqrt(rng.Float64())
	phi := rng.Float64() * 2 * math.Pi
	t, b := TangentBasis(dir)
	side := r3.Add(r3.Scale(math.Cos(phi), t), r3.Scale(math.Sin(phi), b))
	return r3.Unit(r3.Add(r3.Scale(math.Cos(theta), dir), r3.Scale(math.Sin(theta), side)))
}

// Between returns a uniform value in [lo, hi].
func Between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
