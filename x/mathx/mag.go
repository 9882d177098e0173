package mathx

import "math"

// Mag3 returns the Euclidean norm of a three-axis reading, in the same
// units as the inputs (milli-g for the accelerometer).
func Mag3(x, y, z int32) int {
	fx, fy, fz := float64(x), float64(y), float64(z)
	return int(math.Sqrt(fx*fx + fy*fy + fz*fz))
}
