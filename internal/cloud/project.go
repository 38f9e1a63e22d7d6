package cloud

import "math"

const twoPi = float32(2 * math.Pi)

// Project maps a key to a position. The first byte is a polar angle
// fraction, the second an azimuth fraction and the third the radius, each
// normalised by 255. Both angles span a full turn, so the result is not a
// conventional spherical mapping; it must stay exactly as written because
// positions are compared between runs.
func Project(k Key) [3]float32 {
	b0, b1, b2 := k.Bytes()
	x := float32(b0) / 255
	y := float32(b1) / 255
	z := float32(b2) / 255

	rotX := x * twoPi
	rotY := y * twoPi
	radius := z

	sinX := sin32(rotX)
	return [3]float32{
		radius * sinX * cos32(rotY),
		radius * sinX * sin32(rotY),
		radius * cos32(rotX),
	}
}

func sin32(v float32) float32 { return float32(math.Sin(float64(v))) }
func cos32(v float32) float32 { return float32(math.Cos(float64(v))) }
