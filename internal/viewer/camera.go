package viewer

import (
	"math"
	"net/url"
	"strconv"
)

const (
	minZoom = 0.1
	maxZoom = 10
)

// Camera is the view state for one rendered frame. It is a value: Update
// returns a new Camera and never mutates the receiver.
type Camera struct {
	Yaw   float64 // radians about Z, kept in [0, 2π)
	Pitch float64 // radians about X, kept in [-π/2, π/2]
	Zoom  float64
	PanX  float64
	PanY  float64
}

// Input is one batch of user interaction to fold into a Camera.
type Input struct {
	DYaw   float64 // radians
	DPitch float64 // radians
	// ZoomFactor multiplies the current zoom; zero means unchanged.
	ZoomFactor float64
	DPanX      float64
	DPanY      float64
}

// DefaultCamera looks at the unit ball head-on.
func DefaultCamera() Camera {
	return Camera{Zoom: 1}
}

// Update applies in and returns the resulting camera.
func (c Camera) Update(in Input) Camera {
	next := c

	next.Yaw = math.Mod(c.Yaw+in.DYaw, 2*math.Pi)
	if next.Yaw < 0 {
		next.Yaw += 2 * math.Pi
	}
	next.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+in.DPitch))

	if in.ZoomFactor > 0 {
		next.Zoom = math.Max(minZoom, math.Min(maxZoom, c.Zoom*in.ZoomFactor))
	}

	next.PanX = c.PanX + in.DPanX
	next.PanY = c.PanY + in.DPanY
	return next
}

// Apply transforms a point position into view space: rotate by yaw about Z,
// then by pitch about X, scale by zoom, then pan.
func (c Camera) Apply(p [3]float32) [3]float64 {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])

	sy, cy := math.Sincos(c.Yaw)
	x, y = x*cy-y*sy, x*sy+y*cy

	sp, cp := math.Sincos(c.Pitch)
	y, z = y*cp-z*sp, y*sp+z*cp

	return [3]float64{
		x*c.Zoom + c.PanX,
		y*c.Zoom + c.PanY,
		z * c.Zoom,
	}
}

// ParseInput reads yaw and pitch (degrees), zoom (factor), panx and pany
// from query parameters. Missing or malformed values are ignored.
func ParseInput(q url.Values) Input {
	f := func(key string) float64 {
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	}
	return Input{
		DYaw:       f("yaw") * math.Pi / 180,
		DPitch:     f("pitch") * math.Pi / 180,
		ZoomFactor: f("zoom"),
		DPanX:      f("panx"),
		DPanY:      f("pany"),
	}
}
