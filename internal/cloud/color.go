package cloud

// Colorize assigns every point a colour from its index in the slice and its
// duplicate count:
//
//	countNorm = dup / 10
//	frac      = i / N
//	colour    = (frac, 1 - countNorm, 1 - countNorm*frac)
//
// Components are not clamped and leave [0,1] once a point has more than ten
// duplicates. Renderers clamp at their own boundary.
func Colorize(points []Point) {
	n := float32(len(points))
	for i := range points {
		countNorm := float32(points[i].DuplicateCount) / 10.0
		frac := float32(i) / n
		points[i].Color = [3]float32{frac, 1 - countNorm, 1 - countNorm*frac}
		points[i].HasColor = true
	}
}
