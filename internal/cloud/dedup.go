package cloud

// Dedup folds an ascending key slice into one Point per distinct key. Equal
// adjacent keys increment the DuplicateCount of the point already emitted.
// The caller must sort keys first; unsorted input produces repeated points.
func Dedup(sorted []Key) []Point {
	points := make([]Point, 0, len(sorted))

	prev := int64(-1)
	for _, k := range sorted {
		if int64(k) == prev {
			points[len(points)-1].DuplicateCount++
			continue
		}
		points = append(points, Point{Key: k, Position: Project(k)})
		prev = int64(k)
	}
	return points
}
