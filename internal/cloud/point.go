package cloud

import (
	"github.com/opencontainers/go-digest"
)

// Point is one unique triplet placed in space.
type Point struct {
	Key      Key
	Position [3]float32
	Color    [3]float32
	// HasColor is false until Colorize has run over the owning slice.
	HasColor bool
	// DuplicateCount is the number of occurrences beyond the first.
	DuplicateCount uint32
}

// Source describes the input a Cloud was built from.
type Source struct {
	Path   string
	Size   int64
	Digest digest.Digest
	RunID  string
}

// Cloud is the immutable result of one pipeline run.
type Cloud struct {
	Source Source
	Policy TruncationPolicy

	// Points are ordered by strictly ascending Key.
	Points []Point

	// Triplets is the number of full triplets in the input, before the
	// truncation policy is applied.
	Triplets int
	// Dropped is the number of triplets removed by the truncation policy.
	Dropped int
	// Duplicates is the sum of DuplicateCount over Points.
	Duplicates int
}

// Consumed returns how many triplets were folded into Points.
func (c *Cloud) Consumed() int {
	return c.Triplets - c.Dropped
}
