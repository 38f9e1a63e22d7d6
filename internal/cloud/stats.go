package cloud

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the duplicate distribution of a Cloud.
type Summary struct {
	RunID        string `json:"run_id"`
	Digest       string `json:"digest"`
	SizeBytes    int64  `json:"size_bytes"`
	Policy       string `json:"policy"`
	UniquePoints int    `json:"unique_points"`
	Triplets     int    `json:"triplets"`
	Consumed     int    `json:"consumed"`
	Duplicates   int    `json:"duplicates"`
	Dropped      int    `json:"dropped"`

	MaxDuplicates    float64 `json:"max_duplicates"`
	MeanDuplicates   float64 `json:"mean_duplicates"`
	StdDevDuplicates float64 `json:"stddev_duplicates"`
	P50Duplicates    float64 `json:"p50_duplicates"`
	P90Duplicates    float64 `json:"p90_duplicates"`
	P99Duplicates    float64 `json:"p99_duplicates"`
}

// DuplicateCounts returns the per-point duplicate counts in point order.
func (c *Cloud) DuplicateCounts() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = float64(p.DuplicateCount)
	}
	return out
}

// Summarize computes the duplicate statistics of c.
func Summarize(c *Cloud) Summary {
	s := Summary{
		RunID:        c.Source.RunID,
		Digest:       c.Source.Digest.String(),
		SizeBytes:    c.Source.Size,
		Policy:       c.Policy.String(),
		UniquePoints: len(c.Points),
		Triplets:     c.Triplets,
		Consumed:     c.Consumed(),
		Duplicates:   c.Duplicates,
		Dropped:      c.Dropped,
	}
	if len(c.Points) == 0 {
		return s
	}

	counts := c.DuplicateCounts()
	slices.Sort(counts)

	s.MaxDuplicates = floats.Max(counts)
	if len(counts) > 1 {
		s.MeanDuplicates, s.StdDevDuplicates = stat.MeanStdDev(counts, nil)
	} else {
		s.MeanDuplicates = counts[0]
	}
	s.P50Duplicates = stat.Quantile(0.5, stat.Empirical, counts, nil)
	s.P90Duplicates = stat.Quantile(0.9, stat.Empirical, counts, nil)
	s.P99Duplicates = stat.Quantile(0.99, stat.Empirical, counts, nil)
	return s
}
