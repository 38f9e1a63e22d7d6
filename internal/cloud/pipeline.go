package cloud

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teschty/binviz/internal/fsutil"
	"github.com/teschty/binviz/internal/monitoring"
)

// Options controls a pipeline run.
type Options struct {
	Policy TruncationPolicy
	// SkipColor leaves Point.Color unset and HasColor false.
	SkipColor bool
}

// DefaultOptions returns the options used by the CLI when no flags are set.
func DefaultOptions() Options {
	return Options{Policy: KeepAll}
}

// Build runs pack, sort, dedup, project and colour over raw. It never fails;
// malformed input simply yields fewer triplets.
func Build(raw []byte, opts Options) *Cloud {
	keys, dropped := Pack(raw, opts.Policy)
	SortKeys(keys)
	points := Dedup(keys)
	if !opts.SkipColor {
		Colorize(points)
	}

	c := &Cloud{
		Policy:   opts.Policy,
		Points:   points,
		Triplets: len(raw) / TripletSize,
		Dropped:  dropped,
	}
	c.Duplicates = len(keys) - len(points)
	return c
}

// LoadFile loads path and builds its Cloud. Each call is tagged with a fresh
// run ID.
func LoadFile(fsys fsutil.FileSystem, path string, opts Options) (*Cloud, error) {
	runID := uuid.NewString()
	logf := monitoring.RunLogf(runID)

	start := time.Now()
	raw, src, err := Load(fsys, path)
	if err != nil {
		return nil, err
	}
	src.RunID = runID
	logf("loaded %s: %d bytes, %s", path, src.Size, src.Digest)

	c := Build(raw, opts)
	c.Source = src
	if err := c.check(); err != nil {
		return nil, fmt.Errorf("pipeline invariant violated for %q: %w", path, err)
	}

	logf("built %d unique points from %d triplets (%d duplicates, %d dropped by %s) in %v",
		len(c.Points), c.Triplets, c.Duplicates, c.Dropped, c.Policy, time.Since(start))
	return c, nil
}

// check verifies the counting and ordering invariants of a built cloud.
func (c *Cloud) check() error {
	total := 0
	for i, p := range c.Points {
		total += 1 + int(p.DuplicateCount)
		if i > 0 && c.Points[i-1].Key >= p.Key {
			return fmt.Errorf("points out of order at index %d", i)
		}
	}
	if total != c.Consumed() {
		return fmt.Errorf("points account for %d triplets, consumed %d", total, c.Consumed())
	}
	return nil
}
