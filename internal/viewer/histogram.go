package viewer

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/teschty/binviz/internal/cloud"
)

var errNoPoints = errors.New("no points to plot")

// renderHistogram writes a PNG histogram of per-point duplicate counts.
func renderHistogram(w io.Writer, c *cloud.Cloud, bins int) error {
	if len(c.Points) == 0 {
		return errNoPoints
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Duplicate counts (%d unique points)", len(c.Points))
	p.X.Label.Text = "extra occurrences"
	p.Y.Label.Text = "points"

	h, err := plotter.NewHist(plotter.Values(c.DuplicateCounts()), bins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(h)

	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to create PNG writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write histogram: %w", err)
	}
	return nil
}
