package viewer

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/teschty/binviz/internal/cloud"
)

// defaultPointColor is used for points the colourizer never touched.
const defaultPointColor = "rgb(255,255,255)"

// clamp01 limits a colour channel to the displayable range. Point colours
// are stored unclamped; this is the only place they get clamped.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func cssColor(p cloud.Point) string {
	if !p.HasColor {
		return defaultPointColor
	}
	return fmt.Sprintf("rgb(%d,%d,%d)",
		int(math.Round(float64(clamp01(p.Color[0])*255))),
		int(math.Round(float64(clamp01(p.Color[1])*255))),
		int(math.Round(float64(clamp01(p.Color[2])*255))),
	)
}

// stride returns the sampling step that keeps at most maxPoints of n.
func stride(n, maxPoints int) int {
	if maxPoints <= 0 || n <= maxPoints {
		return 1
	}
	return int(math.Ceil(float64(n) / float64(maxPoints)))
}

// scatterFrame is what one request renders.
type scatterFrame struct {
	Title     string
	Subtitle  string
	Width     string
	Height    string
	Theme     string
	Rotate    bool
	MaxPoints int
	Camera    Camera
}

// renderScatter writes an HTML page with the points of c as a 3D scatter,
// transformed by the frame's camera and downsampled by stride.
func renderScatter(w io.Writer, c *cloud.Cloud, f scatterFrame) (shown int, err error) {
	step := stride(len(c.Points), f.MaxPoints)

	data := make([]opts.Chart3DData, 0, len(c.Points)/step+1)
	extent := 0.0
	for i := 0; i < len(c.Points); i += step {
		p := c.Points[i]
		v := f.Camera.Apply(p.Position)
		for _, comp := range v {
			extent = math.Max(extent, math.Abs(comp))
		}
		b0, b1, b2 := p.Key.Bytes()
		data = append(data, opts.Chart3DData{
			Name:      fmt.Sprintf("%02x %02x %02x", b0, b1, b2),
			Value:     []interface{}{v[0], v[1], v[2], p.DuplicateCount},
			ItemStyle: &opts.ItemStyle{Color: cssColor(p)},
		})
	}

	// Symmetric, padded axes keep the cloud centred and undistorted.
	pad := extent * 1.05
	if pad == 0 {
		pad = 1
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: f.Title,
			Theme:     f.Theme,
			Width:     f.Width,
			Height:    f.Height,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    f.Title,
			Subtitle: fmt.Sprintf("%s points=%d stride=%d", f.Subtitle, len(data), step),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X", Min: -pad, Max: pad}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y", Min: -pad, Max: pad}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z", Min: -pad, Max: pad}),
		charts.WithGrid3DOpts(opts.Grid3D{
			ViewControl: &opts.ViewControl{AutoRotate: opts.Bool(f.Rotate)},
		}),
	)
	scatter.AddSeries("points", data)

	if err := scatter.Render(w); err != nil {
		return 0, fmt.Errorf("failed to render scatter: %w", err)
	}
	return len(data), nil
}
