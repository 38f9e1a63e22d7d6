package viewer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teschty/binviz/internal/cloud"
	"github.com/teschty/binviz/internal/testutil"
)

func TestClamp01(t *testing.T) {
	assert.Equal(t, float32(0), clamp01(-0.3))
	assert.Equal(t, float32(0.5), clamp01(0.5))
	assert.Equal(t, float32(1), clamp01(1.4))
}

func TestCSSColor(t *testing.T) {
	assert.Equal(t, defaultPointColor, cssColor(cloud.Point{}))

	p := cloud.Point{Color: [3]float32{-0.2, 0.5, 1.7}, HasColor: true}
	assert.Equal(t, "rgb(0,128,255)", cssColor(p))
}

func TestStride(t *testing.T) {
	tests := []struct {
		n, max, want int
	}{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 10, 10},
		{101, 10, 11},
		{5, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stride(tt.n, tt.max), "stride(%d, %d)", tt.n, tt.max)
	}
}

func TestRenderScatter(t *testing.T) {
	raw := testutil.Triplets([3]byte{0x0a, 0x0b, 0x0c}, [3]byte{0xff, 0, 0x10}, [3]byte{0x0a, 0x0b, 0x0c})
	c := cloud.Build(raw, cloud.DefaultOptions())

	var buf bytes.Buffer
	shown, err := renderScatter(&buf, c, scatterFrame{
		Title:     "binviz: test.bin",
		Theme:     "dark",
		MaxPoints: 100,
		Camera:    DefaultCamera(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, shown)

	html := buf.String()
	assert.Contains(t, html, "binviz: test.bin")
	assert.Contains(t, html, "0a 0b 0c")
	assert.Contains(t, html, "ff 00 10")
	assert.Contains(t, html, "scatter3D")
}

func TestRenderScatter_Downsamples(t *testing.T) {
	var ts [][3]byte
	for i := 0; i < 300; i++ {
		ts = append(ts, [3]byte{byte(i >> 8), byte(i), 0})
	}
	c := cloud.Build(testutil.Triplets(ts...), cloud.Options{SkipColor: true})
	require.Len(t, c.Points, 300)

	var buf bytes.Buffer
	shown, err := renderScatter(&buf, c, scatterFrame{MaxPoints: 100, Camera: DefaultCamera()})
	require.NoError(t, err)
	assert.Equal(t, 100, shown)
	assert.Contains(t, buf.String(), "stride=3")
}

func TestRenderScatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	shown, err := renderScatter(&buf, cloud.Build(nil, cloud.DefaultOptions()), scatterFrame{Camera: DefaultCamera()})
	require.NoError(t, err)
	assert.Zero(t, shown)
}
