package cloud

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teschty/binviz/internal/fsutil"
	"github.com/teschty/binviz/internal/monitoring"
)

func muteLogs(t *testing.T) {
	t.Helper()
	original := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = original })
}

func TestLoad(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/in.bin", []byte{1, 2, 3, 4})

	raw, src, err := Load(mfs, "/in.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, raw)
	assert.Equal(t, "/in.bin", src.Path)
	assert.Equal(t, int64(4), src.Size)
	assert.Equal(t, digest.FromBytes([]byte{1, 2, 3, 4}), src.Digest)
}

func TestLoad_Errors(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/locked.bin", []byte{1, 2, 3})
	mfs.Deny("/locked.bin")

	_, _, err := Load(mfs, "/missing.bin")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
	assert.Contains(t, err.Error(), "/missing.bin")

	_, _, err = Load(mfs, "/locked.bin")
	assert.True(t, errors.Is(err, fs.ErrPermission), "got %v", err)

	_, _, err = Load(mfs, "")
	assert.Error(t, err)
}

func TestBuild_DedupScenario(t *testing.T) {
	raw := triplets(
		[3]byte{10, 10, 10}, [3]byte{10, 10, 10}, [3]byte{10, 10, 10},
		[3]byte{0, 0, 0},
		[3]byte{255, 255, 255}, [3]byte{255, 255, 255},
	)

	c := Build(raw, DefaultOptions())
	require.Len(t, c.Points, 3)
	assert.Equal(t, 6, c.Triplets)
	assert.Equal(t, 6, c.Consumed())
	assert.Equal(t, 3, c.Duplicates)
	assert.Equal(t, 0, c.Dropped)
	assert.Equal(t, []float64{0, 2, 1}, c.DuplicateCounts())
	require.NoError(t, c.check())

	for _, p := range c.Points {
		assert.True(t, p.HasColor)
	}
}

func TestBuild_DropLast(t *testing.T) {
	raw := triplets([3]byte{1, 1, 1}, [3]byte{2, 2, 2}, [3]byte{1, 1, 1})

	c := Build(raw, Options{Policy: DropLast})
	assert.Equal(t, 3, c.Triplets)
	assert.Equal(t, 1, c.Dropped)
	assert.Equal(t, 2, c.Consumed())
	require.Len(t, c.Points, 2)
	assert.Equal(t, []float64{0, 0}, c.DuplicateCounts())
	require.NoError(t, c.check())
}

func TestBuild_ShortInput(t *testing.T) {
	for _, raw := range [][]byte{nil, {7}, {7, 8}} {
		c := Build(raw, DefaultOptions())
		assert.Empty(t, c.Points)
		assert.Equal(t, 0, c.Triplets)
		assert.NoError(t, c.check())
	}
}

func TestBuild_SkipColor(t *testing.T) {
	c := Build([]byte{1, 2, 3}, Options{SkipColor: true})
	require.Len(t, c.Points, 1)
	assert.False(t, c.Points[0].HasColor)
	assert.Equal(t, [3]float32{}, c.Points[0].Color)
}

func TestBuild_Deterministic(t *testing.T) {
	raw := make([]byte, 3*997+2)
	for i := range raw {
		raw[i] = byte(i * 31 % 7)
	}

	a := Build(raw, DefaultOptions())
	b := Build(raw, DefaultOptions())
	if diff := cmp.Diff(a.Points, b.Points); diff != "" {
		t.Errorf("non-deterministic output (-first +second):\n%s", diff)
	}
}

func TestBuild_DoesNotModifyInput(t *testing.T) {
	raw := []byte{9, 9, 9, 1, 1, 1}
	before := append([]byte(nil), raw...)
	Build(raw, DefaultOptions())
	assert.Equal(t, before, raw)
}

func TestLoadFile(t *testing.T) {
	muteLogs(t)

	mfs := fsutil.NewMemoryFileSystem()
	raw := triplets([3]byte{3, 3, 3}, [3]byte{3, 3, 3}, [3]byte{4, 5, 6})
	mfs.WriteFile("/data.bin", append(raw, 0xEE))

	c, err := LoadFile(mfs, "/data.bin", DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, c.Points, 2)
	assert.Equal(t, 1, c.Duplicates)
	assert.Equal(t, int64(10), c.Source.Size)
	assert.NotEmpty(t, c.Source.RunID)
	assert.Equal(t, "/data.bin", c.Source.Path)

	again, err := LoadFile(mfs, "/data.bin", DefaultOptions())
	require.NoError(t, err)
	assert.NotEqual(t, c.Source.RunID, again.Source.RunID, "each run gets its own ID")
	assert.Equal(t, c.Source.Digest, again.Source.Digest)
}

func TestLoadFile_Missing(t *testing.T) {
	muteLogs(t)

	_, err := LoadFile(fsutil.NewMemoryFileSystem(), "/nope.bin", DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestCheck_DetectsBrokenInvariants(t *testing.T) {
	c := &Cloud{
		Triplets: 2,
		Points:   []Point{{Key: 5}, {Key: 3}},
	}
	assert.Error(t, c.check(), "out-of-order points")

	c = &Cloud{
		Triplets: 3,
		Points:   []Point{{Key: 1}, {Key: 2}},
	}
	assert.Error(t, c.check(), "count mismatch")
}
