package cloud

import (
	"fmt"

	"github.com/opencontainers/go-digest"
	"github.com/teschty/binviz/internal/fsutil"
)

// Load reads the whole file at path into memory. There is no partial mode:
// either every byte is returned or the error is.
func Load(fsys fsutil.FileSystem, path string) ([]byte, Source, error) {
	if path == "" {
		return nil, Source{}, fmt.Errorf("empty input path")
	}

	raw, err := fsys.ReadFile(path)
	if err != nil {
		return nil, Source{}, fmt.Errorf("failed to read input %q: %w", path, err)
	}

	src := Source{
		Path:   path,
		Size:   int64(len(raw)),
		Digest: digest.FromBytes(raw),
	}
	return raw, src, nil
}
