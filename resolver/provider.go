package resolver

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Provider supplies .proto source for an import path. Implementations signal
// a missing file by returning an error matching fs.ErrNotExist; any other
// error is treated as a read failure.
type Provider interface {
	Provide(path string) (io.Reader, error)
}

// SearchPath resolves import paths against a list of root directories. The
// first root containing the path wins.
type SearchPath []string

func (s SearchPath) Provide(path string) (io.Reader, error) {
	for _, root := range s {
		f, err := os.Open(filepath.Join(root, path))
		if err == nil {
			return f, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return nil, errors.Wrapf(fs.ErrNotExist, "%s not found under %d search roots", path, len(s))
}

// MapProvider serves sources from memory, keyed by import path.
type MapProvider map[string]string

func (m MapProvider) Provide(path string) (io.Reader, error) {
	src, ok := m[path]
	if !ok {
		return nil, errors.Wrap(fs.ErrNotExist, path)
	}
	return strings.NewReader(src), nil
}
