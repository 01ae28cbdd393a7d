package dataset

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// Source loads a complete dataset from somewhere. All implementations
// return fully materialized tables; nothing streams past the load call.
type Source interface {
	Load(ctx context.Context) (*RawTables, error)
}

// DirSource loads the six CSV files from a local directory.
type DirSource struct {
	Dir string
}

// Load reads every required file from the directory.
func (s DirSource) Load(ctx context.Context) (*RawTables, error) {
	return loadTables(func(name string) (io.ReadCloser, error) {
		f, err := os.Open(filepath.Join(s.Dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &MissingFileError{File: name}
			}
			return nil, err
		}
		return f, nil
	})
}

// Load loads a dataset from a local directory. Convenience wrapper around
// DirSource for callers without a context.
func Load(dir string) (*RawTables, error) {
	return DirSource{Dir: dir}.Load(context.Background())
}
