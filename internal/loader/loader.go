// Package loader handles program image loading operations.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/sipeit/internal/memory"
)

// LoadError is returned when a program image can not be read or does not fit
// into memory.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading program %s: %s", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader handles loading program images from disk.
type Loader struct {
	maxSize int
}

// New creates a new program loader.
func New() *Loader {
	return &Loader{
		maxSize: memory.MaxProgramSize,
	}
}

// Load reads the complete program image from the given file.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func() { _ = file.Close() }()

	return l.Read(path, file)
}

// Read reads the complete program image from the reader. The name is only
// used for error reporting.
func (l *Loader) Read(name string, reader io.Reader) ([]byte, error) {
	// read one byte more than allowed to detect oversized images without
	// reading them completely
	data, err := io.ReadAll(io.LimitReader(reader, int64(l.maxSize)+1))
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}

	if len(data) > l.maxSize {
		return nil, &LoadError{
			Path: name,
			Err:  fmt.Errorf("%w: more than %d bytes", memory.ErrProgramTooLarge, l.maxSize),
		}
	}
	return data, nil
}
