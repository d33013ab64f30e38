package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/sipeit/internal/memory"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		wantErr  bool
		tooLarge bool
	}{
		{name: "empty file", size: 0},
		{name: "small program", size: 4},
		{name: "maximum size", size: memory.MaxProgramSize},
		{name: "one byte too large", size: memory.MaxProgramSize + 1, wantErr: true, tooLarge: true},
		{name: "far too large", size: 2 * memory.Size, wantErr: true, tooLarge: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := bytes.Repeat([]byte{0xA5}, tt.size)
			tmpFile := createTempFile(t, data)

			loader := New()
			got, err := loader.Load(tmpFile)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.tooLarge, errors.Is(err, memory.ErrProgramTooLarge))

				var loadErr *LoadError
				assert.True(t, errors.As(err, &loadErr))
				assert.Equal(t, tmpFile, loadErr.Path)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.size, len(got))
			assert.Equal(t, data, got)
		})
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	loader := New()
	path := filepath.Join(t.TempDir(), "missing.ch8")

	_, err := loader.Load(path)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
	assert.Equal(t, path, loadErr.Path)
	assert.ErrorContains(t, err, "missing.ch8")
}

func TestRead_FailingReader(t *testing.T) {
	errRead := errors.New("device gone")
	loader := New()

	_, err := loader.Read("stdin", failingReader{err: errRead})
	assert.True(t, errors.Is(err, errRead))
	assert.ErrorContains(t, err, "loading program stdin")
}

type failingReader struct {
	err error
}

func (r failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "program.ch8")
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
