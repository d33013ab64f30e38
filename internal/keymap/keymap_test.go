package keymap

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		r    rune
		want uint8
		ok   bool
	}{
		{'1', 0x1, true},
		{'4', 0xC, true},
		{'q', 0x4, true},
		{'R', 0xD, true},
		{'x', 0x0, true},
		{'V', 0xF, true},
		{'5', 0, false},
		{'p', 0, false},
		{' ', 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			got, ok := Lookup(tt.r)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayout_CoversAllKeys(t *testing.T) {
	assert.Len(t, layout, 16)

	seen := map[uint8]bool{}
	for _, key := range layout {
		assert.False(t, seen[key])
		seen[key] = true
	}

	for key := range uint8(16) {
		r, ok := Rune(key)
		assert.True(t, ok)

		got, ok := Lookup(r)
		assert.True(t, ok)
		assert.Equal(t, key, got)
	}

	_, ok := Rune(16)
	assert.False(t, ok)
}
