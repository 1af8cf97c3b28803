package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpan(t *testing.T) {
	t.Parallel()

	s := Span{Start: 2, End: 5}
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.IsEmpty())
	assert.Equal(t, "[2,5)", s.String())

	assert.True(t, s.Overlaps(Span{Start: 4, End: 8}))
	assert.False(t, s.Overlaps(Span{Start: 5, End: 8}), "touching spans do not overlap")
	assert.False(t, s.Overlaps(Span{Start: 3, End: 3}), "empty spans never overlap")

	assert.True(t, s.StrictlyContains(3))
	assert.False(t, s.StrictlyContains(2))
	assert.False(t, s.StrictlyContains(5))
}

func TestPositionFor(t *testing.T) {
	t.Parallel()

	src := []byte("ab\ncd\n")
	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{-1, 1, 1},
		{100, 3, 1},
	}
	for _, tt := range tests {
		pos := PositionFor("f.ino", src, tt.offset)
		assert.Equal(t, tt.line, pos.Line, "offset %d", tt.offset)
		assert.Equal(t, tt.column, pos.Column, "offset %d", tt.offset)
		assert.Equal(t, "f.ino", pos.Filename)
	}
}

func TestConfigRuleIsEnabled(t *testing.T) {
	t.Parallel()

	off := false
	assert.True(t, ConfigRule{}.IsEnabled())
	assert.False(t, ConfigRule{Enabled: &off}.IsEnabled())
}
