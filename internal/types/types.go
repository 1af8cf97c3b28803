package types

import (
	"bytes"
	"fmt"
	"go/token"
)

// Span is a half-open byte range [Start, End) in the original source.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Overlaps reports whether two non-empty spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	if s.IsEmpty() || o.IsEmpty() {
		return false
	}
	return s.Start < o.End && o.Start < s.End
}

// StrictlyContains reports whether off lies inside the span, excluding both ends.
func (s Span) StrictlyContains(off int) bool {
	return s.Start < off && off < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// ConfigRule is the per-rule section of the configuration file.
type ConfigRule struct {
	// Enabled is nil when the config does not mention it; the rule then keeps its default state.
	Enabled *bool             `yaml:"enabled,omitempty"`
	Texts   map[string]string `yaml:"texts,omitempty"`
}

func (r ConfigRule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// Issue represents a translation failure found in a file.
type Issue struct {
	Rule     string
	Category string
	Filename string
	Message  string
	Note     string
	Start    token.Position
	End      token.Position
}

// PositionFor converts a byte offset into a line/column position.
// Columns are 1-based and counted in bytes, the same as go/token.
func PositionFor(filename string, src []byte, offset int) token.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	prefix := src[:offset]
	line := bytes.Count(prefix, []byte{'\n'}) + 1
	column := offset + 1
	if i := bytes.LastIndexByte(prefix, '\n'); i >= 0 {
		column = offset - i
	}
	return token.Position{
		Filename: filename,
		Offset:   offset,
		Line:     line,
		Column:   column,
	}
}
