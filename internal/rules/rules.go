// Package rules holds the match predicates and rewrites of the translator.
//
// Every rule is a pair: a predicate that inspects one syntax node and binds
// the nodes it needs to named capture slots, and a rewrite that turns those
// captures into edit operations. Rewrites only look at node offsets and the
// static texts configured for the rule; they never read the source.
package rules

import (
	"github.com/mpyconv/mpyconv/internal/edit"
	"github.com/mpyconv/mpyconv/internal/syntax"
)

// rule names
const (
	IfElse            = "if-else"
	CountedFor        = "counted-for"
	PinMode           = "pin-mode"
	LoopFunction      = "loop-function"
	SetupFunction     = "setup-function"
	Delay             = "delay"
	DelayMicroseconds = "delay-microseconds"
	Millis            = "millis"
	Micros            = "micros"
	Compound          = "compound"
	MathAlias         = "math-alias"

	// CallPrefix prefixes the names of call rules declared in config.
	CallPrefix = "call:"
)

// Captures binds capture-slot names to matched nodes.
type Captures map[string]*syntax.Node

// Predicate reports whether n has the rule's shape and returns its captures.
type Predicate func(n *syntax.Node) (Captures, bool)

// Rewrite registers the edits for one match.
type Rewrite func(m Match, b *edit.Buffer)

// Match is the record handed to a rewrite when its predicate succeeds.
type Match struct {
	Rule     string
	Node     *syntax.Node
	Captures Captures
	Texts    map[string]string
}

// Capture returns the node bound to slot, or nil when the slot is empty.
func (m Match) Capture(slot string) *syntax.Node {
	return m.Captures[slot]
}

// Text returns the static text configured for slot.
func (m Match) Text(slot string) string {
	return m.Texts[slot]
}
