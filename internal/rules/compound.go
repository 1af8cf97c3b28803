package rules

import (
	"github.com/mpyconv/mpyconv/internal/edit"
	"github.com/mpyconv/mpyconv/internal/syntax"
)

// MatchCompound binds the brace tokens of a compound statement.
func MatchCompound(n *syntax.Node) (Captures, bool) {
	if n.Kind != syntax.KindCompoundStatement || len(n.Children) < 2 {
		return nil, false
	}
	open := n.Children[0]
	closing := n.Children[len(n.Children)-1]
	if open.Text != "{" || closing.Text != "}" {
		return nil, false
	}
	return Captures{"open": open, "close": closing}, true
}

// RewriteCompound puts a marker just inside each brace. Braces stay; nested
// blocks get their own pair.
func RewriteCompound(m Match, b *edit.Buffer) {
	b.Insert(m.Capture("open").End, m.Text("open"))
	b.Insert(m.Capture("close").Start, m.Text("close"))
}
