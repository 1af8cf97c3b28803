package rules

import (
	"github.com/mpyconv/mpyconv/internal/edit"
	"github.com/mpyconv/mpyconv/internal/syntax"
)

// MatchCall returns a predicate matching calls to the free function name.
// The "head" slot holds the called name, "args" the argument list.
func MatchCall(name string) Predicate {
	return func(n *syntax.Node) (Captures, bool) {
		if n.Kind != syntax.KindCallExpression {
			return nil, false
		}
		head := n.ChildByField("function")
		if !head.Is(syntax.KindIdentifier) || head.Text != name {
			return nil, false
		}
		caps := Captures{"head": head}
		if args := n.ChildByField("arguments"); args != nil {
			caps["args"] = args
		}
		return caps, true
	}
}

// RewriteCallHead swaps the called name and leaves the arguments alone.
func RewriteCallHead(m Match, b *edit.Buffer) {
	head := m.Capture("head")
	b.Replace(head.Start, head.End, m.Text("head"))
}
