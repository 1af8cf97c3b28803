package rules

import (
	"github.com/mpyconv/mpyconv/internal/edit"
	"github.com/mpyconv/mpyconv/internal/syntax"
)

// MatchIfElse binds the then-branch and, when present, the else-branch of an if statement.
func MatchIfElse(n *syntax.Node) (Captures, bool) {
	if n.Kind != syntax.KindIfStatement {
		return nil, false
	}
	then := n.ChildByField("consequence")
	if then == nil {
		return nil, false
	}
	caps := Captures{"then": then}
	if alt := elseBranch(n); alt != nil {
		caps["else"] = alt
	}
	return caps, true
}

// RewriteIfElse marks the start of each branch.
func RewriteIfElse(m Match, b *edit.Buffer) {
	b.Insert(m.Capture("then").Start, m.Text("then"))
	if alt := m.Capture("else"); alt != nil {
		b.Insert(alt.Start, m.Text("else"))
	}
}

// elseBranch returns the statement after "else". Newer grammars wrap it in an else_clause.
func elseBranch(n *syntax.Node) *syntax.Node {
	alt := n.ChildByField("alternative")
	if alt == nil {
		alt = n.FirstOfKind(syntax.KindElseClause)
	}
	if alt == nil || alt.Kind != syntax.KindElseClause {
		return alt
	}
	stmts := alt.NamedChildren()
	if len(stmts) == 0 {
		return nil
	}
	return stmts[0]
}
