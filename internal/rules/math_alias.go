package rules

import (
	"github.com/mpyconv/mpyconv/internal/edit"
	"github.com/mpyconv/mpyconv/internal/syntax"
)

const mathScope = "std"

var mathFunctions = map[string]bool{
	"pow":  true,
	"sqrt": true,
	"sin":  true,
	"cos":  true,
	"tan":  true,
}

// MathFunctions lists the names the math-alias rule qualifies.
func MathFunctions() []string {
	return []string{"cos", "pow", "sin", "sqrt", "tan"}
}

// MatchMathAlias matches an unqualified reference to one of the math functions
// that the unit brought in with "using std::name;" or "using namespace std;".
func MatchMathAlias(n *syntax.Node) (Captures, bool) {
	if n.Kind != syntax.KindIdentifier || !mathFunctions[n.Text] {
		return nil, false
	}
	if !n.Tree().Aliases.Resolves(n.Text, mathScope) {
		return nil, false
	}
	// a declarator names a local entity, not a reference to the std one
	if n.Field == "declarator" || n.Parent.Is(syntax.KindQualifiedIdentifier) {
		return nil, false
	}
	if n.Ancestor(syntax.KindUsingDeclaration) != nil {
		return nil, false
	}
	return Captures{"ref": n}, true
}

// RewriteMathAlias qualifies the reference with the math module.
func RewriteMathAlias(m Match, b *edit.Buffer) {
	b.Insert(m.Capture("ref").Start, m.Text("prefix"))
}
