package rules

import (
	"github.com/mpyconv/mpyconv/internal/edit"
	"github.com/mpyconv/mpyconv/internal/syntax"
)

// MatchLoopFunction matches the definition of loop() taking no parameters.
func MatchLoopFunction(n *syntax.Node) (Captures, bool) {
	caps, ok := matchFunction(n, "loop")
	if !ok || !hasNoParameters(caps["declarator"]) {
		return nil, false
	}
	return caps, true
}

// RewriteLoopFunction turns "void loop()" into the infinite loop header.
// The body, braces included, is left to the other rules.
func RewriteLoopFunction(m Match, b *edit.Buffer) {
	b.Replace(m.Node.Start, m.Capture("declarator").End, m.Text("head"))
}

// MatchSetupFunction matches the definition of setup().
func MatchSetupFunction(n *syntax.Node) (Captures, bool) {
	return matchFunction(n, "setup")
}

// RewriteSetupFunction drops the "void setup()" header. There is nothing to
// call it in the target; its statements run at module level.
func RewriteSetupFunction(m Match, b *edit.Buffer) {
	b.Delete(m.Node.Start, m.Capture("declarator").End)
}

// matchFunction binds "declarator" (the function_declarator) and "body" of a
// definition of the free function name.
func matchFunction(n *syntax.Node, name string) (Captures, bool) {
	if n.Kind != syntax.KindFunctionDefinition {
		return nil, false
	}
	decl := n.ChildByField("declarator")
	if !decl.Is(syntax.KindFunctionDeclarator) {
		return nil, false
	}
	ident := decl.ChildByField("declarator")
	if !ident.Is(syntax.KindIdentifier) || ident.Text != name {
		return nil, false
	}
	body := n.ChildByField("body")
	if !body.Is(syntax.KindCompoundStatement) {
		return nil, false
	}
	return Captures{
		"name":       ident,
		"declarator": decl,
		"body":       body,
	}, true
}

// hasNoParameters accepts "()" and "(void)".
func hasNoParameters(decl *syntax.Node) bool {
	params := decl.ChildByField("parameters")
	if params == nil {
		return false
	}
	list := params.NamedChildren()
	switch len(list) {
	case 0:
		return true
	case 1:
		p := list[0]
		if p.Kind != syntax.KindParameterDeclaration || p.ChildByField("declarator") != nil {
			return false
		}
		t := p.ChildByField("type")
		return t.Is(syntax.KindPrimitiveType) && t.Text == "void"
	default:
		return false
	}
}
