package rules

import (
	"strconv"
	"strings"

	"github.com/mpyconv/mpyconv/internal/edit"
	"github.com/mpyconv/mpyconv/internal/syntax"
)

var integerTypes = map[string]bool{
	"char":      true,
	"short":     true,
	"int":       true,
	"long":      true,
	"signed":    true,
	"unsigned":  true,
	"byte":      true,
	"word":      true,
	"size_t":    true,
	"int8_t":    true,
	"int16_t":   true,
	"int32_t":   true,
	"int64_t":   true,
	"uint8_t":   true,
	"uint16_t":  true,
	"uint32_t":  true,
	"uint64_t":  true,
	"ptrdiff_t": true,
}

// MatchCountedFor matches
//
//	for (int i = 0; i < N; ++i)
//
// where the counter is integer typed, initialized to literal 0, compared with
// "<" against an integer expression and incremented with "++".
func MatchCountedFor(n *syntax.Node) (Captures, bool) {
	if n.Kind != syntax.KindForStatement {
		return nil, false
	}

	counter, ok := zeroInitializedCounter(forInitializer(n))
	if !ok {
		return nil, false
	}

	cond := n.ChildByField("condition").Unwrap()
	if !cond.Is(syntax.KindBinaryExpression) || operator(cond) != "<" {
		return nil, false
	}
	lhs := cond.ChildByField("left").Unwrap()
	if !lhs.Is(syntax.KindIdentifier) || lhs.Text != counter.Text {
		return nil, false
	}
	if !isIntegerExpr(cond.ChildByField("right").Unwrap()) {
		return nil, false
	}

	update := n.ChildByField("update").Unwrap()
	if !update.Is(syntax.KindUpdateExpression) || operator(update) != "++" {
		return nil, false
	}
	inc := update.ChildByField("argument").Unwrap()
	if !inc.Is(syntax.KindIdentifier) || inc.Text != counter.Text {
		return nil, false
	}

	return Captures{
		"init": counter,
		"cond": lhs,
		"inc":  inc,
	}, true
}

// RewriteCountedFor replaces the incremented variable with a fixed token.
// This is an illustration of the loop shape, not a translation of it.
func RewriteCountedFor(m Match, b *edit.Buffer) {
	inc := m.Capture("inc")
	b.Replace(inc.Start, inc.End, m.Text("token"))
}

func forInitializer(n *syntax.Node) *syntax.Node {
	if init := n.ChildByField("initializer"); init != nil {
		return init
	}
	return n.FirstOfKind(syntax.KindDeclaration)
}

// zeroInitializedCounter returns the declared identifier of "T v = 0" when T is an integer type.
func zeroInitializedCounter(decl *syntax.Node) (*syntax.Node, bool) {
	if !decl.Is(syntax.KindDeclaration) || !isIntegerType(decl.ChildByField("type")) {
		return nil, false
	}

	var declarators []*syntax.Node
	for _, c := range decl.NamedChildren() {
		if c.Field == "type" || c.Type == "type_qualifier" || c.Type == "storage_class_specifier" {
			continue
		}
		declarators = append(declarators, c)
	}
	if len(declarators) != 1 || declarators[0].Kind != syntax.KindInitDeclarator {
		return nil, false
	}

	init := declarators[0]
	name := init.ChildByField("declarator")
	if !name.Is(syntax.KindIdentifier) {
		return nil, false
	}
	if !isZeroLiteral(init.ChildByField("value")) {
		return nil, false
	}
	return name, true
}

func isIntegerType(n *syntax.Node) bool {
	switch {
	case n == nil:
		return false
	case n.Is(syntax.KindPrimitiveType, syntax.KindTypeIdentifier):
		return integerTypes[n.Text]
	case n.Is(syntax.KindSizedTypeSpecifier):
		// "unsigned int", "long long", "unsigned" alone
		for _, c := range n.Children {
			if c.Text != "" && !integerTypes[c.Text] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isZeroLiteral(n *syntax.Node) bool {
	if !n.Is(syntax.KindNumberLiteral) {
		return false
	}
	v, ok := integerLiteral(n.Text)
	return ok && v == 0
}

func integerLiteral(text string) (int64, bool) {
	s := strings.ReplaceAll(strings.TrimRight(text, "uUlL"), "'", "")
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// isIntegerExpr accepts expressions that can hold an integer. Without type
// information only literals are checked; names and calls are taken on trust.
func isIntegerExpr(n *syntax.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case "number_literal":
		_, ok := integerLiteral(n.Text)
		return ok
	case "identifier", "call_expression", "field_expression", "qualified_identifier",
		"binary_expression", "subscript_expression", "sizeof_expression", "cast_expression":
		return true
	default:
		return false
	}
}

// operator returns the operator token of a unary, update or binary expression.
func operator(n *syntax.Node) string {
	if op := n.ChildByField("operator"); op != nil {
		return op.Text
	}
	for _, c := range n.Children {
		if !c.Named {
			return c.Text
		}
	}
	return ""
}
