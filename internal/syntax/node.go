package syntax

import (
	"github.com/mpyconv/mpyconv/internal/types"
)

// Kind tags the node shapes the translation rules look at.
// Everything else is KindOther and is identified by its grammar Type.
type Kind uint8

const (
	KindOther Kind = iota
	KindTranslationUnit
	KindFunctionDefinition
	KindFunctionDeclarator
	KindParameterList
	KindParameterDeclaration
	KindCompoundStatement
	KindIfStatement
	KindElseClause
	KindConditionClause
	KindForStatement
	KindDeclaration
	KindInitDeclarator
	KindCallExpression
	KindArgumentList
	KindUpdateExpression
	KindBinaryExpression
	KindParenthesizedExpression
	KindIdentifier
	KindFieldExpression
	KindQualifiedIdentifier
	KindNamespaceIdentifier
	KindNumberLiteral
	KindPrimitiveType
	KindSizedTypeSpecifier
	KindTypeIdentifier
	KindUsingDeclaration
	KindComment
	KindError
)

var kindByType = map[string]Kind{
	"translation_unit":         KindTranslationUnit,
	"function_definition":      KindFunctionDefinition,
	"function_declarator":      KindFunctionDeclarator,
	"parameter_list":           KindParameterList,
	"parameter_declaration":    KindParameterDeclaration,
	"compound_statement":       KindCompoundStatement,
	"if_statement":             KindIfStatement,
	"else_clause":              KindElseClause,
	"condition_clause":         KindConditionClause,
	"for_statement":            KindForStatement,
	"declaration":              KindDeclaration,
	"init_declarator":          KindInitDeclarator,
	"call_expression":          KindCallExpression,
	"argument_list":            KindArgumentList,
	"update_expression":        KindUpdateExpression,
	"binary_expression":        KindBinaryExpression,
	"parenthesized_expression": KindParenthesizedExpression,
	"identifier":               KindIdentifier,
	"field_expression":         KindFieldExpression,
	"qualified_identifier":     KindQualifiedIdentifier,
	"namespace_identifier":     KindNamespaceIdentifier,
	"number_literal":           KindNumberLiteral,
	"primitive_type":           KindPrimitiveType,
	"sized_type_specifier":     KindSizedTypeSpecifier,
	"type_identifier":          KindTypeIdentifier,
	"using_declaration":        KindUsingDeclaration,
	"comment":                  KindComment,
	"ERROR":                    KindError,
}

var kindNames = map[Kind]string{}

func init() {
	for name, kind := range kindByType {
		kindNames[kind] = name
	}
}

// KindOf maps a grammar node type to its Kind.
func KindOf(nodeType string) Kind {
	return kindByType[nodeType]
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "other"
}

// Node is a read-only element of a parsed translation unit.
type Node struct {
	Kind Kind
	// Type is the grammar node type, e.g. "if_statement" or "(".
	Type string
	// Field is the name under which the parent holds this node, if any.
	Field string
	Named bool
	Start int
	End   int
	// Text is set for leaf tokens only (identifiers, literals, operators, keywords).
	Text string

	Parent   *Node
	Children []*Node

	tree *Tree
}

func (n *Node) Span() types.Span {
	return types.Span{Start: n.Start, End: n.End}
}

// Tree returns the translation unit the node belongs to.
func (n *Node) Tree() *Tree {
	return n.tree
}

// Is reports whether the node is non-nil and of one of the given kinds.
func (n *Node) Is(kinds ...Kind) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// ChildByField returns the first child held under the given field name, or nil.
func (n *Node) ChildByField(field string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// NamedChildren returns the named children, skipping comments.
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Named && c.Kind != KindComment {
			out = append(out, c)
		}
	}
	return out
}

// FirstOfKind returns the first direct child of kind k.
func (n *Node) FirstOfKind(k Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == k {
			return c
		}
	}
	return nil
}

// HasToken reports whether an anonymous direct child has exactly the given text.
func (n *Node) HasToken(text string) bool {
	if n == nil {
		return false
	}
	for _, c := range n.Children {
		if !c.Named && c.Text == text {
			return true
		}
	}
	return false
}

// Ancestor returns the nearest ancestor of kind k.
func (n *Node) Ancestor(k Kind) *Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == k {
			return p
		}
	}
	return nil
}

// Unwrap strips parentheses and condition clauses around an expression.
func (n *Node) Unwrap() *Node {
	for n != nil && n.Is(KindParenthesizedExpression, KindConditionClause) {
		inner := n.NamedChildren()
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}

// Walk visits n and its descendants in pre-order, left to right.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
