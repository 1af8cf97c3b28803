package syntax

import "sort"

// Alias is a name made visible through a using-declaration.
type Alias struct {
	Name  string
	Scope string
	Start int
	End   int
}

// Aliases records the using-declarations of one translation unit.
// Declarations apply to the whole unit regardless of where they appear.
type Aliases struct {
	names      map[string]Alias
	namespaces map[string]bool
}

func newAliases() *Aliases {
	return &Aliases{
		names:      make(map[string]Alias),
		namespaces: make(map[string]bool),
	}
}

// Resolves reports whether name, declared in scope, is reachable unqualified.
func (a *Aliases) Resolves(name, scope string) bool {
	if a == nil {
		return false
	}
	if a.namespaces[scope] {
		return true
	}
	alias, ok := a.names[name]
	return ok && alias.Scope == scope
}

// Lookup returns the using-declaration that introduced name.
func (a *Aliases) Lookup(name string) (Alias, bool) {
	if a == nil {
		return Alias{}, false
	}
	alias, ok := a.names[name]
	return alias, ok
}

// Namespaces returns the namespaces imported with "using namespace", sorted.
func (a *Aliases) Namespaces() []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a.namespaces))
	for ns := range a.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

func collectAliases(root *Node) *Aliases {
	a := newAliases()
	root.Walk(func(n *Node) bool {
		if n.Kind != KindUsingDeclaration {
			return true
		}
		if n.HasToken("namespace") {
			if name := qualifiedName(lastNamed(n)); name != "" {
				a.namespaces[name] = true
			}
			return false
		}
		target := lastNamed(n)
		if target.Is(KindQualifiedIdentifier) {
			scope, name := splitQualified(target)
			if name != "" {
				a.names[name] = Alias{Name: name, Scope: scope, Start: n.Start, End: n.End}
			}
		}
		return false
	})
	return a
}

func lastNamed(n *Node) *Node {
	named := n.NamedChildren()
	if len(named) == 0 {
		return nil
	}
	return named[len(named)-1]
}

// splitQualified splits a::b::c into scope "a::b" and name "c".
func splitQualified(n *Node) (scope, name string) {
	scopeNode := n.ChildByField("scope")
	nameNode := n.ChildByField("name")
	if nameNode.Is(KindQualifiedIdentifier) {
		innerScope, innerName := splitQualified(nameNode)
		scope = qualifiedName(scopeNode)
		if innerScope != "" {
			scope += "::" + innerScope
		}
		return scope, innerName
	}
	return qualifiedName(scopeNode), qualifiedName(nameNode)
}

// qualifiedName renders identifiers and qualified identifiers back as a::b.
func qualifiedName(n *Node) string {
	if n == nil {
		return ""
	}
	if len(n.Children) == 0 {
		return n.Text
	}
	if n.Kind == KindQualifiedIdentifier {
		scope, name := splitQualified(n)
		if scope == "" {
			return name
		}
		return scope + "::" + name
	}
	return ""
}
