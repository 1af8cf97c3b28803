package syntax

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unsafe"

	"github.com/alexaandru/go-sitter-forest/arduino"
	"github.com/alexaandru/go-sitter-forest/cpp"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/mpyconv/mpyconv/internal/types"
)

var (
	// ErrParse is returned when the source has syntax errors. No matching runs on such a tree.
	ErrParse = errors.New("parse failure")
	// ErrUnsupported is returned for files no grammar is registered for.
	ErrUnsupported = errors.New("unsupported source file")
)

// ParseError locates the first syntax error of a unit.
type ParseError struct {
	Pos token.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s:%d:%d: syntax error", ErrParse, e.Pos.Filename, e.Pos.Line, e.Pos.Column)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

var languageFuncs = map[string]func() unsafe.Pointer{
	"arduino": arduino.GetLanguage,
	"cpp":     cpp.GetLanguage,
}

var extensions = map[string]string{
	".ino": "arduino",
	".pde": "arduino",
	".cpp": "cpp",
	".cc":  "cpp",
	".cxx": "cpp",
	".h":   "cpp",
	".hpp": "cpp",
}

// field names the rules read; tree-sitter only exposes fields by lookup.
var fieldNames = []string{
	"alternative",
	"argument",
	"arguments",
	"body",
	"condition",
	"consequence",
	"declarator",
	"function",
	"initializer",
	"left",
	"name",
	"operator",
	"parameters",
	"right",
	"scope",
	"type",
	"update",
	"value",
}

var (
	languageCache sync.Map
	parserPools   sync.Map
)

// Tree is one parsed translation unit.
type Tree struct {
	Filename string
	Language string
	Source   []byte
	Root     *Node
	Aliases  *Aliases
}

// Extensions returns the supported file extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// LanguageFor returns the grammar name used for filename.
func LanguageFor(filename string) (string, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(filename))]
	return lang, ok
}

// IsSupported reports whether filename has a registered grammar.
func IsSupported(filename string) bool {
	_, ok := LanguageFor(filename)
	return ok
}

func getLanguage(name string) *sitter.Language {
	if cached, ok := languageCache.Load(name); ok {
		if lang, ok := cached.(*sitter.Language); ok {
			return lang
		}
	}
	fn, ok := languageFuncs[name]
	if !ok {
		return nil
	}
	lang := sitter.NewLanguage(fn())
	languageCache.Store(name, lang)
	return lang
}

func parserPool(language string, lang *sitter.Language) *sync.Pool {
	pool, _ := parserPools.LoadOrStore(language, &sync.Pool{
		New: func() any {
			p := sitter.NewParser()
			p.SetLanguage(lang)
			return p
		},
	})
	return pool.(*sync.Pool)
}

// Parse builds the tree for src, choosing the grammar from the filename extension.
func Parse(ctx context.Context, filename string, src []byte) (*Tree, error) {
	language, ok := LanguageFor(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filename)
	}
	return ParseLanguage(ctx, language, filename, src)
}

// ParseLanguage builds the tree for src with the named grammar ("arduino" or "cpp").
func ParseLanguage(ctx context.Context, language, filename string, src []byte) (*Tree, error) {
	lang := getLanguage(language)
	if lang == nil {
		return nil, fmt.Errorf("%w: no grammar %q", ErrUnsupported, language)
	}

	pool := parserPool(language, lang)
	p, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, fmt.Errorf("%w: parser pool returned unexpected type", ErrParse)
	}
	defer pool.Put(p)

	tsTree, err := p.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, filename, err)
	}
	defer tsTree.Close()

	root := tsTree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("%w: %s: no root node", ErrParse, filename)
	}

	tree := &Tree{
		Filename: filename,
		Language: language,
		Source:   src,
	}
	b := &builder{tree: tree, errorAt: -1}
	tree.Root = b.build(root, nil, "")
	if b.errorAt >= 0 {
		return nil, &ParseError{Pos: types.PositionFor(filename, src, b.errorAt)}
	}
	tree.Aliases = collectAliases(tree.Root)
	return tree, nil
}

type builder struct {
	tree    *Tree
	errorAt int
}

type fieldKey struct {
	start, end uint
	typ        string
}

func (b *builder) build(ts sitter.Node, parent *Node, field string) *Node {
	n := &Node{
		Type:   ts.Type(),
		Field:  field,
		Named:  ts.IsNamed(),
		Start:  int(ts.StartByte()),
		End:    int(ts.EndByte()),
		Parent: parent,
		tree:   b.tree,
	}
	n.Kind = KindOf(n.Type)
	if n.Kind == KindError && b.errorAt < 0 {
		b.errorAt = n.Start
	}

	count := ts.ChildCount()
	if count == 0 {
		// real tokens are never empty; a zero-width leaf is one the parser had to invent
		if n.Start == n.End && parent != nil && b.errorAt < 0 {
			b.errorAt = n.Start
		}
		n.Text = string(b.tree.Source[n.Start:n.End])
		return n
	}

	fields := make(map[fieldKey]string)
	for _, name := range fieldNames {
		fc := ts.ChildByFieldName(name)
		if fc.IsNull() {
			continue
		}
		key := fieldKey{fc.StartByte(), fc.EndByte(), fc.Type()}
		if _, seen := fields[key]; !seen {
			fields[key] = name
		}
	}

	n.Children = make([]*Node, 0, count)
	for i := range count {
		child := ts.Child(i)
		if child.IsNull() {
			continue
		}
		key := fieldKey{child.StartByte(), child.EndByte(), child.Type()}
		n.Children = append(n.Children, b.build(child, n, fields[key]))
	}
	return n
}
