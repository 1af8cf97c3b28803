package internal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mpyconv/mpyconv/internal/edit"
	"github.com/mpyconv/mpyconv/internal/rules"
	"github.com/mpyconv/mpyconv/internal/syntax"
)

// Engine matches the pattern library against parsed units and renders the
// rewritten text.
type Engine struct {
	logger  *zap.Logger
	library *Library
}

// Outcome is the result of translating one unit.
type Outcome struct {
	Output string
	// Ops are the applied edits in application order.
	Ops []edit.Op
	// Counts holds the number of matches per rule. Rules that never fired are absent.
	Counts map[string]int
}

// NewEngine creates an engine over library. A nil logger discards logs.
func NewEngine(logger *zap.Logger, library *Library) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, library: library}
}

func (e *Engine) Library() *Library {
	return e.library
}

// Run parses src, applies every enabled pattern and renders the result.
// A parse failure stops before any matching; an edit conflict fails the unit
// without output.
func (e *Engine) Run(ctx context.Context, filename string, src []byte) (*Outcome, error) {
	tree, err := syntax.Parse(ctx, filename, src)
	if err != nil {
		return nil, err
	}
	return e.RunTree(tree)
}

// RunTree is Run for an already parsed unit.
func (e *Engine) RunTree(tree *syntax.Tree) (*Outcome, error) {
	buf := edit.NewBuffer(tree.Source)
	counts := e.Match(tree, buf)

	out, err := buf.Render()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tree.Filename, err)
	}
	e.logger.Debug("translated",
		zap.String("file", tree.Filename),
		zap.Int("edits", buf.Len()),
	)
	return &Outcome{Output: out, Ops: buf.Ops(), Counts: counts}, nil
}

// Match walks the tree once, pre-order and left to right, and evaluates every
// enabled pattern on every node in library order. Each match is rewritten as
// soon as it is found. It returns the number of matches per rule.
func (e *Engine) Match(tree *syntax.Tree, buf *edit.Buffer) map[string]int {
	patterns := e.library.Enabled()
	views := make([]*edit.Buffer, len(patterns))
	for i, p := range patterns {
		views[i] = buf.For(p.Name)
	}

	counts := make(map[string]int)
	tree.Root.Walk(func(n *syntax.Node) bool {
		for i, p := range patterns {
			caps, ok := p.Match(n)
			if !ok {
				continue
			}
			counts[p.Name]++
			if ce := e.logger.Check(zap.DebugLevel, "match"); ce != nil {
				ce.Write(
					zap.String("rule", p.Name),
					zap.String("node", n.Type),
					zap.Stringer("span", n.Span()),
				)
			}
			p.Rewrite(rules.Match{
				Rule:     p.Name,
				Node:     n,
				Captures: caps,
				Texts:    p.Texts,
			}, views[i])
		}
		return true
	})
	return counts
}
