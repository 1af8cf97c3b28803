package edit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mpyconv/mpyconv/internal/types"
)

var (
	// ErrConflict is matched by every *ConflictError.
	ErrConflict = errors.New("edit conflict")
	// ErrOutOfRange is returned when an op addresses bytes outside the source.
	ErrOutOfRange = errors.New("edit out of range")
)

// OpKind tags an edit operation. The order is the apply priority at equal offsets.
type OpKind uint8

const (
	OpInsert OpKind = iota
	OpReplace
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpReplace:
		return "replace"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Op is one textual edit in original-source byte space.
// For inserts Start == End.
type Op struct {
	Kind  OpKind
	Start int
	End   int
	Text  string
	// Rule is the name of the rule that registered the op.
	Rule string
	seq  int
}

func (o Op) Span() types.Span {
	return types.Span{Start: o.Start, End: o.End}
}

func (o Op) String() string {
	switch o.Kind {
	case OpInsert:
		return fmt.Sprintf("%s %s at %d %q", o.Rule, o.Kind, o.Start, o.Text)
	case OpDelete:
		return fmt.Sprintf("%s %s %s", o.Rule, o.Kind, o.Span())
	default:
		return fmt.Sprintf("%s %s %s with %q", o.Rule, o.Kind, o.Span(), o.Text)
	}
}

// ConflictError names two ops whose ranges cannot both be applied.
type ConflictError struct {
	First  Op
	Second Op
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("edit conflict: %s overlaps %s", e.First, e.Second)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Buffer collects the edits of one translation unit.
// It is not safe for concurrent use; each file owns its own buffer.
type Buffer struct {
	state *state
	rule  string
}

type state struct {
	source []byte
	ops    []Op
	errs   []error
}

// NewBuffer returns an empty buffer over src. src is never modified.
func NewBuffer(src []byte) *Buffer {
	return &Buffer{state: &state{source: src}}
}

// For returns a view sharing b's ops that tags every op it registers with rule.
func (b *Buffer) For(rule string) *Buffer {
	return &Buffer{state: b.state, rule: rule}
}

// Insert registers text to be inserted before the byte at offset.
func (b *Buffer) Insert(offset int, text string) {
	b.add(Op{Kind: OpInsert, Start: offset, End: offset, Text: text})
}

// Replace registers text to replace the bytes in [start, end).
func (b *Buffer) Replace(start, end int, text string) {
	b.add(Op{Kind: OpReplace, Start: start, End: end, Text: text})
}

// Delete registers removal of the bytes in [start, end).
func (b *Buffer) Delete(start, end int) {
	b.add(Op{Kind: OpDelete, Start: start, End: end})
}

// Len returns the number of registered ops.
func (b *Buffer) Len() int {
	return len(b.state.ops)
}

// Ops returns the registered ops in apply order.
func (b *Buffer) Ops() []Op {
	ops := append([]Op(nil), b.state.ops...)
	sortOps(ops)
	return ops
}

// Render applies every op to the source and returns the result.
// Unedited regions are copied byte for byte. Nothing is rendered when
// ops are out of range or conflict.
func (b *Buffer) Render() (string, error) {
	st := b.state
	if len(st.errs) > 0 {
		return "", errors.Join(st.errs...)
	}

	ops := b.Ops()
	if err := checkConflicts(ops); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(st.source))
	pos := 0
	for _, op := range ops {
		if op.Start > pos {
			sb.Write(st.source[pos:op.Start])
			pos = op.Start
		}
		sb.WriteString(op.Text)
		if op.End > pos {
			pos = op.End
		}
	}
	sb.Write(st.source[pos:])
	return sb.String(), nil
}

func (b *Buffer) add(op Op) {
	st := b.state
	op.Rule = b.rule
	if op.Start < 0 || op.End < op.Start || op.End > len(st.source) {
		st.errs = append(st.errs, fmt.Errorf("%w: %s (source is %d bytes)", ErrOutOfRange, op, len(st.source)))
		return
	}
	op.seq = len(st.ops)
	st.ops = append(st.ops, op)
}

// sortOps orders by start offset, then insert < replace < delete, then registration.
func sortOps(ops []Op) {
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].Start != ops[j].Start {
			return ops[i].Start < ops[j].Start
		}
		if ops[i].Kind != ops[j].Kind {
			return ops[i].Kind < ops[j].Kind
		}
		return ops[i].seq < ops[j].seq
	})
}

// checkConflicts expects ops in apply order. Replace/Delete ranges must not
// overlap, and no insert may land strictly inside one of them.
func checkConflicts(ops []Op) error {
	var (
		last    Op
		hasLast bool
	)
	for _, op := range ops {
		if hasLast && last.End > op.Start {
			if op.Start == op.End {
				// inserts and empty replacements only collide when they would be swallowed
				if last.Span().StrictlyContains(op.Start) {
					return &ConflictError{First: last, Second: op}
				}
			} else if op.Kind != OpInsert {
				return &ConflictError{First: last, Second: op}
			}
		}
		if op.Kind == OpInsert || op.Start == op.End {
			continue
		}
		if !hasLast || op.End > last.End {
			last = op
			hasLast = true
		}
	}
	return nil
}
