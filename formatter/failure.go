package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mpyconv/mpyconv/internal/edit"
	"github.com/mpyconv/mpyconv/internal/syntax"
	tt "github.com/mpyconv/mpyconv/internal/types"
)

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

func NewSourceCode(src []byte) *SourceCode {
	return &SourceCode{Lines: strings.Split(string(src), "\n")}
}

// IssueFromError describes a failed translation of filename. Parse errors and
// edit conflicts are located in src; anything else has no position.
func IssueFromError(filename string, src []byte, err error) tt.Issue {
	var (
		parseErr *syntax.ParseError
		conflict *edit.ConflictError
	)
	switch {
	case errors.As(err, &parseErr):
		return tt.Issue{
			Rule:     "parse",
			Category: CategorySyntax,
			Filename: filename,
			Message:  "syntax error",
			Note:     "nothing was translated",
			Start:    parseErr.Pos,
			End:      parseErr.Pos,
		}
	case errors.As(err, &conflict):
		first, second := conflict.First, conflict.Second
		return tt.Issue{
			Rule:     first.Rule,
			Category: CategoryConflict,
			Filename: filename,
			Message:  fmt.Sprintf("edit conflicts with rule %s", second.Rule),
			Note:     first.String() + "\n" + second.String(),
			Start:    tt.PositionFor(filename, src, min(first.Start, second.Start)),
			End:      tt.PositionFor(filename, src, max(first.End, second.End)),
		}
	default:
		return tt.Issue{
			Rule:     "error",
			Category: CategoryIO,
			Filename: filename,
			Message:  err.Error(),
		}
	}
}

// FormatFailure renders the failure of one file with a source snippet when
// the error has a position.
func FormatFailure(filename string, src []byte, err error) string {
	issue := IssueFromError(filename, src, err)
	return GenerateFormattedIssue([]tt.Issue{issue}, NewSourceCode(src))
}
