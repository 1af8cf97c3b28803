package formatter

import (
	"errors"
	"go/token"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpyconv/mpyconv/internal"
	"github.com/mpyconv/mpyconv/internal/edit"
	"github.com/mpyconv/mpyconv/internal/rules"
	"github.com/mpyconv/mpyconv/internal/syntax"
	tt "github.com/mpyconv/mpyconv/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFormatParseIssue(t *testing.T) {
	t.Parallel()

	code := NewSourceCode([]byte("void loop() {\n  delay(500;\n}\n"))
	issues := []tt.Issue{
		{
			Rule:     "parse",
			Category: CategorySyntax,
			Filename: "bad.ino",
			Message:  "syntax error",
			Note:     "nothing was translated",
			Start:    token.Position{Line: 2, Column: 12},
			End:      token.Position{Line: 2, Column: 12},
		},
	}

	expected := "error: parse\n" +
		" --> bad.ino:2:12\n" +
		"  |\n" +
		"2 | delay(500;\n" +
		"  | " + strings.Repeat(" ", 9) + "~\n" +
		"  = syntax error\n" +
		"  = note: nothing was translated\n" +
		"\n"

	assert.Equal(t, expected, GenerateFormattedIssue(issues, code))
}

func TestFormatConflict(t *testing.T) {
	t.Parallel()

	src := []byte("void loop(){ delay(500); }")
	buf := edit.NewBuffer(src)
	buf.For(rules.Delay).Replace(13, 18, "time.sleep_ms")
	buf.For("call:delay").Replace(13, 18, "sleep")
	_, err := buf.Render()
	require.Error(t, err)

	expected := "error: delay\n" +
		" --> sketch.ino:1:14\n" +
		"  |\n" +
		"1 | void loop(){ delay(500); }\n" +
		"  | " + strings.Repeat(" ", 13) + "~~~~~\n" +
		"  = edit conflicts with rule call:delay\n" +
		"  = note: delay replace [13,18) with \"time.sleep_ms\"\n" +
		"  = note: call:delay replace [13,18) with \"sleep\"\n" +
		"\n"

	assert.Equal(t, expected, FormatFailure("sketch.ino", src, err))
}

func TestFormatPlainFailure(t *testing.T) {
	t.Parallel()

	out := FormatFailure("x.ino", nil, errors.New("boom"))
	assert.Equal(t, "error: error\n --> x.ino\n  = boom\n\n", out)
}

func TestIssueFromError(t *testing.T) {
	t.Parallel()

	perr := &syntax.ParseError{Pos: token.Position{Filename: "a.ino", Line: 3, Column: 4}}
	issue := IssueFromError("a.ino", nil, perr)
	assert.Equal(t, CategorySyntax, issue.Category)
	assert.Equal(t, 3, issue.Start.Line)

	issue = IssueFromError("a.ino", nil, errors.New("read failed"))
	assert.Equal(t, CategoryIO, issue.Category)
	assert.Zero(t, issue.Start.Line)
}

func TestFormatMultiLineIssue(t *testing.T) {
	t.Parallel()

	code := NewSourceCode([]byte("void setup()\n{\n}\n"))
	issues := []tt.Issue{
		{
			Rule:     "setup-function",
			Filename: "a.ino",
			Message:  "spans lines",
			Start:    token.Position{Line: 1, Column: 1},
			End:      token.Position{Line: 2, Column: 2},
		},
	}

	expected := "error: setup-function\n" +
		" --> a.ino:1:1\n" +
		"  |\n" +
		"1 | void setup()\n" +
		"2 | {\n" +
		"  = spans lines\n" +
		"\n"
	assert.Equal(t, expected, GenerateFormattedIssue(issues, code))
}

func TestFindCommonIndent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"empty", nil, ""},
		{"spaces", []string{"    a", "  b"}, "  "},
		{"blank lines ignored", []string{"\t\ta", "", "\tb"}, "\t"},
		{"no indent", []string{"a", "  b"}, ""},
		{"only blank lines", []string{"   ", ""}, ""},
		{"mixed tabs and spaces", []string{"\t a", "\t\tb"}, "\t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, findCommonIndent(tt.lines))
		})
	}
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, calculateVisualColumn("abc", 1))
	assert.Equal(t, 2, calculateVisualColumn("abc", 3))
	assert.Equal(t, 8, calculateVisualColumn("\tx", 2))
	assert.Equal(t, 3, calculateVisualColumn("abc", 10))
	assert.Equal(t, 0, calculateVisualColumn("abc", -1))
}

func TestDiff(t *testing.T) {
	t.Parallel()

	out := Diff("a.ino", "a.py", "x\ny\n", "x\nz\n")
	assert.Equal(t, "--- a.ino\n+++ a.py\n x\n-y\n+z\n", out)

	out = Diff("a.ino", "a.py", "same", "same")
	assert.Equal(t, "--- a.ino\n+++ a.py\n same\n", out)
}

func TestFormatRules(t *testing.T) {
	t.Parallel()

	lib, err := internal.NewLibrary(nil, nil)
	require.NoError(t, err)
	require.NoError(t, lib.Disable(rules.Compound))

	out := FormatRules(lib.All())
	assert.Contains(t, out, "on  "+rules.Delay+"\n")
	assert.Contains(t, out, `    head: "time.sleep_ms"`)
	assert.Contains(t, out, "off "+rules.Compound+"\n")
	assert.Contains(t, out, `    then: "#if part\n"`)
	assert.Less(t, strings.Index(out, rules.IfElse), strings.Index(out, rules.MathAlias))
}
