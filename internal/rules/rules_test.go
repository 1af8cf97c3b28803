package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpyconv/mpyconv/internal/edit"
	"github.com/mpyconv/mpyconv/internal/syntax"
)

type ruleCase struct {
	name     string
	src      string
	expected string
	matches  int
}

// runRule applies a single rule to every node of src and renders the result.
func runRule(t *testing.T, filename, src string, match Predicate, rewrite Rewrite, texts map[string]string) (string, int) {
	t.Helper()

	tree, err := syntax.Parse(context.Background(), filename, []byte(src))
	require.NoError(t, err)

	buf := edit.NewBuffer(tree.Source).For("test")
	count := 0
	tree.Root.Walk(func(n *syntax.Node) bool {
		if caps, ok := match(n); ok {
			count++
			rewrite(Match{Rule: "test", Node: n, Captures: caps, Texts: texts}, buf)
		}
		return true
	})

	out, err := buf.Render()
	require.NoError(t, err)
	return out, count
}

func runCases(t *testing.T, filename string, tests []ruleCase, match Predicate, rewrite Rewrite, texts map[string]string) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, count := runRule(t, filename, tt.src, match, rewrite, texts)
			assert.Equal(t, tt.expected, out)
			assert.Equal(t, tt.matches, count)
		})
	}
}

func TestIfElse(t *testing.T) {
	t.Parallel()

	tests := []ruleCase{
		{
			name:     "then only",
			src:      "void f(){ if (x) { a(); } }",
			expected: "void f(){ if (x) T{ a(); } }",
			matches:  1,
		},
		{
			name:     "then and else",
			src:      "void f(){ if (x) a(); else b(); }",
			expected: "void f(){ if (x) Ta(); else Eb(); }",
			matches:  1,
		},
		{
			name:     "else if chain",
			src:      "void f(){ if (x) a(); else if (y) b(); }",
			expected: "void f(){ if (x) Ta(); else Eif (y) Tb(); }",
			matches:  2,
		},
		{
			name:     "no if statement",
			src:      "void f(){ a(); }",
			expected: "void f(){ a(); }",
			matches:  0,
		},
	}
	runCases(t, "sketch.ino", tests, MatchIfElse, RewriteIfElse, map[string]string{"then": "T", "else": "E"})
}

func TestCountedFor(t *testing.T) {
	t.Parallel()

	tests := []ruleCase{
		{
			name:     "postfix increment",
			src:      "void f(){ for (int i = 0; i < 10; i++) { } }",
			expected: "void f(){ for (int i = 0; i < 10; P++) { } }",
			matches:  1,
		},
		{
			name:     "prefix increment",
			src:      "void f(){ for (int i = 0; i < 10; ++i) { } }",
			expected: "void f(){ for (int i = 0; i < 10; ++P) { } }",
			matches:  1,
		},
		{
			name:     "bound is a name",
			src:      "void f(int n){ for (unsigned int k = 0; k < n; k++) { } }",
			expected: "void f(int n){ for (unsigned int k = 0; k < n; P++) { } }",
			matches:  1,
		},
		{
			name:     "initializer is not zero",
			src:      "void f(){ for (int i = 1; i < 10; i++) { } }",
			expected: "void f(){ for (int i = 1; i < 10; i++) { } }",
		},
		{
			name:     "condition is not less-than",
			src:      "void f(){ for (int i = 0; i <= 10; i++) { } }",
			expected: "void f(){ for (int i = 0; i <= 10; i++) { } }",
		},
		{
			name:     "decrement",
			src:      "void f(){ for (int i = 0; i < 10; i--) { } }",
			expected: "void f(){ for (int i = 0; i < 10; i--) { } }",
		},
		{
			name:     "floating point counter",
			src:      "void f(){ for (float i = 0; i < 10; i++) { } }",
			expected: "void f(){ for (float i = 0; i < 10; i++) { } }",
		},
		{
			name:     "different variable incremented",
			src:      "void f(){ int j = 0; for (int i = 0; i < 10; j++) { } }",
			expected: "void f(){ int j = 0; for (int i = 0; i < 10; j++) { } }",
		},
		{
			name:     "counter declared outside the loop",
			src:      "void f(){ int i; for (i = 0; i < 10; i++) { } }",
			expected: "void f(){ int i; for (i = 0; i < 10; i++) { } }",
		},
	}
	runCases(t, "sketch.ino", tests, MatchCountedFor, RewriteCountedFor, map[string]string{"token": "P"})
}

func TestCallHead(t *testing.T) {
	t.Parallel()

	tests := []ruleCase{
		{
			name:     "arguments untouched",
			src:      "void setup(){ pinMode(2, OUTPUT); }",
			expected: "void setup(){ machine.Pin(2, OUTPUT); }",
			matches:  1,
		},
		{
			name:     "every call",
			src:      "void f(){ pinMode(1, INPUT); pinMode(LED_BUILTIN, OUTPUT); }",
			expected: "void f(){ machine.Pin(1, INPUT); machine.Pin(LED_BUILTIN, OUTPUT); }",
			matches:  2,
		},
		{
			name:     "method with the same name",
			src:      "void f(){ board.pinMode(2, OUTPUT); }",
			expected: "void f(){ board.pinMode(2, OUTPUT); }",
		},
		{
			name:     "other function",
			src:      "void f(){ digitalWrite(2, HIGH); }",
			expected: "void f(){ digitalWrite(2, HIGH); }",
		},
	}
	runCases(t, "sketch.ino", tests, MatchCall("pinMode"), RewriteCallHead, map[string]string{"head": "machine.Pin"})
}

func TestCallCapturesArguments(t *testing.T) {
	t.Parallel()

	tree, err := syntax.Parse(context.Background(), "sketch.ino", []byte("void f(){ delay(500); }"))
	require.NoError(t, err)

	var caps Captures
	tree.Root.Walk(func(n *syntax.Node) bool {
		if c, ok := MatchCall("delay")(n); ok {
			caps = c
		}
		return true
	})
	require.NotNil(t, caps)
	assert.Equal(t, "delay", caps["head"].Text)
	require.NotNil(t, caps["args"])
	assert.Equal(t, "(500)", string(tree.Source[caps["args"].Start:caps["args"].End]))
}

func TestLoopFunction(t *testing.T) {
	t.Parallel()

	tests := []ruleCase{
		{
			name:     "empty parameter list",
			src:      "void loop() { x(); }",
			expected: "while True: { x(); }",
			matches:  1,
		},
		{
			name:     "void parameter list",
			src:      "void loop(void) {}",
			expected: "while True: {}",
			matches:  1,
		},
		{
			name:     "with parameters",
			src:      "void loop(int n) {}",
			expected: "void loop(int n) {}",
		},
		{
			name:     "prototype only",
			src:      "void loop();",
			expected: "void loop();",
		},
		{
			name:     "other function",
			src:      "void blink() {}",
			expected: "void blink() {}",
		},
	}
	runCases(t, "sketch.ino", tests, MatchLoopFunction, RewriteLoopFunction, map[string]string{"head": "while True:"})
}

func TestSetupFunction(t *testing.T) {
	t.Parallel()

	tests := []ruleCase{
		{
			name:     "header removed body kept",
			src:      "void setup() { x(); }",
			expected: " { x(); }",
			matches:  1,
		},
		{
			name:     "other function",
			src:      "void begin() { x(); }",
			expected: "void begin() { x(); }",
		},
	}
	runCases(t, "sketch.ino", tests, MatchSetupFunction, RewriteSetupFunction, nil)
}

func TestCompound(t *testing.T) {
	t.Parallel()

	tests := []ruleCase{
		{
			name:     "nested blocks get their own markers",
			src:      "void f() { a(); { } }",
			expected: "void f() {< a(); {< >} >}",
			matches:  2,
		},
		{
			name:     "empty block",
			src:      "void f() {}",
			expected: "void f() {<>}",
			matches:  1,
		},
		{
			name:     "no block",
			src:      "int x = 1;",
			expected: "int x = 1;",
		},
	}
	runCases(t, "sketch.ino", tests, MatchCompound, RewriteCompound, map[string]string{"open": "<", "close": ">"})
}

func TestMathAlias(t *testing.T) {
	t.Parallel()

	tests := []ruleCase{
		{
			name:     "using declaration",
			src:      "using std::sqrt;\ndouble f(double x) { return sqrt(x) + pow(x, 2); }",
			expected: "using std::sqrt;\ndouble f(double x) { return math.sqrt(x) + pow(x, 2); }",
			matches:  1,
		},
		{
			name:     "using namespace",
			src:      "using namespace std;\ndouble f(double x) { return sqrt(x) + pow(x, 2); }",
			expected: "using namespace std;\ndouble f(double x) { return math.sqrt(x) + math.pow(x, 2); }",
			matches:  2,
		},
		{
			name:     "alias declared after use",
			src:      "double f(double x) { return sin(x); }\nusing std::sin;",
			expected: "double f(double x) { return math.sin(x); }\nusing std::sin;",
			matches:  1,
		},
		{
			name:     "already qualified",
			src:      "using namespace std;\ndouble f(double x) { return std::cos(x); }",
			expected: "using namespace std;\ndouble f(double x) { return std::cos(x); }",
		},
		{
			name:     "no alias",
			src:      "double f(double x) { return tan(x); }",
			expected: "double f(double x) { return tan(x); }",
		},
		{
			name:     "alias from another namespace",
			src:      "using fast::sqrt;\ndouble f(double x) { return sqrt(x); }",
			expected: "using fast::sqrt;\ndouble f(double x) { return sqrt(x); }",
		},
	}
	runCases(t, "unit.cpp", tests, MatchMathAlias, RewriteMathAlias, map[string]string{"prefix": "math."})
}

func TestMatchText(t *testing.T) {
	t.Parallel()

	m := Match{Texts: map[string]string{"head": "x"}}
	assert.Equal(t, "x", m.Text("head"))
	assert.Empty(t, m.Text("missing"))
	assert.Nil(t, m.Capture("missing"))
}
