package internal

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/mpyconv/mpyconv/internal/rules"
	tt "github.com/mpyconv/mpyconv/internal/types"
)

// Pattern is one entry of the pattern library: a predicate over a single
// syntax node and the rewrite that runs when it matches.
type Pattern struct {
	Name        string
	Description string
	// Texts holds the static text of each slot the rewrite emits.
	Texts   map[string]string
	Enabled bool

	Match   rules.Predicate
	Rewrite rules.Rewrite
}

type patternConstructor func() Pattern

// builtinPatterns is the library in registration order. The engine evaluates
// patterns on a node in this order, so it also fixes the order of inserts
// that share an offset.
var builtinPatterns = []patternConstructor{
	newIfElsePattern,
	newCountedForPattern,
	callPattern(rules.PinMode, "pinMode", "machine.Pin", "pin configuration"),
	newLoopFunctionPattern,
	newSetupFunctionPattern,
	callPattern(rules.Delay, "delay", "time.sleep_ms", "millisecond sleep"),
	callPattern(rules.DelayMicroseconds, "delayMicroseconds", "time.sleep_us", "microsecond sleep"),
	callPattern(rules.Millis, "millis", "time.ticks_ms", "millisecond tick counter"),
	callPattern(rules.Micros, "micros", "time.ticks_us", "microsecond tick counter"),
	newCompoundPattern,
	newMathAliasPattern,
}

func newIfElsePattern() Pattern {
	return Pattern{
		Name:        rules.IfElse,
		Description: "marks the start of the then and else branches of an if statement",
		Texts:       map[string]string{"then": "#if part\n", "else": "#else part\n"},
		Match:       rules.MatchIfElse,
		Rewrite:     rules.RewriteIfElse,
	}
}

func newCountedForPattern() Pattern {
	return Pattern{
		Name:        rules.CountedFor,
		Description: "replaces the incremented counter of `for (int i = 0; i < n; ++i)` with a placeholder",
		Texts:       map[string]string{"token": "print"},
		Match:       rules.MatchCountedFor,
		Rewrite:     rules.RewriteCountedFor,
	}
}

func newLoopFunctionPattern() Pattern {
	return Pattern{
		Name:        rules.LoopFunction,
		Description: "turns the loop() header into an infinite loop",
		Texts:       map[string]string{"head": "while True:"},
		Match:       rules.MatchLoopFunction,
		Rewrite:     rules.RewriteLoopFunction,
	}
}

func newSetupFunctionPattern() Pattern {
	return Pattern{
		Name:        rules.SetupFunction,
		Description: "removes the setup() header so its body runs at module level",
		Texts:       map[string]string{},
		Match:       rules.MatchSetupFunction,
		Rewrite:     rules.RewriteSetupFunction,
	}
}

func newCompoundPattern() Pattern {
	return Pattern{
		Name:        rules.Compound,
		Description: "marks the inside of each pair of braces",
		Texts:       map[string]string{"open": "#", "close": "#"},
		Match:       rules.MatchCompound,
		Rewrite:     rules.RewriteCompound,
	}
}

func newMathAliasPattern() Pattern {
	return Pattern{
		Name:        rules.MathAlias,
		Description: "qualifies pow, sqrt, sin, cos and tan brought in by a using declaration",
		Texts:       map[string]string{"prefix": "math."},
		Match:       rules.MatchMathAlias,
		Rewrite:     rules.RewriteMathAlias,
	}
}

func callPattern(name, function, head, description string) patternConstructor {
	return func() Pattern {
		return Pattern{
			Name:        name,
			Description: fmt.Sprintf("%s: %s(...) becomes %s(...)", description, function, head),
			Texts:       map[string]string{"head": head},
			Match:       rules.MatchCall(function),
			Rewrite:     rules.RewriteCallHead,
		}
	}
}

// Library is the configured, ordered pattern catalog.
type Library struct {
	patterns []Pattern
	index    map[string]int
}

// NewLibrary builds the catalog: the built-in patterns, then one call pattern
// per entry of calls (function name to replacement head), sorted by name.
// Rule settings from the config are applied last; naming a rule that does
// not exist is an error.
func NewLibrary(ruleCfg map[string]tt.ConfigRule, calls map[string]string) (*Library, error) {
	lib := &Library{index: make(map[string]int)}
	for _, ctor := range builtinPatterns {
		p := ctor()
		p.Enabled = true
		lib.add(p)
	}

	for _, function := range slices.Sorted(maps.Keys(calls)) {
		if function == "" {
			return nil, errors.New("calls: empty function name")
		}
		name := rules.CallPrefix + function
		if _, dup := lib.index[name]; dup {
			return nil, fmt.Errorf("calls: duplicate rule %q", name)
		}
		lib.add(Pattern{
			Name:        name,
			Description: fmt.Sprintf("%s(...) becomes %s(...)", function, calls[function]),
			Texts:       map[string]string{"head": calls[function]},
			Enabled:     true,
			Match:       rules.MatchCall(function),
			Rewrite:     rules.RewriteCallHead,
		})
	}

	for _, name := range slices.Sorted(maps.Keys(ruleCfg)) {
		if err := lib.apply(name, ruleCfg[name]); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func (l *Library) add(p Pattern) {
	l.index[p.Name] = len(l.patterns)
	l.patterns = append(l.patterns, p)
}

func (l *Library) apply(name string, cfg tt.ConfigRule) error {
	i, ok := l.index[name]
	if !ok {
		return fmt.Errorf("unknown rule %q", name)
	}
	p := &l.patterns[i]
	p.Enabled = cfg.IsEnabled()
	if len(cfg.Texts) == 0 {
		return nil
	}
	texts := maps.Clone(p.Texts)
	for slot, text := range cfg.Texts {
		if _, ok := texts[slot]; !ok {
			return fmt.Errorf("rule %q has no text slot %q", name, slot)
		}
		texts[slot] = text
	}
	p.Texts = texts
	return nil
}

// Disable turns the named rules off.
func (l *Library) Disable(names ...string) error {
	for _, name := range names {
		i, ok := l.index[name]
		if !ok {
			return fmt.Errorf("unknown rule %q", name)
		}
		l.patterns[i].Enabled = false
	}
	return nil
}

// Lookup returns the pattern registered under name.
func (l *Library) Lookup(name string) (Pattern, bool) {
	i, ok := l.index[name]
	if !ok {
		return Pattern{}, false
	}
	return l.patterns[i], true
}

// All returns every pattern in registration order, disabled ones included.
func (l *Library) All() []Pattern {
	return slices.Clone(l.patterns)
}

// Enabled returns the patterns the engine evaluates, in registration order.
func (l *Library) Enabled() []Pattern {
	out := make([]Pattern, 0, len(l.patterns))
	for _, p := range l.patterns {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// RuleNames returns the names of all built-in rules in registration order.
func RuleNames() []string {
	names := make([]string, 0, len(builtinPatterns))
	for _, ctor := range builtinPatterns {
		names = append(names, ctor().Name)
	}
	return names
}
