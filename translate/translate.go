// Package translate turns Arduino sketches into MicroPython scripts.
//
// A Translator owns the configured pattern library. Each file is parsed,
// matched and rendered on its own; ProcessFiles runs many files concurrently
// and writes each result to its sinks.
package translate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mpyconv/mpyconv/internal"
	"github.com/mpyconv/mpyconv/internal/edit"
)

// Engine is what ProcessFiles needs from a translator.
type Engine interface {
	TranslateFile(ctx context.Context, path string) Result
}

// Result is the translation of one file.
type Result struct {
	Path   string
	Source []byte
	Output string
	Ops    []edit.Op
	Counts map[string]int
	// OutputPath is the artifact the result is written to. A dry run sets it
	// without writing.
	OutputPath string
	Err        error
}

// Edits returns the number of edits applied.
func (r Result) Edits() int {
	return len(r.Ops)
}

type Translator struct {
	logger *zap.Logger
	config Config
	engine *internal.Engine
}

// New builds a translator from config. It fails when config names a rule
// that does not exist.
func New(logger *zap.Logger, config Config) (*Translator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	lib, err := internal.NewLibrary(config.Rules, config.Calls)
	if err != nil {
		return nil, fmt.Errorf("error loading rules: %w", err)
	}
	return &Translator{
		logger: logger,
		config: config,
		engine: internal.NewEngine(logger, lib),
	}, nil
}

func (t *Translator) Config() Config {
	return t.config
}

// Library returns the configured pattern catalog.
func (t *Translator) Library() *internal.Library {
	return t.engine.Library()
}

// DisableRules turns off rules given as a comma-separated list.
func (t *Translator) DisableRules(list string) error {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return t.engine.Library().Disable(names...)
}

// TranslateSource translates src as if it were read from filename. The
// extension of filename selects the grammar.
func (t *Translator) TranslateSource(ctx context.Context, filename string, src []byte) Result {
	res := Result{Path: filename, Source: src}
	out, err := t.engine.Run(ctx, filename, src)
	if err != nil {
		res.Err = err
		return res
	}
	res.Output = out.Output
	res.Ops = out.Ops
	res.Counts = out.Counts
	return res
}

// TranslateFile reads and translates the file at path.
func (t *Translator) TranslateFile(ctx context.Context, path string) Result {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("error reading %s: %w", path, err)}
	}
	res := t.TranslateSource(ctx, path, src)
	if res.Err != nil {
		t.logger.Debug("translation failed", zap.String("file", path), zap.Error(res.Err))
	}
	return res
}

// OutputPath returns where the translation of input is written. A lone input
// without an output directory goes to output; otherwise each input gets a
// <stem>.py in outDir, or next to the input when outDir is empty.
func OutputPath(input string, single bool, output, outDir string) string {
	if single && outDir == "" {
		if output == "" {
			return DefaultOutputFile
		}
		return output
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, stem+".py")
}
