package translate

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mpyconv/mpyconv/internal/emit"
	"github.com/mpyconv/mpyconv/internal/syntax"
	"github.com/mpyconv/mpyconv/scanner"
)

// Options controls where ProcessFiles delivers its results.
type Options struct {
	// Stdout receives every rendered translation. Nil disables it.
	Stdout io.Writer
	// Output is the artifact for a single input file.
	Output string
	// OutDir receives <stem>.py for every input.
	OutDir string
	// DryRun translates and resolves output paths without writing anything.
	DryRun bool
	// Workers bounds the files translated at once; 0 means GOMAXPROCS.
	Workers int
	// Progress shows a progress bar on stderr when directories are scanned.
	Progress bool
	// Batch names every artifact after its input, even for a single file.
	Batch bool
}

type target struct {
	path string
	err  error
}

// ProcessFiles translates every file named by paths, scanning directories for
// supported sources. Files are independent: a failure is recorded in that
// file's Result and the others proceed. Results come back in input order and
// are emitted in that order. The error is non-nil only when ctx ends early.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	opts Options,
) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	targets, scanned := expandPaths(paths)
	results := make([]Result, len(targets))

	var bar *progressbar.ProgressBar
	if opts.Progress && scanned {
		bar = newProgressBar(len(targets))
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, tg := range targets {
		if tg.err != nil {
			results[i] = Result{Path: tg.path, Err: tg.err}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: tg.path, Err: err}
				return err
			}
			results[i] = engine.TranslateFile(gctx, tg.path)
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	waitErr := g.Wait()
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	single := len(targets) == 1 && !scanned && !opts.Batch
	written := make(map[string]string)
	for i := range results {
		res := &results[i]
		if res.Err == nil {
			res.OutputPath = OutputPath(res.Path, single, opts.Output, opts.OutDir)
			if prev, dup := written[res.OutputPath]; dup {
				res.Err = fmt.Errorf("%w: %s is also the output of %s", emit.ErrWrite, res.OutputPath, prev)
			} else if !opts.DryRun {
				written[res.OutputPath] = res.Path
				res.Err = sinksFor(res.OutputPath, opts).Emit(res.Output)
			}
		}
		if res.Err != nil {
			logger.Error("Error processing file", zap.String("file", res.Path), zap.Error(res.Err))
			continue
		}
		logger.Debug("processed file",
			zap.String("file", res.Path),
			zap.String("output", res.OutputPath),
			zap.Int("edits", res.Edits()),
		)
	}

	if waitErr != nil {
		return results, waitErr
	}
	return results, nil
}

func sinksFor(outputPath string, opts Options) *emit.Emitter {
	var sinks []emit.Sink
	if opts.Stdout != nil {
		sinks = append(sinks, emit.NewWriterSink("stdout", opts.Stdout))
	}
	sinks = append(sinks, emit.NewFileSink(outputPath))
	return emit.New(sinks...)
}

// expandPaths resolves directories to the supported files below them.
// Files named explicitly are kept whatever their extension, so unsupported
// ones are reported instead of silently skipped.
func expandPaths(paths []string) ([]target, bool) {
	var (
		targets []target
		scanned bool
	)
	seen := make(map[string]bool)
	add := func(tg target) {
		if seen[tg.path] {
			return
		}
		seen[tg.path] = true
		targets = append(targets, tg)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			add(target{path: path, err: fmt.Errorf("error accessing %s: %w", path, err)})
			continue
		}
		if !info.IsDir() {
			add(target{path: path})
			continue
		}

		scanned = true
		files, err := scanner.New(path, syntax.Extensions()...).Scan()
		if err != nil {
			add(target{path: path, err: fmt.Errorf("error scanning %s: %w", path, err)})
			continue
		}
		for _, f := range files {
			add(target{path: f.Path})
		}
	}
	return targets, scanned
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("translating"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
