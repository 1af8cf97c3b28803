package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mpyconv/mpyconv/formatter"
	"github.com/mpyconv/mpyconv/translate"
)

type translateFlags struct {
	output   string
	outDir   string
	noStdout bool
	disable  string
	dryRun   bool
	workers  int
}

var translateOpts translateFlags

var translateCmd = &cobra.Command{
	Use:   "translate [paths...]",
	Short: "Translate sketches into MicroPython",
	Long: `Translates each .ino or C++ source into a MicroPython script.
Directories are scanned for supported files. A single input is written to the
configured output file (output.txt by default); several inputs, or any input
with --out-dir, produce one <name>.py each.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("please provide file or directory paths")
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		tr, err := loadTranslator()
		if err != nil {
			logger.Error("Failed to initialize translator", zap.Error(err))
			return err
		}
		if translateOpts.disable != "" {
			if err := tr.DisableRules(translateOpts.disable); err != nil {
				return err
			}
		}
		return runTranslate(ctx, logger, tr, args, translateOpts, os.Stdout, os.Stderr)
	},
}

func init() {
	translateCmd.Flags().StringVarP(&translateOpts.output, "output", "o", "", "Output file for a single input")
	translateCmd.Flags().StringVar(&translateOpts.outDir, "out-dir", "", "Directory receiving one .py file per input")
	translateCmd.Flags().BoolVar(&translateOpts.noStdout, "no-stdout", false, "Do not print translations to standard output")
	translateCmd.Flags().StringVar(&translateOpts.disable, "disable", "", "Comma-separated list of rules to disable")
	translateCmd.Flags().BoolVar(&translateOpts.dryRun, "dry-run", false, "Show a diff of each translation without writing files")
	translateCmd.Flags().IntVar(&translateOpts.workers, "workers", 0, "Number of files translated at once (default GOMAXPROCS)")
}

func runTranslate(
	ctx context.Context,
	logger *zap.Logger,
	tr *translate.Translator,
	paths []string,
	flags translateFlags,
	stdout, stderr io.Writer,
) error {
	opts := optionsFor(tr.Config(), flags)
	if !flags.noStdout && !flags.dryRun {
		opts.Stdout = stdout
	}

	results, err := translate.ProcessFiles(ctx, logger, tr, paths, opts)
	failed := printResults(stdout, stderr, results, opts)
	if err != nil {
		return fmt.Errorf("translation interrupted: %w", err)
	}
	if failed {
		return ErrFailed
	}
	return nil
}

// optionsFor merges the config with the command line; flags win.
func optionsFor(config translate.Config, flags translateFlags) translate.Options {
	opts := translate.Options{
		Output:   config.Output,
		OutDir:   config.OutDir,
		Workers:  config.Workers,
		DryRun:   flags.dryRun,
		Progress: true,
	}
	if flags.output != "" {
		opts.Output = flags.output
	}
	if flags.outDir != "" {
		opts.OutDir = flags.outDir
	}
	if flags.workers > 0 {
		opts.Workers = flags.workers
	}
	return opts
}

// printResults reports failures on stderr and, for a dry run, the diff of
// every successful translation on stdout. It reports whether any file failed.
func printResults(stdout, stderr io.Writer, results []translate.Result, opts translate.Options) bool {
	failed := false
	for _, res := range results {
		if res.Err != nil {
			failed = true
			fmt.Fprint(stderr, formatter.FormatFailure(res.Path, res.Source, res.Err))
			continue
		}
		if opts.DryRun {
			fmt.Fprint(stdout, formatter.Diff(res.Path, res.OutputPath, string(res.Source), res.Output))
		}
	}
	return failed
}
