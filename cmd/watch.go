package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mpyconv/mpyconv/formatter"
	"github.com/mpyconv/mpyconv/translate"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-translate sketches whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

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

		opts := optionsFor(tr.Config(), translateOpts)
		opts.Progress = false
		w, err := translate.NewWatcher(logger, tr, opts, 0)
		if err != nil {
			return err
		}
		if err := w.Add(args...); err != nil {
			return err
		}

		logger.Info("watching", zap.Strings("paths", args))
		err = w.Run(ctx, func(results []translate.Result) {
			reportWatch(os.Stdout, os.Stderr, results)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().StringVar(&translateOpts.outDir, "out-dir", "", "Directory receiving one .py file per input")
	watchCmd.Flags().StringVar(&translateOpts.disable, "disable", "", "Comma-separated list of rules to disable")
}

func reportWatch(stdout, stderr io.Writer, results []translate.Result) {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprint(stderr, formatter.FormatFailure(res.Path, res.Source, res.Err))
			continue
		}
		fmt.Fprintf(stdout, "translated %s -> %s (%d edits)\n", res.Path, res.OutputPath, res.Edits())
	}
}
