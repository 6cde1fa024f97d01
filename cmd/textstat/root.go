package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/text-analyzer/backend/analyzer"
	"github.com/text-analyzer/backend/logging"
	"github.com/text-analyzer/backend/render"
	"github.com/text-analyzer/backend/service"
)

type options struct {
	sample   bool
	json     bool
	html     bool
	watch    bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "textstat [file]",
		Short: "Readability and SEO statistics for a block of text",
		Long: `textstat counts words, sentences and paragraphs, scores readability with
the Flesch Reading Ease formula and reports keyword density, headings and
links. Input is read from the given file, from stdin, or from the built-in
sample with --sample.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), opts.logLevel, "text")
			err := run(cmd, opts, args, logger)
			if err != nil {
				logger.Error(err)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.sample, "sample", false, "analyze the built-in sample text")
	flags.BoolVar(&opts.json, "json", false, "print the report as JSON")
	flags.BoolVar(&opts.html, "html", false, "treat the input as an HTML document")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "re-analyze the file whenever it changes")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string, logger *log.Logger) error {
	if opts.sample && len(args) > 0 {
		return errors.New("--sample cannot be combined with a file argument")
	}
	if opts.watch && len(args) == 0 {
		return errors.New("--watch needs a file argument")
	}

	svc := service.New(service.Options{}, nil, nil, logger)
	a := &app{
		svc:    svc,
		out:    cmd.OutOrStdout(),
		format: service.FormatText,
		json:   opts.json,
		logger: logger,
	}
	if opts.html {
		a.format = service.FormatHTML
	}

	switch {
	case opts.sample:
		return a.analyze(cmd.Context(), service.SampleText)
	case len(args) == 0:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		return a.analyze(cmd.Context(), string(data))
	case opts.watch:
		return a.watch(cmd.Context(), args[0])
	default:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		return a.analyze(cmd.Context(), string(data))
	}
}

// printReport writes a report in the selected output format
func printReport(w io.Writer, report analyzer.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	_, err := io.WriteString(w, render.Terminal(report))
	return err
}
