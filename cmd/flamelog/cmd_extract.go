package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/benchtools/flamelog/internal/batch"
	"github.com/benchtools/flamelog/internal/export"
	"github.com/benchtools/flamelog/internal/inputs"
	"github.com/benchtools/flamelog/internal/logging"
	"github.com/benchtools/flamelog/internal/logparse"
	"github.com/benchtools/flamelog/internal/render"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract tables from log files or directories",
		Long: `Extract parses each input log, tabulates its instrumentation into one
row per iteration, and writes one output table per accepted log into the
output directory.

Files without the FLAME GPU marker line are rejected and reported;
rejection never aborts the rest of the batch.

Example:
  flamelog extract -i results/ -o tables/ --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputArgs, _ := cmd.Flags().GetStringSlice("input")
			outDir, _ := cmd.Flags().GetString("output")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format, _ = cmd.Flags().GetString("format")
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("force") {
				cfg.Output.Force, _ = cmd.Flags().GetBool("force")
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Output.Pretty, _ = cmd.Flags().GetBool("pretty")
			}

			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

			files, skipped := inputs.Resolve(inputArgs)
			for _, s := range skipped {
				logger.Warn("input is not a valid file or directory, ignoring", "path", s)
			}
			if len(files) == 0 {
				return fmt.Errorf("no input files found")
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("creating output directory %s: %w", outDir, err)
			}

			exporter, err := export.New(cfg.Output.Format, export.Options{
				Dir:     outDir,
				Force:   cfg.Output.Force,
				Confirm: overwritePrompt(cmd),
			})
			if err != nil {
				return err
			}
			if closer, ok := exporter.(export.Closer); ok {
				defer closer.Close()
			}

			trace := logging.NewTraceLogger(outDir, cfg.Logging.Level)
			defer trace.Close()

			runner := &batch.Runner{
				Parser:   &logparse.Parser{Strict: cfg.Parsing.StrictNumbers},
				Exporter: exporter,
				Logger:   logger,
				Trace:    trace,
			}
			summary, err := runner.Run(cmd.Context(), files)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(summary)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Summary(summary, cfg.Output.Pretty))
			return nil
		},
	}

	cmd.Flags().StringSliceP("input", "i", nil, "Input files or directories to parse")
	cmd.Flags().StringP("output", "o", "", "Directory for output, one table per input file")
	cmd.Flags().String("format", "csv", "Output format: csv, sqlite, or arrow")
	cmd.Flags().BoolP("force", "f", false, "Force overwriting of existing output files")
	cmd.Flags().BoolP("pretty", "p", false, "Styled summary output")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

// overwritePrompt returns a ConfirmFunc that asks y/n on the command's
// input stream, re-asking until it gets an answer it understands.
func overwritePrompt(cmd *cobra.Command) export.ConfirmFunc {
	reader := bufio.NewReader(cmd.InOrStdin())
	return func(path string) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "Do you wish to overwrite output file %s [y/n]\n", path)
		for {
			line, err := reader.ReadString('\n')
			answer := strings.ToLower(strings.TrimSpace(line))
			switch answer {
			case "y", "yes":
				return true
			case "n", "no":
				return false
			}
			if err != nil {
				// Input exhausted; never overwrite by accident
				return false
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Please respond with 'y' or 'n'.")
		}
	}
}
