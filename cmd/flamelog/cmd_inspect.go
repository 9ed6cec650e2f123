package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benchtools/flamelog/internal/logparse"
	"github.com/benchtools/flamelog/internal/render"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Parse a single log file and show what was recognized",
		Long: `Inspect parses one log file and prints its header fields, population
counts, and instrumentation series lengths without writing any output
table. Useful for checking why a file is rejected or tabulates oddly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			pretty, _ := cmd.Flags().GetBool("pretty")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			parser := &logparse.Parser{Strict: cfg.Parsing.StrictNumbers}
			rec, err := parser.Parse(args[0])
			if err != nil {
				var rejected *logparse.RejectedError
				if errors.As(err, &rejected) && jsonOut {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
						"path":   rejected.Path,
						"status": "rejected",
					})
				}
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(recordJSON(rec))
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Record(rec, pretty))
			return nil
		},
	}

	cmd.Flags().BoolP("pretty", "p", false, "Styled output")

	return cmd
}

// recordJSON flattens a FileRecord for JSON output. JSON objects do not
// preserve insertion order, so series and counts are emitted as ordered
// arrays of name/value pairs.
func recordJSON(rec *logparse.FileRecord) map[string]any {
	header := map[string]any{}
	if rec.Header.InitialStates != nil {
		header["initial_states"] = *rec.Header.InitialStates
	}
	if rec.Header.OutputDir != nil {
		header["output_dir"] = *rec.Header.OutputDir
	}
	if rec.Header.DeviceString != nil {
		header["device_string"] = *rec.Header.DeviceString
	}
	if rec.Header.TotalProcessingTime != nil {
		header["total_processing_time"] = *rec.Header.TotalProcessingTime
	}

	instrumentation := make([]map[string]any, 0, rec.Instrumentation.Len())
	for _, name := range rec.Instrumentation.Keys() {
		instrumentation = append(instrumentation, map[string]any{
			"metric": name,
			"values": rec.Instrumentation.Series(name),
		})
	}

	population := make([]map[string]any, 0, rec.Population.Len())
	for _, label := range rec.Population.Keys() {
		population = append(population, map[string]any{
			"label": label,
			"count": rec.Population.Count(label),
		})
	}

	return map[string]any{
		"path":            rec.Source,
		"header":          header,
		"instrumentation": instrumentation,
		"population":      population,
		"iterations":      rec.Instrumentation.MaxLen(),
	}
}
