// Package batch runs the parse/tabulate/export pipeline over a list of log
// files. Files are processed strictly one at a time; per-file failures are
// recorded in the run summary and never abort the remaining files.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benchtools/flamelog/internal/export"
	"github.com/benchtools/flamelog/internal/logging"
	"github.com/benchtools/flamelog/internal/logparse"
	"github.com/benchtools/flamelog/internal/tabulate"
	"github.com/google/uuid"
)

// Status classifies the outcome for one input file.
type Status string

const (
	// StatusExtracted means the file produced rows and they were written.
	StatusExtracted Status = "extracted"
	// StatusRejected means the file carries no FLAME GPU marker line.
	StatusRejected Status = "rejected"
	// StatusEmpty means a valid log held no instrumentation series, so
	// zero rows were produced. Not an error, but reported distinctly.
	StatusEmpty Status = "empty"
	// StatusUnreadable means the file could not be opened or read.
	StatusUnreadable Status = "unreadable"
	// StatusSkipped means the output already existed and overwriting was
	// declined.
	StatusSkipped Status = "skipped"
	// StatusFailed means parsing or export failed (corrupted input,
	// write error).
	StatusFailed Status = "failed"
)

// Result records the outcome for one input file.
type Result struct {
	Path   string `json:"path"`
	Status Status `json:"status"`
	Rows   int    `json:"rows,omitempty"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Summary is the outcome of a whole run.
type Summary struct {
	RunID   string        `json:"run_id"`
	Results []Result      `json:"results"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Count returns the number of results with the given status.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// TotalRows returns the number of rows emitted across all files.
func (s *Summary) TotalRows() int {
	n := 0
	for _, r := range s.Results {
		n += r.Rows
	}
	return n
}

// Runner drives the pipeline. Each file is parsed start-to-finish before
// the next begins; there is no shared state between files.
type Runner struct {
	Parser   *logparse.Parser
	Exporter export.Exporter
	Logger   *slog.Logger

	// Trace receives one JSONL event per processed file. May be nil.
	Trace *logging.TraceLogger
}

// Run processes paths in order and returns the run summary. Row order is
// file-encounter order for the outer sequence and iteration order within a
// file. Only context cancellation aborts the batch early.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}
	started := time.Now()

	r.Logger.Info("processing input files", "count", len(paths), "run_id", summary.RunID)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(started)
			return summary, fmt.Errorf("batch interrupted: %w", err)
		}
		res := r.processFile(ctx, path, i)
		r.Trace.Log(map[string]any{
			"run_id": summary.RunID,
			"path":   res.Path,
			"status": string(res.Status),
			"rows":   res.Rows,
			"error":  res.Error,
		})
		summary.Results = append(summary.Results, res)
	}

	summary.Elapsed = time.Since(started)
	return summary, nil
}

func (r *Runner) processFile(ctx context.Context, path string, index int) Result {
	res := Result{Path: path}

	rec, err := r.Parser.Parse(path)
	if err != nil {
		res.Status, res.Error = classifyParseError(err), err.Error()
		r.Logger.Warn("file not extracted", "path", path, "status", res.Status, "error", err)
		return res
	}

	table, err := tabulate.Tabulate(rec)
	if err != nil {
		if errors.Is(err, tabulate.ErrNoSeries) {
			res.Status = StatusEmpty
			r.Logger.Info("no instrumentation in file", "path", path)
		} else {
			res.Status, res.Error = StatusFailed, err.Error()
			r.Logger.Warn("tabulation failed", "path", path, "error", err)
		}
		return res
	}

	out, err := r.Exporter.Export(ctx, table, index)
	if err != nil {
		if errors.Is(err, export.ErrSkipped) {
			res.Status = StatusSkipped
			r.Logger.Info("output exists, skipped", "path", path)
		} else {
			res.Status, res.Error = StatusFailed, err.Error()
			r.Logger.Warn("export failed", "path", path, "error", err)
		}
		return res
	}

	res.Status = StatusExtracted
	res.Rows = len(table.Rows)
	res.Output = out
	r.Logger.Debug("file extracted", "path", path, "rows", res.Rows, "output", out)
	return res
}

func classifyParseError(err error) Status {
	var rejected *logparse.RejectedError
	if errors.As(err, &rejected) {
		return StatusRejected
	}
	var malformed *logparse.MalformedNumberError
	if errors.As(err, &malformed) {
		return StatusFailed
	}
	return StatusUnreadable
}
