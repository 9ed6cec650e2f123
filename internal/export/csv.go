package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benchtools/flamelog/internal/tabulate"
)

// CSVExporter writes one comma-delimited file per table. Missing cells
// serialize as the empty token, never as zero.
type CSVExporter struct {
	opts Options
}

// NewCSV returns a CSVExporter writing under opts.Dir.
func NewCSV(opts Options) *CSVExporter {
	return &CSVExporter{opts: opts}
}

// Export writes table to <index>__<basename>.csv and returns the path.
func (e *CSVExporter) Export(ctx context.Context, table *tabulate.Table, index int) (string, error) {
	path := filepath.Join(e.opts.Dir, OutputName(index, table.Source, ".csv"))
	if err := e.opts.allowed(path); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		for i, cell := range row {
			record[i] = cell.String(table.Columns[i].Kind)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing output file: %w", err)
	}
	return path, nil
}
