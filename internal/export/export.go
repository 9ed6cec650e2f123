// Package export serializes tabulated log data. Three sinks are provided:
// one CSV file per input log, one SQLite database table per input log, and
// one Arrow IPC file per input log. All sinks share the same output naming
// and overwrite policy.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benchtools/flamelog/internal/tabulate"
)

// ErrSkipped reports an output that was not written because it already
// exists and the overwrite policy declined it. The batch continues.
var ErrSkipped = errors.New("output exists, skipped")

// ConfirmFunc decides whether an existing output file may be overwritten.
// The CLI wires an interactive y/n prompt here; tests wire a constant.
type ConfirmFunc func(path string) bool

// Options configures an exporter.
type Options struct {
	// Dir is the output directory. It must exist.
	Dir string

	// Force overwrites existing outputs without consulting Confirm.
	Force bool

	// Confirm is consulted for each existing output when Force is false.
	// A nil Confirm declines everything.
	Confirm ConfirmFunc
}

// Exporter writes one Table to its sink. index is the position of the
// source file in the batch and keeps output names unique across inputs
// with identical basenames.
type Exporter interface {
	Export(ctx context.Context, table *tabulate.Table, index int) (path string, err error)
}

// Closer is implemented by exporters holding resources that outlive a
// single Export call.
type Closer interface {
	Close() error
}

// OutputName builds the per-file output name: the batch index, a double
// underscore, the source file's basename, and the sink's extension.
func OutputName(index int, source, ext string) string {
	return fmt.Sprintf("%d__%s%s", index, filepath.Base(source), ext)
}

// allowed applies the overwrite policy to path. It returns ErrSkipped when
// the file exists and neither Force nor Confirm permits replacing it.
func (o Options) allowed(path string) error {
	if o.Force {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking output file: %w", err)
	}
	if o.Confirm != nil && o.Confirm(path) {
		return nil
	}
	return fmt.Errorf("%s: %w", path, ErrSkipped)
}

// New returns the exporter for format: "csv", "sqlite", or "arrow".
func New(format string, opts Options) (Exporter, error) {
	switch format {
	case "csv":
		return NewCSV(opts), nil
	case "sqlite":
		return NewSQLite(opts), nil
	case "arrow":
		return NewArrow(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (valid: csv, sqlite, arrow)", format)
	}
}
