// Package tabulate reshapes a parsed log record into a rectangular table
// with one row per simulation iteration. Series of different lengths are
// merged by padding the short ones with missing cells up to the longest
// series (a ragged merge).
package tabulate

import (
	"errors"
	"strconv"

	"github.com/benchtools/flamelog/internal/logparse"
)

// ErrNoSeries reports a record with no instrumentation series at all. Such
// a record yields zero rows; callers distinguish this from a table that
// produced rows.
var ErrNoSeries = errors.New("record has no instrumentation series")

// Kind describes the value type of a column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// Column is one table column: a display name and a value kind.
type Column struct {
	Name string
	Kind Kind
}

// Cell is a single table value. A Cell with Valid false is a missing
// measurement, distinct from a numeric zero.
type Cell struct {
	Valid bool
	Str   string
	Int   int64
	Float float64
}

// MissingCell returns the missing-value sentinel.
func MissingCell() Cell { return Cell{} }

// StringCell returns a present string cell.
func StringCell(s string) Cell { return Cell{Valid: true, Str: s} }

// IntCell returns a present integer cell.
func IntCell(v int64) Cell { return Cell{Valid: true, Int: v} }

// FloatCell returns a present float cell.
func FloatCell(v float64) Cell { return Cell{Valid: true, Float: v} }

// String renders the cell for delimited-text output. Missing cells render
// as the empty token, never as zero.
func (c Cell) String(kind Kind) string {
	if !c.Valid {
		return ""
	}
	switch kind {
	case KindInt:
		return strconv.FormatInt(c.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	default:
		return c.Str
	}
}

// Table is the tabulated form of one log file. The column set is specific
// to the file: population labels and metric names differ between runs, so
// each file's table carries its own header.
type Table struct {
	// Source is the path of the log the table was built from.
	Source string

	// Columns lists the header in emission order.
	Columns []Column

	// Rows holds one cell slice per iteration, aligned with Columns.
	Rows [][]Cell
}

// Fixed leading columns of every table.
const (
	colFilename       = "filename"
	colProcessingTime = "total processing time (ms)"
	colIteration      = "iteration"
)

// Tabulate converts rec into a Table with one row per iteration. The row
// count is the maximum length over the record's instrumentation series;
// ErrNoSeries is returned when there are none. Within a row: the source
// path, the total processing time header field (missing when the field was
// absent, never a default), the iteration index, one count per population
// label (constant across rows), then one cell per metric holding the
// series value at that iteration or a missing cell when the series is
// shorter.
func Tabulate(rec *logparse.FileRecord) (*Table, error) {
	iterations := rec.Instrumentation.MaxLen()
	if iterations == 0 {
		return nil, ErrNoSeries
	}

	popLabels := rec.Population.Keys()
	metrics := rec.Instrumentation.Keys()

	columns := make([]Column, 0, 3+len(popLabels)+len(metrics))
	columns = append(columns,
		Column{Name: colFilename, Kind: KindString},
		Column{Name: colProcessingTime, Kind: KindString},
		Column{Name: colIteration, Kind: KindInt},
	)
	for _, label := range popLabels {
		columns = append(columns, Column{Name: label, Kind: KindInt})
	}
	for _, name := range metrics {
		columns = append(columns, Column{Name: name + " (ms)", Kind: KindFloat})
	}

	processingTime := MissingCell()
	if rec.Header.TotalProcessingTime != nil {
		processingTime = StringCell(*rec.Header.TotalProcessingTime)
	}

	rows := make([][]Cell, 0, iterations)
	for iteration := 0; iteration < iterations; iteration++ {
		row := make([]Cell, 0, len(columns))
		row = append(row, StringCell(rec.Source), processingTime, IntCell(int64(iteration)))
		for _, label := range popLabels {
			row = append(row, IntCell(int64(rec.Population.Count(label))))
		}
		for _, name := range metrics {
			series := rec.Instrumentation.Series(name)
			if iteration < len(series) {
				row = append(row, FloatCell(series[iteration]))
			} else {
				row = append(row, MissingCell())
			}
		}
		rows = append(rows, row)
	}

	return &Table{Source: rec.Source, Columns: columns, Rows: rows}, nil
}
