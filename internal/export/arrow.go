package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/benchtools/flamelog/internal/tabulate"
)

// ArrowExporter writes one Arrow IPC file per table. Missing cells become
// Arrow nulls, so downstream columnar tools see them as absent rather than
// zero.
type ArrowExporter struct {
	opts  Options
	alloc memory.Allocator
}

// NewArrow returns an ArrowExporter writing under opts.Dir.
func NewArrow(opts Options) *ArrowExporter {
	return &ArrowExporter{opts: opts, alloc: memory.NewGoAllocator()}
}

// Export writes table to <index>__<basename>.arrow and returns the path.
func (e *ArrowExporter) Export(ctx context.Context, table *tabulate.Table, index int) (string, error) {
	path := filepath.Join(e.opts.Dir, OutputName(index, table.Source, ".arrow"))
	if err := e.opts.allowed(path); err != nil {
		return "", err
	}

	fields := make([]arrow.Field, len(table.Columns))
	for i, col := range table.Columns {
		fields[i] = arrow.Field{Name: col.Name, Type: arrowType(col.Kind), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(e.alloc, schema)
	defer builder.Release()

	for _, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		for i, cell := range row {
			appendCell(builder.Field(i), cell, table.Columns[i].Kind)
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(e.alloc))
	if err != nil {
		return "", fmt.Errorf("creating IPC writer: %w", err)
	}
	if err := w.Write(record); err != nil {
		w.Close()
		return "", fmt.Errorf("writing record batch: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing IPC writer: %w", err)
	}
	return path, nil
}

func arrowType(kind tabulate.Kind) arrow.DataType {
	switch kind {
	case tabulate.KindInt:
		return arrow.PrimitiveTypes.Int64
	case tabulate.KindFloat:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

func appendCell(b array.Builder, cell tabulate.Cell, kind tabulate.Kind) {
	if !cell.Valid {
		b.AppendNull()
		return
	}
	switch kind {
	case tabulate.KindInt:
		b.(*array.Int64Builder).Append(cell.Int)
	case tabulate.KindFloat:
		b.(*array.Float64Builder).Append(cell.Float)
	default:
		b.(*array.StringBuilder).Append(cell.Str)
	}
}
