package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// readParquetRecords returns the column names of a Parquet file followed by
// every row rendered as strings. Null cells read as the empty string.
func readParquetRecords(ctx context.Context, data []byte) ([][]string, error) {
	if len(data) == 0 {
		return nil, errors.New("empty parquet file")
	}

	// Parquet requires random access, so the whole file is held in memory
	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader from bytes: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	header := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}
	records := [][]string{header}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	for tableReader.Next() {
		batch := tableReader.Record()
		for i := 0; i < int(batch.NumRows()); i++ {
			row := make([]string, batch.NumCols())
			for j, col := range batch.Columns() {
				if col.IsNull(i) {
					continue
				}
				row[j] = col.ValueStr(i)
			}
			records = append(records, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}
	return records, nil
}

// parquetSchema is the typed column layout of exported records.
func parquetSchema() *arrow.Schema {
	fields := make([]arrow.Field, 0, len(exportHeader))
	for _, name := range exportHeader {
		var typ arrow.DataType = arrow.BinaryTypes.String
		switch name {
		case headerYear:
			typ = arrow.PrimitiveTypes.Int64
		case headerHighlight:
			typ = arrow.FixedWidthTypes.Boolean
		}
		fields = append(fields, arrow.Field{Name: name, Type: typ, Nullable: true})
	}
	return arrow.NewSchema(fields, nil)
}

// writeParquet writes records to w as a single row group.
func writeParquet(w io.Writer, records []Record) error {
	schema := parquetSchema()
	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for _, r := range records {
		for i, value := range recordFields(r) {
			switch b := builder.Field(i).(type) {
			case *array.Int64Builder:
				if r.Year == nil {
					b.AppendNull()
				} else {
					b.Append(int64(*r.Year))
				}
			case *array.BooleanBuilder:
				b.Append(r.Highlight)
			case *array.StringBuilder:
				if value == "" {
					b.AppendNull()
				} else {
					b.Append(value)
				}
			}
		}
	}

	rec := builder.NewRecord()
	defer rec.Release()

	// the parquet writer closes sinks that implement io.Closer, hide it
	sink := struct{ io.Writer }{w}
	writer, err := pqarrow.NewFileWriter(schema, sink, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write parquet records: %w", err)
	}
	return writer.Close()
}
