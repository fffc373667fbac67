package assay

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"
)

// -----------------------------------------------------------------------------
// Decode
// -----------------------------------------------------------------------------

// DecodeTable reads a Parquet file into a Table.
//
// Unlike a fixed-schema codec, the field list is discovered from the file's
// own schema; only flat (non-nested) schemas are supported. When columns is
// non-empty, a projected schema containing only those fields is derived and
// the reader decodes just that subset; requested columns absent from the
// file are skipped for that file rather than failing, since partitions are
// not required to share identical schemas.
//
// Integer cells normalize to int64 and floating-point cells to float64.
// Decode failures wrap ErrDecode.
func DecodeTable(r io.ReaderAt, size int64, columns []string) (*Table, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: open parquet: %w", ErrDecode, err)
	}

	schema := pf.Schema()
	for _, f := range schema.Fields() {
		if !f.Leaf() {
			return nil, fmt.Errorf("%w: nested field %q not supported", ErrDecode, f.Name())
		}
	}

	readSchema := schema
	if len(columns) > 0 {
		readSchema = projectSchema(schema, columns)
	}

	fields := readSchema.Fields()
	names := make([]string, len(fields))
	kinds := make([]Kind, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
		kinds[i] = fieldKind(f)
	}
	cells := make([][]any, len(fields))

	reader := parquet.NewReader(pf, readSchema)
	defer func() { _ = reader.Close() }()

	rows := make([]parquet.Row, 64)
	for {
		n, err := reader.ReadRows(rows)
		for i := 0; i < n; i++ {
			for _, v := range rows[i] {
				ci := v.Column()
				if ci < 0 || ci >= len(fields) {
					continue
				}
				if v.IsNull() {
					cells[ci] = append(cells[ci], nil)
					continue
				}
				cells[ci] = append(cells[ci], fromParquetValue(v, fields[ci], kinds[ci]))
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: read rows: %w", ErrDecode, err)
		}
	}

	t := NewTable()
	for i, name := range names {
		if cells[i] == nil {
			cells[i] = []any{}
		}
		if err := t.AddColumn(name, kinds[i], cells[i]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	}
	return t, nil
}

// projectSchema derives a schema holding only the requested leaf fields,
// preserving the source field definitions.
func projectSchema(schema *parquet.Schema, columns []string) *parquet.Schema {
	want := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		want[c] = struct{}{}
	}
	group := make(parquet.Group)
	for _, f := range schema.Fields() {
		if _, ok := want[f.Name()]; ok {
			group[f.Name()] = f
		}
	}
	return parquet.NewSchema(schema.Name(), group)
}

// fieldKind maps a Parquet leaf field to the Table kind it decodes to.
func fieldKind(f parquet.Field) Kind {
	if lt := f.Type().LogicalType(); lt != nil {
		switch {
		case lt.UTF8 != nil:
			return KindString
		case lt.Timestamp != nil, lt.Date != nil:
			return KindTime
		}
	}
	switch f.Type().Kind() {
	case parquet.Boolean:
		return KindBool
	case parquet.Int32, parquet.Int64:
		return KindInt
	case parquet.Float, parquet.Double:
		return KindFloat
	default:
		return KindBytes
	}
}

// fromParquetValue converts a non-null Parquet value to its Table cell.
func fromParquetValue(v parquet.Value, f parquet.Field, kind Kind) any {
	switch kind {
	case KindBool:
		return v.Boolean()
	case KindInt:
		if v.Kind() == parquet.Int32 {
			return int64(v.Int32())
		}
		return v.Int64()
	case KindFloat:
		if v.Kind() == parquet.Float {
			return float64(v.Float())
		}
		return v.Double()
	case KindString:
		return string(v.ByteArray())
	case KindTime:
		return timeFromValue(v, f)
	default:
		b := v.ByteArray()
		out := make([]byte, len(b))
		copy(out, b)
		return out
	}
}

// timeFromValue decodes timestamp and date logical types to UTC time.Time.
func timeFromValue(v parquet.Value, f parquet.Field) time.Time {
	lt := f.Type().LogicalType()
	if lt != nil && lt.Date != nil {
		return time.Unix(0, 0).UTC().AddDate(0, 0, int(v.Int32()))
	}
	n := v.Int64()
	if lt != nil && lt.Timestamp != nil {
		switch {
		case lt.Timestamp.Unit.Millis != nil:
			return time.UnixMilli(n).UTC()
		case lt.Timestamp.Unit.Micros != nil:
			return time.UnixMicro(n).UTC()
		}
	}
	return time.Unix(0, n).UTC()
}

// -----------------------------------------------------------------------------
// Encode
// -----------------------------------------------------------------------------

// EncodeTable writes a Table as a Parquet file with snappy-compressed pages.
//
// Every field is declared optional so null cells survive a round trip. The
// physical column order follows the derived schema (alphabetical), not the
// table's column order. Columns of KindInvalid (all nulls) encode as
// optional strings.
func EncodeTable(w io.Writer, t *Table) error {
	group := make(parquet.Group, t.NumCols())
	for _, name := range t.ColumnNames() {
		c, _ := t.Column(name)
		group[name] = parquet.Optional(kindNode(c.Kind()))
	}
	schema := parquet.NewSchema("table", group)
	fields := schema.Fields()

	rowBuf := parquet.NewBuffer(schema)
	for r := 0; r < t.NumRows(); r++ {
		row := make(parquet.Row, len(fields))
		for i, f := range fields {
			cell := t.Value(r, f.Name())
			if cell == nil {
				row[i] = parquet.NullValue().Level(0, 0, i)
				continue
			}
			pv, err := toParquetValue(cell, f.Name())
			if err != nil {
				return err
			}
			row[i] = pv.Level(0, 1, i)
		}
		if _, err := rowBuf.WriteRows([]parquet.Row{row}); err != nil {
			return fmt.Errorf("assay: encode row %d: %w", r, err)
		}
	}

	pw := parquet.NewWriter(w, schema, parquet.Compression(&parquet.Snappy))
	if _, err := pw.WriteRowGroup(rowBuf); err != nil {
		_ = pw.Close()
		return fmt.Errorf("assay: write row group: %w", err)
	}
	return pw.Close()
}

func kindNode(k Kind) parquet.Node {
	switch k {
	case KindBool:
		return parquet.Leaf(parquet.BooleanType)
	case KindInt:
		return parquet.Int(64)
	case KindFloat:
		return parquet.Leaf(parquet.DoubleType)
	case KindBytes:
		return parquet.Leaf(parquet.ByteArrayType)
	case KindTime:
		return parquet.Timestamp(parquet.Nanosecond)
	default:
		return parquet.String()
	}
}

func toParquetValue(cell any, field string) (parquet.Value, error) {
	switch v := cell.(type) {
	case bool:
		return parquet.BooleanValue(v), nil
	case int:
		return parquet.Int64Value(int64(v)), nil
	case int32:
		return parquet.Int64Value(int64(v)), nil
	case int64:
		return parquet.Int64Value(v), nil
	case float32:
		return parquet.DoubleValue(float64(v)), nil
	case float64:
		return parquet.DoubleValue(v), nil
	case string:
		return parquet.ByteArrayValue([]byte(v)), nil
	case []byte:
		return parquet.ByteArrayValue(v), nil
	case time.Time:
		return parquet.Int64Value(v.UnixNano()), nil
	default:
		return parquet.Value{}, fmt.Errorf("assay: field %q: unsupported cell type %T", field, cell)
	}
}
