package assay

import (
	"fmt"
	"time"
)

// -----------------------------------------------------------------------------
// Column
// -----------------------------------------------------------------------------

// Column is a named, typed, nullable sequence of cells.
//
// Cells are dynamically held as any; a nil cell is a null. Non-null cells of
// a well-formed column hold the Go type matching the declared Kind (bool,
// int64, float64, string, []byte, or time.Time).
type Column struct {
	name  string
	kind  Kind
	cells []any
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the declared cell kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of cells, including nulls.
func (c *Column) Len() int { return len(c.cells) }

// Value returns the cell at row i. Nulls are nil.
func (c *Column) Value(i int) any { return c.cells[i] }

// Values returns the backing cell slice. The slice is shared with the
// column; callers must not modify it.
func (c *Column) Values() []any { return c.cells }

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.cells {
		if v == nil {
			n++
		}
	}
	return n
}

// DistinctCount returns the number of distinct non-null values.
func (c *Column) DistinctCount() int {
	seen := make(map[string]struct{})
	for _, v := range c.cells {
		if v == nil {
			continue
		}
		seen[distinctKey(v)] = struct{}{}
	}
	return len(seen)
}

// distinctKey produces a comparable representation of a cell. Byte slices
// and times are not directly comparable as map keys across decodes, so all
// values collapse to their printed form.
func distinctKey(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}

// -----------------------------------------------------------------------------
// Table
// -----------------------------------------------------------------------------

// Table is an ordered collection of equally sized columns.
//
// Column order is first-seen order and is preserved by every operation.
// Tables are not safe for concurrent mutation.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// NewTable creates an empty table with no columns and no rows.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column, or false if absent.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Value returns the cell at (row, column name). Returns nil for absent
// columns; callers that must distinguish nulls from absent columns should
// check HasColumn first.
func (t *Table) Value(row int, name string) any {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.cols[i].cells[row]
}

// AddColumn appends a column to the table. The cell count must match the
// table's row count unless the table has no columns yet, in which case the
// column defines the row count.
func (t *Table) AddColumn(name string, kind Kind, cells []any) error {
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("assay: column %q: %w", name, ErrColumnExists)
	}
	if len(t.cols) > 0 && len(cells) != t.rows {
		return fmt.Errorf("assay: column %q has %d cells, table has %d rows: %w",
			name, len(cells), t.rows, ErrLengthMismatch)
	}
	if len(t.cols) == 0 {
		t.rows = len(cells)
	}
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, &Column{name: name, kind: kind, cells: cells})
	return nil
}

// SetConstant adds a column populated uniformly with v. If the column
// already exists the table is left untouched: decoded data takes precedence
// over injected values.
func (t *Table) SetConstant(name string, v any) {
	if _, ok := t.index[name]; ok {
		return
	}
	cells := make([]any, t.rows)
	for i := range cells {
		cells[i] = v
	}
	_ = t.AddColumn(name, kindOf(v), cells)
}

// kindOf infers the Kind of a single scalar.
func kindOf(v any) Kind {
	switch v.(type) {
	case bool:
		return KindBool
	case int, int32, int64:
		return KindInt
	case float32, float64:
		return KindFloat
	case string:
		return KindString
	case []byte:
		return KindBytes
	case time.Time:
		return KindTime
	default:
		return KindInvalid
	}
}

// AppendTable concatenates other onto t using outer-union column semantics:
// the result's column set is the union of both tables' columns, in t's order
// followed by columns first seen in other; rows missing a column are filled
// with nulls. A shared column whose declared kinds disagree widens to
// KindString, the mixed-content marker. Cell values are never coerced.
func (t *Table) AppendTable(other *Table) {
	if other == nil || (other.rows == 0 && other.NumCols() == 0) {
		return
	}
	oldRows := t.rows

	// Extend existing columns, with values when other has the column.
	for _, c := range t.cols {
		if oc, ok := other.Column(c.name); ok {
			c.cells = append(c.cells, oc.cells...)
			switch {
			case c.kind == KindInvalid:
				c.kind = oc.kind
			case oc.kind != KindInvalid && oc.kind != c.kind:
				c.kind = KindString
			}
		} else {
			c.cells = append(c.cells, make([]any, other.rows)...)
		}
	}

	// Adopt columns t has not seen, null-filled for t's prior rows.
	for _, oc := range other.cols {
		if _, ok := t.index[oc.name]; ok {
			continue
		}
		cells := make([]any, oldRows, oldRows+other.rows)
		cells = append(cells, oc.cells...)
		t.index[oc.name] = len(t.cols)
		t.cols = append(t.cols, &Column{name: oc.name, kind: oc.kind, cells: cells})
	}

	t.rows += other.rows
}

// Select returns a new table containing only the named columns, in the
// given order. Absent names are skipped. Cell slices are shared, not
// copied; the result is a read-only view.
func (t *Table) Select(names ...string) *Table {
	out := NewTable()
	out.rows = t.rows
	for _, name := range names {
		if c, ok := t.Column(name); ok {
			out.index[c.name] = len(out.cols)
			out.cols = append(out.cols, c)
		}
	}
	if len(out.cols) == 0 {
		out.rows = 0
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable()
	out.rows = t.rows
	for _, c := range t.cols {
		cells := make([]any, len(c.cells))
		copy(cells, c.cells)
		out.index[c.name] = len(out.cols)
		out.cols = append(out.cols, &Column{name: c.name, kind: c.kind, cells: cells})
	}
	return out
}

// MemoryEstimate returns a rough deep size of the table in bytes. It counts
// cell payloads plus per-cell interface overhead; the estimate is meant for
// report diagnostics, not allocator accounting.
func (t *Table) MemoryEstimate() int64 {
	var total int64
	for _, c := range t.cols {
		total += int64(len(c.name)) + 48 // column header
		for _, v := range c.cells {
			total += 16 // interface word pair
			switch x := v.(type) {
			case nil:
			case string:
				total += int64(len(x)) + 16
			case []byte:
				total += int64(len(x)) + 24
			case time.Time:
				total += 24
			default:
				total += 8
			}
		}
	}
	return total
}
