// Package dataset implements the small immutable table the handlers work on.
//
// Every operation returns a new Table; row slices are shared between tables
// and never written after construction, so a Table can be read from any
// number of goroutines.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Value is one cell. Cells that parse as numbers are kept as float64.
type Value struct {
	str   string
	num   float64
	isNum bool
}

func Number(f float64) Value { return Value{num: f, isNum: true, str: strconv.FormatFloat(f, 'f', -1, 64)} }
func Text(s string) Value    { return Value{str: s} }

// Parse turns a raw CSV cell into a Value. Boolean literals ("True",
// "false") become 1 and 0 so flag columns can feed a model.
func Parse(raw string) Value {
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Value{str: raw, num: f, isNum: true}
	}
	switch strings.ToLower(raw) {
	case "true":
		return Value{str: raw, num: 1, isNum: true}
	case "false":
		return Value{str: raw, num: 0, isNum: true}
	}
	return Value{str: raw}
}

func (v Value) IsNumber() bool { return v.isNum }
func (v Value) String() string { return v.str }

func (v Value) Float() (float64, bool) { return v.num, v.isNum }

// Interface returns the value as it should appear in JSON output.
// Non-finite numbers become nil.
func (v Value) Interface() any {
	if v.isNum {
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil
		}
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1<<53 {
			return int64(v.num)
		}
		return v.num
	}
	return v.str
}

// Table is an ordered set of named columns over rows of Values.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New builds a table from Go values (int, int64, float64, string, bool or Value).
func New(columns []string, rows ...[]any) (*Table, error) {
	t := empty(columns)
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(r), len(columns))
		}
		out := make([]Value, len(r))
		for j, cell := range r {
			v, err := toValue(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i, columns[j], err)
			}
			out[j] = v
		}
		t.rows = append(t.rows, out)
	}
	return t, nil
}

// MustNew is New for fixtures; it panics on malformed input.
func MustNew(columns []string, rows ...[]any) *Table {
	t, err := New(columns, rows...)
	if err != nil {
		panic(err)
	}
	return t
}

func toValue(cell any) (Value, error) {
	switch c := cell.(type) {
	case Value:
		return c, nil
	case string:
		return Text(c), nil
	case int:
		return Number(float64(c)), nil
	case int64:
		return Number(float64(c)), nil
	case float64:
		return Number(c), nil
	case bool:
		if c {
			return Number(1), nil
		}
		return Number(0), nil
	case nil:
		return Text(""), nil
	default:
		return Value{}, fmt.Errorf("unsupported cell type %T", cell)
	}
}

func empty(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := idx[c]; !dup {
			idx[c] = i
		}
	}
	return &Table{columns: cols, index: idx}
}

func (t *Table) derive(rows [][]Value) *Table {
	return &Table{columns: t.columns, index: t.index, rows: rows}
}

func (t *Table) Len() int { return len(t.rows) }

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Require returns a *MissingColumnError for the first absent column.
func (t *Table) Require(columns ...string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return &MissingColumnError{Column: c}
		}
	}
	return nil
}

// Row returns a read-only view of row i.
func (t *Table) Row(i int) Row { return Row{t: t, cells: t.rows[i]} }

// Filter keeps the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := make([][]Value, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(Row{t: t, cells: r}) {
			out = append(out, r)
		}
	}
	return t.derive(out)
}

// DedupBy keeps the first row for each distinct value of column.
func (t *Table) DedupBy(column string) (*Table, error) {
	ci, ok := t.index[column]
	if !ok {
		return nil, &MissingColumnError{Column: column}
	}
	seen := make(map[string]struct{}, len(t.rows))
	out := make([][]Value, 0, len(t.rows))
	for _, r := range t.rows {
		key := r[ci].str
		if r[ci].isNum {
			key = strconv.FormatFloat(r[ci].num, 'f', -1, 64)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return t.derive(out), nil
}

// SortBy orders rows by column. Numbers sort before text; ties keep their
// original order.
func (t *Table) SortBy(column string, desc bool) (*Table, error) {
	ci, ok := t.index[column]
	if !ok {
		return nil, &MissingColumnError{Column: column}
	}
	out := make([][]Value, len(t.rows))
	copy(out, t.rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i][ci], out[j][ci]
		if a.isNum != b.isNum {
			// text (missing values included) goes last in either direction
			return a.isNum
		}
		if desc {
			return less(b, a)
		}
		return less(a, b)
	})
	return t.derive(out), nil
}

func less(a, b Value) bool {
	if a.isNum {
		return a.num < b.num
	}
	return a.str < b.str
}

// Head returns at most n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n >= len(t.rows) {
		return t.derive(t.rows)
	}
	return t.derive(t.rows[:n])
}

// Project keeps the listed columns that exist, in the listed order.
func (t *Table) Project(columns ...string) *Table {
	keep := make([]string, 0, len(columns))
	pos := make([]int, 0, len(columns))
	for _, c := range columns {
		if i, ok := t.index[c]; ok {
			keep = append(keep, c)
			pos = append(pos, i)
		}
	}
	out := empty(keep)
	out.rows = make([][]Value, len(t.rows))
	for r, row := range t.rows {
		cells := make([]Value, len(pos))
		for j, i := range pos {
			cells[j] = row[i]
		}
		out.rows[r] = cells
	}
	return out
}

// Ensure appends every listed column that is absent, filled with "".
func (t *Table) Ensure(columns ...string) *Table {
	out := t
	for _, c := range columns {
		if out.HasColumn(c) {
			continue
		}
		vals := make([]Value, out.Len())
		for i := range vals {
			vals[i] = Text("")
		}
		out = out.WithColumn(c, vals)
	}
	return out
}

// WithColumn adds column (or replaces it when present) with one value per row.
func (t *Table) WithColumn(name string, values []Value) *Table {
	if len(values) != len(t.rows) {
		panic(fmt.Sprintf("dataset: WithColumn %q got %d values for %d rows", name, len(values), len(t.rows)))
	}
	ci, exists := t.index[name]
	cols := t.columns
	if !exists {
		cols = append(t.Columns(), name)
	}
	out := empty(cols)
	out.rows = make([][]Value, len(t.rows))
	for r, row := range t.rows {
		cells := make([]Value, len(cols))
		copy(cells, row)
		if exists {
			cells[ci] = values[r]
		} else {
			cells[len(cols)-1] = values[r]
		}
		out.rows[r] = cells
	}
	return out
}

// Records renders the table as JSON-ready objects.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, 0, len(t.rows))
	for _, row := range t.rows {
		rec := make(map[string]any, len(t.columns))
		for i, c := range t.columns {
			rec[c] = row[i].Interface()
		}
		out = append(out, rec)
	}
	return out
}

// Matrix extracts the given columns of every row as float64s, in order.
func (t *Table) Matrix(columns []string) ([][]float64, error) {
	if err := t.Require(columns...); err != nil {
		return nil, err
	}
	out := make([][]float64, len(t.rows))
	for r := range t.rows {
		vec, err := t.Row(r).Vector(columns)
		if err != nil {
			return nil, err
		}
		out[r] = vec
	}
	return out, nil
}

// GroupByInt splits rows by the integer value of column, keeping row order
// within each group. Rows with a non-numeric value are dropped.
func (t *Table) GroupByInt(column string) (map[int]*Table, error) {
	ci, ok := t.index[column]
	if !ok {
		return nil, &MissingColumnError{Column: column}
	}
	groups := make(map[int][][]Value)
	for _, r := range t.rows {
		if !r[ci].isNum {
			continue
		}
		k := int(r[ci].num)
		groups[k] = append(groups[k], r)
	}
	out := make(map[int]*Table, len(groups))
	for k, rows := range groups {
		out[k] = t.derive(rows)
	}
	return out, nil
}
