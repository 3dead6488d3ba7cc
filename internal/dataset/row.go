package dataset

import "fmt"

// Row is a read-only view over one table row.
type Row struct {
	t     *Table
	cells []Value
}

// Get returns the cell for column and whether the column exists.
func (r Row) Get(column string) (Value, bool) {
	i, ok := r.t.index[column]
	if !ok {
		return Value{}, false
	}
	return r.cells[i], true
}

// Str returns the raw text of column, or "" when absent.
func (r Row) Str(column string) string {
	v, _ := r.Get(column)
	return v.str
}

// Float returns column as a number.
func (r Row) Float(column string) (float64, error) {
	v, ok := r.Get(column)
	if !ok {
		return 0, &MissingColumnError{Column: column}
	}
	if !v.isNum {
		return 0, fmt.Errorf("column %q: value %q is not numeric", column, v.str)
	}
	return v.num, nil
}

// Int returns column truncated to an int.
func (r Row) Int(column string) (int, error) {
	f, err := r.Float(column)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Vector returns the listed columns as float64s in order.
func (r Row) Vector(columns []string) ([]float64, error) {
	out := make([]float64, len(columns))
	for i, c := range columns {
		f, err := r.Float(c)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
