package dataset

import (
	"fmt"
	"sort"

	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// Frame is an ordered sequence of rows stored column-wise.
// A Frame is never mutated after construction; Subset returns a new one.
type Frame struct {
	names []string
	cols  map[string]Column
	nrows int
}

// NewFrame builds a Frame from columns of equal length and unique names.
func NewFrame(cols ...Column) (*Frame, error) {
	f := &Frame{cols: make(map[string]Column, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, errors.NewValidationError("columns", "nil column", i)
		}
		if _, dup := f.cols[c.Name()]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", c.Name())
		}
		if i == 0 {
			f.nrows = c.Len()
		} else if c.Len() != f.nrows {
			return nil, errors.NewDimensionError("NewFrame", f.nrows, c.Len(), 0)
		}
		f.names = append(f.names, c.Name())
		f.cols[c.Name()] = c
	}
	return f, nil
}

// FromRecords builds a Frame from row records. All records must carry the
// same keys; columns are ordered by key. Each column's type is resolved from
// its values: numbers become Numeric, bools Boolean, strings Text and any
// other Go type Other. A column mixing these is rejected.
func FromRecords(records []map[string]any) (*Frame, error) {
	if len(records) == 0 {
		return nil, errors.NewModelError("FromRecords", "empty data", errors.ErrEmptyData)
	}
	keys := make([]string, 0, len(records[0]))
	for k := range records[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, rec := range records {
		if len(rec) != len(keys) {
			return nil, errors.NewValidationError("records", fmt.Sprintf("record %d has %d fields, want %d", i, len(rec), len(keys)), rec)
		}
	}

	cols := make([]Column, 0, len(keys))
	for _, k := range keys {
		values := make([]any, len(records))
		for i, rec := range records {
			v, ok := rec[k]
			if !ok {
				return nil, errors.NewValidationError("records", fmt.Sprintf("record %d is missing column %q", i, k), rec)
			}
			values[i] = v
		}
		col, err := resolveColumn(k, values)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return NewFrame(cols...)
}

func resolveColumn(name string, values []any) (Column, error) {
	kind := kindOf(values[0])
	for i, v := range values {
		if kindOf(v) != kind {
			return nil, errors.NewValidationError(name,
				fmt.Sprintf("row %d has type %T, column is %s", i, v, kind), v)
		}
	}
	switch kind {
	case KindNumeric:
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = toFloat(v)
		}
		return NewNumeric(name, out), nil
	case KindBoolean:
		out := make([]bool, len(values))
		for i, v := range values {
			out[i] = v.(bool)
		}
		return NewBoolean(name, out), nil
	case KindText:
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = v.(string)
		}
		return NewText(name, out), nil
	default:
		return NewOther(name, values), nil
	}
}

func kindOf(v any) Kind {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindNumeric
	case bool:
		return KindBoolean
	case string:
		return KindText
	default:
		return KindOther
	}
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	}
	panic(fmt.Sprintf("dataset: %T is not numeric", v))
}

// NRows returns the number of rows.
func (f *Frame) NRows() int { return f.nrows }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Column returns the named column.
func (f *Frame) Column(name string) (Column, bool) {
	c, ok := f.cols[name]
	return c, ok
}

// Has reports whether the frame has a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Subset returns a new Frame holding the given rows in the given order.
func (f *Frame) Subset(rows []int) (*Frame, error) {
	for _, r := range rows {
		if r < 0 || r >= f.nrows {
			return nil, errors.NewValueError("Frame.Subset", fmt.Sprintf("row %d out of range [0, %d)", r, f.nrows))
		}
	}
	out := &Frame{
		names: f.names,
		cols:  make(map[string]Column, len(f.cols)),
		nrows: len(rows),
	}
	for name, c := range f.cols {
		out.cols[name] = c.take(rows)
	}
	return out, nil
}

// WithColumn returns a copy of the frame with c added, or replacing the
// column of the same name.
func (f *Frame) WithColumn(c Column) (*Frame, error) {
	if c.Len() != f.nrows {
		return nil, errors.NewDimensionError("Frame.WithColumn", f.nrows, c.Len(), 0)
	}
	out := &Frame{
		names: f.names,
		cols:  make(map[string]Column, len(f.cols)+1),
		nrows: f.nrows,
	}
	for name, col := range f.cols {
		out.cols[name] = col
	}
	if _, exists := out.cols[c.Name()]; !exists {
		out.names = append(append([]string(nil), f.names...), c.Name())
	}
	out.cols[c.Name()] = c
	return out, nil
}

// Rename returns column c under a new name.
func Rename(c Column, name string) Column { return c.rename(name) }
