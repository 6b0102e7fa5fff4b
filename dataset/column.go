// Package dataset holds the row table the fitter and the evaluation engine
// consume: an ordered set of equally long, homogeneously typed columns.
package dataset

import (
	"fmt"
	"sort"

	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// Kind tags the variant of a Column.
type Kind int

const (
	KindNumeric Kind = iota
	KindBoolean
	KindCategorical
	KindText
	// KindOther holds values of a Go type the table does not interpret.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBoolean:
		return "boolean"
	case KindCategorical:
		return "categorical"
	case KindText:
		return "text"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column is one of *Numeric, *Boolean, *Categorical, *Text or *Other.
// The set is closed; consumers switch on the concrete type.
type Column interface {
	Name() string
	Kind() Kind
	Len() int

	take(rows []int) Column
	rename(name string) Column
}

// Numeric is a float64 column.
type Numeric struct {
	name   string
	Values []float64
}

// NewNumeric creates a numeric column. values is not copied.
func NewNumeric(name string, values []float64) *Numeric {
	return &Numeric{name: name, Values: values}
}

func (c *Numeric) Name() string { return c.name }
func (c *Numeric) Kind() Kind   { return KindNumeric }
func (c *Numeric) Len() int     { return len(c.Values) }

func (c *Numeric) take(rows []int) Column {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = c.Values[r]
	}
	return &Numeric{name: c.name, Values: out}
}

func (c *Numeric) rename(name string) Column { return &Numeric{name: name, Values: c.Values} }

// Boolean is a bool column.
type Boolean struct {
	name   string
	Values []bool
}

// NewBoolean creates a boolean column. values is not copied.
func NewBoolean(name string, values []bool) *Boolean {
	return &Boolean{name: name, Values: values}
}

func (c *Boolean) Name() string { return c.name }
func (c *Boolean) Kind() Kind   { return KindBoolean }
func (c *Boolean) Len() int     { return len(c.Values) }

func (c *Boolean) take(rows []int) Column {
	out := make([]bool, len(rows))
	for i, r := range rows {
		out[i] = c.Values[r]
	}
	return &Boolean{name: c.name, Values: out}
}

func (c *Boolean) rename(name string) Column { return &Boolean{name: name, Values: c.Values} }

// Text is a free-form string column. The fitter coerces it to Categorical.
type Text struct {
	name   string
	Values []string
}

// NewText creates a text column. values is not copied.
func NewText(name string, values []string) *Text {
	return &Text{name: name, Values: values}
}

func (c *Text) Name() string { return c.name }
func (c *Text) Kind() Kind   { return KindText }
func (c *Text) Len() int     { return len(c.Values) }

func (c *Text) take(rows []int) Column {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = c.Values[r]
	}
	return &Text{name: c.name, Values: out}
}

func (c *Text) rename(name string) Column { return &Text{name: name, Values: c.Values} }

// Categorical stores each row as an index into Levels.
// Levels keep their order when rows are subset, so a fold sees the same
// level coding as the full table.
type Categorical struct {
	name   string
	Levels []string
	Codes  []int
}

// NewCategorical encodes values against levels. With nil levels the
// distinct values are used in lexicographic order. A value missing from
// an explicit level list is an error.
func NewCategorical(name string, values []string, levels []string) (*Categorical, error) {
	if levels == nil {
		levels = UniqueSorted(values)
	}
	index := make(map[string]int, len(levels))
	for i, l := range levels {
		if _, dup := index[l]; dup {
			return nil, errors.NewValidationError(name, "duplicate level", l)
		}
		index[l] = i
	}
	codes := make([]int, len(values))
	for i, v := range values {
		code, ok := index[v]
		if !ok {
			return nil, errors.NewValidationError(name, "value is not a declared level", v)
		}
		codes[i] = code
	}
	return &Categorical{name: name, Levels: levels, Codes: codes}, nil
}

// Coerce turns a Text column into a Categorical with lexicographic levels.
func Coerce(c *Text) *Categorical {
	cat, _ := NewCategorical(c.name, c.Values, nil)
	return cat
}

func (c *Categorical) Name() string { return c.name }
func (c *Categorical) Kind() Kind   { return KindCategorical }
func (c *Categorical) Len() int     { return len(c.Codes) }

// Value returns the level label of row i.
func (c *Categorical) Value(i int) string { return c.Levels[c.Codes[i]] }

func (c *Categorical) take(rows []int) Column {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = c.Codes[r]
	}
	return &Categorical{name: c.name, Levels: c.Levels, Codes: out}
}

func (c *Categorical) rename(name string) Column {
	return &Categorical{name: name, Levels: c.Levels, Codes: c.Codes}
}

// Other carries values of an uninterpreted Go type.
type Other struct {
	name   string
	Values []any
}

// NewOther creates a column of uninterpreted values.
func NewOther(name string, values []any) *Other {
	return &Other{name: name, Values: values}
}

func (c *Other) Name() string { return c.name }
func (c *Other) Kind() Kind   { return KindOther }
func (c *Other) Len() int     { return len(c.Values) }

func (c *Other) take(rows []int) Column {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = c.Values[r]
	}
	return &Other{name: c.name, Values: out}
}

func (c *Other) rename(name string) Column { return &Other{name: name, Values: c.Values} }

// UniqueSorted returns the distinct values in lexicographic order.
func UniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
