// Package formula parses model formulas of the form "response ~ a + b" or
// "response ~ ." and resolves them against a dataset.Frame.
package formula

import (
	"strings"

	"github.com/YuminosukeSato/logiteval/dataset"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// Formula names the response column and the predictor terms.
// All is set for "response ~ .", in which case Terms holds any extra
// explicit terms and every other column is a predictor.
type Formula struct {
	Response string
	Terms    []string
	All      bool
}

// Parse parses a formula string. Whitespace around names is ignored.
func Parse(s string) (Formula, error) {
	lhs, rhs, ok := strings.Cut(s, "~")
	if !ok {
		return Formula{}, errors.NewValidationError("formula", "missing '~'", s)
	}
	response := strings.TrimSpace(lhs)
	if response == "" {
		return Formula{}, errors.NewValidationError("formula", "empty response", s)
	}
	if strings.Contains(rhs, "~") {
		return Formula{}, errors.NewValidationError("formula", "more than one '~'", s)
	}

	f := Formula{Response: response}
	seen := make(map[string]struct{})
	for _, term := range strings.Split(rhs, "+") {
		term = strings.TrimSpace(term)
		switch {
		case term == "":
			return Formula{}, errors.NewValidationError("formula", "empty term", s)
		case term == ".":
			f.All = true
			continue
		case term == response:
			return Formula{}, errors.NewValidationError("formula", "response used as predictor", s)
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		f.Terms = append(f.Terms, term)
	}
	return f, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Formula {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// String renders the formula in canonical form.
func (f Formula) String() string {
	terms := make([]string, 0, len(f.Terms)+1)
	if f.All {
		terms = append(terms, ".")
	}
	terms = append(terms, f.Terms...)
	return f.Response + " ~ " + strings.Join(terms, " + ")
}

// Resolve checks that every named column exists in frame and returns the
// predictor columns in order: explicit terms first, then for "." the
// remaining frame columns in frame order.
func (f Formula) Resolve(frame *dataset.Frame) ([]string, error) {
	if !frame.Has(f.Response) {
		return nil, errors.NewValidationError("formula", "response column not found", f.Response)
	}
	out := make([]string, 0, len(f.Terms))
	seen := map[string]struct{}{f.Response: {}}
	for _, t := range f.Terms {
		if !frame.Has(t) {
			return nil, errors.NewValidationError("formula", "predictor column not found", t)
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if f.All {
		for _, name := range frame.Names() {
			if _, ok := seen[name]; !ok {
				out = append(out, name)
			}
		}
	}
	if len(out) == 0 {
		return nil, errors.NewValidationError("formula", "no predictors", f.String())
	}
	return out, nil
}
