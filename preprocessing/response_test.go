package preprocessing

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/YuminosukeSato/logiteval/dataset"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

func ptr(s string) *string { return &s }

func TestNormalizeResponse_NumericIdentity(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	for trial := 0; trial < 20; trial++ {
		values := make([]float64, 1+r.IntN(30))
		for i := range values {
			values[i] = float64(r.IntN(2))
		}
		got, err := NormalizeResponse(dataset.NewNumeric("y", values), nil)
		if err != nil {
			t.Fatalf("trial %d: unexpected error: %v", trial, err)
		}
		if !reflect.DeepEqual(got.Values, values) {
			t.Errorf("trial %d: got %v, want %v", trial, got.Values, values)
		}
	}
}

func TestNormalizeResponse_NumericOutsideZeroOne(t *testing.T) {
	_, err := NormalizeResponse(dataset.NewNumeric("y", []float64{0, 1, 2}), nil)
	var valErr *errors.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestNormalizeResponse_Boolean(t *testing.T) {
	col := dataset.NewBoolean("y", []bool{true, false, true})

	tests := []struct {
		name     string
		baseline *string
		want     []float64
		levels   [2]string
		wantErr  bool
	}{
		{name: "default", want: []float64{1, 0, 1}, levels: [2]string{"false", "true"}},
		{name: "baseline false", baseline: ptr("false"), want: []float64{1, 0, 1}, levels: [2]string{"false", "true"}},
		{name: "baseline true", baseline: ptr("TRUE"), want: []float64{0, 1, 0}, levels: [2]string{"true", "false"}},
		{name: "baseline not boolean", baseline: ptr("maybe"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeResponse(col, tt.baseline)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got.Values, tt.want) {
				t.Errorf("Values = %v, want %v", got.Values, tt.want)
			}
			if got.Levels != tt.levels {
				t.Errorf("Levels = %v, want %v", got.Levels, tt.levels)
			}
		})
	}
}

// The baseline always encodes to 0, whatever order the values appear in.
func TestNormalizeResponse_TextBaseline(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	labels := []string{"yes", "no"}

	for trial := 0; trial < 50; trial++ {
		n := 2 + r.IntN(20)
		values := make([]string, n)
		values[0], values[1] = labels[0], labels[1]
		for i := 2; i < n; i++ {
			values[i] = labels[r.IntN(2)]
		}
		r.Shuffle(n, func(i, j int) { values[i], values[j] = values[j], values[i] })

		for _, base := range labels {
			got, err := NormalizeResponse(dataset.NewText("y", values), ptr(base))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Levels[0] != base {
				t.Errorf("Levels[0] = %q, want %q", got.Levels[0], base)
			}
			for i, v := range values {
				want := 1.0
				if v == base {
					want = 0
				}
				if got.Values[i] != want {
					t.Fatalf("trial %d baseline %q: row %d (%q) = %v, want %v", trial, base, i, v, got.Values[i], want)
				}
			}
		}
	}
}

func TestNormalizeResponse_TextDefaultOrder(t *testing.T) {
	got, err := NormalizeResponse(dataset.NewText("y", []string{"yes", "no", "yes"}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Levels != [2]string{"no", "yes"} {
		t.Errorf("Levels = %v, want lexicographic [no yes]", got.Levels)
	}
	if !reflect.DeepEqual(got.Values, []float64{1, 0, 1}) {
		t.Errorf("Values = %v", got.Values)
	}
}

func TestNormalizeResponse_Categorical(t *testing.T) {
	cat, err := dataset.NewCategorical("y", []string{"lo", "hi", "hi"}, []string{"hi", "lo"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := NormalizeResponse(cat, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got.Values, []float64{1, 0, 0}) {
		t.Errorf("declared order: Values = %v", got.Values)
	}

	got, err = NormalizeResponse(cat, ptr("lo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got.Values, []float64{0, 1, 1}) {
		t.Errorf("baseline lo: Values = %v", got.Values)
	}
}

func TestNormalizeResponse_Errors(t *testing.T) {
	three, _ := dataset.NewCategorical("y", []string{"a", "b", "c"}, nil)

	tests := []struct {
		name     string
		col      dataset.Column
		baseline *string
		check    func(error) bool
	}{
		{
			name: "unsupported type",
			col:  dataset.NewOther("y", []any{struct{}{}, struct{}{}}),
			check: func(err error) bool {
				var e *errors.UnsupportedResponseTypeError
				return errors.As(err, &e) && e.Column == "y" && e.Kind == "other"
			},
		},
		{
			name: "three levels",
			col:  three,
			check: func(err error) bool {
				var e *errors.ValidationError
				return errors.As(err, &e)
			},
		},
		{
			name:     "unknown baseline",
			col:      dataset.NewText("y", []string{"a", "b"}),
			baseline: ptr("c"),
			check: func(err error) bool {
				var e *errors.ValidationError
				return errors.As(err, &e)
			},
		},
		{
			name:     "numeric baseline other than 0",
			col:      dataset.NewNumeric("y", []float64{0, 1}),
			baseline: ptr("1"),
			check: func(err error) bool {
				var e *errors.ValidationError
				return errors.As(err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeResponse(tt.col, tt.baseline)
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeResponse_SingleLevel(t *testing.T) {
	got, err := NormalizeResponse(dataset.NewText("y", []string{"yes", "yes"}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Positives() != 0 {
		t.Errorf("Positives = %d, want 0", got.Positives())
	}

	got, err = NormalizeResponse(dataset.NewText("y", []string{"yes", "yes"}), ptr("no"))
	if err == nil {
		t.Errorf("expected error for baseline outside the single level, got %v", got)
	}
}

func TestResponseSubset(t *testing.T) {
	r := Response{Values: []float64{0, 1, 1, 0}, Levels: [2]string{"n", "y"}}
	sub := r.Subset([]int{2, 0})
	if !reflect.DeepEqual(sub.Values, []float64{1, 0}) || sub.Levels != r.Levels {
		t.Errorf("Subset = %+v", sub)
	}
}
