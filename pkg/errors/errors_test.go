package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Binomial.Fit",
			kind:    "singular matrix",
			err:     ErrSingularMatrix,
			wantMsg: "logiteval: Binomial.Fit: singular matrix: singular matrix",
		},
		{
			name:    "without original error",
			op:      "Binomial.Fit",
			kind:    "empty data",
			err:     nil,
			wantMsg: "logiteval: Binomial.Fit: empty data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			// 基本的なエラーメッセージの確認
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
			if tt.err != nil && !Is(err, tt.err) {
				t.Error("Expected wrapped cause to be reachable")
			}
		})
	}
}

func TestEvaluationErrors(t *testing.T) {
	t.Run("UnsupportedResponseType", func(t *testing.T) {
		err := NewUnsupportedResponseTypeError("y", "unknown")
		want := "logiteval: response column 'y' has unsupported type unknown"
		if err.Error() != want {
			t.Errorf("Error() = %v, want %v", err.Error(), want)
		}
		var target *UnsupportedResponseTypeError
		if !As(err, &target) || target.Column != "y" {
			t.Error("Error should be castable to *UnsupportedResponseTypeError")
		}
	})

	t.Run("DegenerateLabelSet", func(t *testing.T) {
		err := NewDegenerateLabelSetError("ROCCurve", 10, 0)
		want := "logiteval: ROCCurve: label set contains a single class (positives=10, negatives=0)"
		if err.Error() != want {
			t.Errorf("Error() = %v, want %v", err.Error(), want)
		}
		var target *DegenerateLabelSetError
		if !As(Wrap(err, "fold 1"), &target) {
			t.Error("wrapped error should still be a *DegenerateLabelSetError")
		}
	})

	t.Run("InvalidFoldCount", func(t *testing.T) {
		err := NewInvalidFoldCountError(1, 8)
		want := "logiteval: invalid fold count 1 for 8 rows: need 2 <= folds <= rows"
		if err.Error() != want {
			t.Errorf("Error() = %v, want %v", err.Error(), want)
		}
		var target *InvalidFoldCountError
		if !As(err, &target) || target.Folds != 1 || target.Rows != 8 {
			t.Error("Error should be castable to *InvalidFoldCountError")
		}
	})
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("ClassificationAt", 10, 9, 0)

	want := "logiteval: ClassificationAt: dimension mismatch on axis 0 (rows). Expected 10, got 9"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("Binomial", "PredictProba")

	want := "logiteval: Binomial: this model is not fitted yet. Call Fit() before using PredictProba()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("cutoff", "must be in [0, 1]", 1.5)

	want := "logiteval: validation failed for parameter 'cutoff': must be in [0, 1] (got: 1.5)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("IRLS", 25, "deviance still changing")

	want := "IRLS failed to converge after 25 iterations: deviance still changing"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}
}

func TestWarnUsesHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(error) {})

	Warn(NewDataConversionWarning("color", "text", "categorical", "predictor"))

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
	if !strings.Contains(got[0].Error(), "column 'color' converted from text to categorical") {
		t.Errorf("unexpected warning text %q", got[0].Error())
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: fold %d", "Evaluate", 3)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in Evaluate: fold 3") {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("irls_update", []float64{1, 2}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := CheckNumericalStability("irls_update", []float64{1, nanValue()}, 4)
	var target *NumericalInstabilityError
	if !As(err, &target) || target.Iteration != 4 {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
}

func TestClipValue(t *testing.T) {
	if ClipValue(-1, 0, 1) != 0 || ClipValue(2, 0, 1) != 1 || ClipValue(0.3, 0, 1) != 0.3 {
		t.Error("ClipValue returned an out-of-range value")
	}
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}
