package metrics

import (
	"math"
	"testing"
)

func TestBrier(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		proba []float64
		want  float64
	}{
		{"Perfect", []float64{1, 0}, []float64{1, 0}, 0},
		{"Worst", []float64{1, 0}, []float64{0, 1}, 1},
		{"Coin flip", []float64{1, 0, 1, 0}, []float64{0.5, 0.5, 0.5, 0.5}, 0.25},
		{"Mixed", []float64{1, 0}, []float64{0.8, 0.4}, (0.04 + 0.16) / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Brier(tt.yTrue, tt.proba)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Brier() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogLoss(t *testing.T) {
	got, err := LogLoss([]float64{1, 0}, []float64{0.5, 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-math.Ln2) > 1e-12 {
		t.Errorf("LogLoss() = %v, want ln 2", got)
	}

	// 確率 0 の陽性でも有限
	got, err = LogLoss([]float64{1}, []float64{0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsInf(got, 0) || got < 30 {
		t.Errorf("LogLoss() = %v, want large finite value", got)
	}
}

func TestProbabilityMetricErrors(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		proba []float64
	}{
		{"Empty", nil, nil},
		{"Length mismatch", []float64{1, 0}, []float64{0.5}},
		{"Bad label", []float64{2}, []float64{0.5}},
		{"Out of range", []float64{1}, []float64{1.5}},
		{"NaN", []float64{1}, []float64{math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Brier(tt.yTrue, tt.proba); err == nil {
				t.Error("Brier: expected error")
			}
			if _, err := LogLoss(tt.yTrue, tt.proba); err == nil {
				t.Error("LogLoss: expected error")
			}
		})
	}
}
