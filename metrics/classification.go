package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// Confusion は 2×2 の混同行列
type Confusion struct {
	TP, TN, FP, FN int
}

// Total は行数を返す
func (c Confusion) Total() int { return c.TP + c.TN + c.FP + c.FN }

// ConfusionAt は確率がカットオフ以上の行を陽性と予測して混同行列を計算する
//
// パラメータ:
//   - yTrue: 0/1 の真のラベル
//   - proba: 陽性クラスの予測確率
//   - cutoff: [0,1] の閾値。proba == cutoff は陽性になる
func ConfusionAt(yTrue, proba []float64, cutoff float64) (Confusion, error) {
	if len(proba) != len(yTrue) {
		return Confusion{}, errors.NewDimensionError("ConfusionAt", len(yTrue), len(proba), 0)
	}
	if math.IsNaN(cutoff) || cutoff < 0 || cutoff > 1 {
		return Confusion{}, errors.NewValidationError("cutoff", "must be in [0, 1]", cutoff)
	}
	if err := validateLabels("ConfusionAt", yTrue); err != nil {
		return Confusion{}, err
	}

	var c Confusion
	for i, y := range yTrue {
		predicted := proba[i] >= cutoff
		switch {
		case y == 1 && predicted:
			c.TP++
		case y == 1:
			c.FN++
		case predicted:
			c.FP++
		default:
			c.TN++
		}
	}
	return c, nil
}

// Metrics は混同行列から分類指標を計算する。
// 分母が 0 になる指標はエラーではなく未定義になる。
func (c Confusion) Metrics() Classification {
	out := Classification{
		Accuracy:  ratio(c.TP+c.TN, c.Total()),
		Precision: ratio(c.TP, c.TP+c.FP),
		Recall:    ratio(c.TP, c.TP+c.FN),
	}
	if out.Precision.OK && out.Recall.OK {
		p, r := out.Precision.V, out.Recall.V
		if p+r > 0 {
			out.F1 = Defined(2 * p * r / (p + r))
		}
	}
	return out
}

// ClassificationAt は ConfusionAt と Metrics を続けて実行する
func ClassificationAt(yTrue, proba []float64, cutoff float64) (Classification, error) {
	c, err := ConfusionAt(yTrue, proba, cutoff)
	if err != nil {
		return Classification{}, err
	}
	return c.Metrics(), nil
}

// MeanClassification は指標ごとに算術平均をとる。
// 未定義の値は平均から除外し、すべて未定義の指標は未定義のままにする。
func MeanClassification(records []Classification) Classification {
	pick := []func(Classification) Value{
		func(c Classification) Value { return c.Accuracy },
		func(c Classification) Value { return c.Precision },
		func(c Classification) Value { return c.Recall },
		func(c Classification) Value { return c.F1 },
	}
	means := make([]Value, len(pick))
	buf := make([]float64, 0, len(records))
	for k, get := range pick {
		buf = buf[:0]
		for _, r := range records {
			if v := get(r); v.OK {
				buf = append(buf, v.V)
			}
		}
		if len(buf) > 0 {
			means[k] = Defined(floats.Sum(buf) / float64(len(buf)))
		}
	}
	return Classification{Accuracy: means[0], Precision: means[1], Recall: means[2], F1: means[3]}
}

func validateLabels(op string, yTrue []float64) error {
	for _, y := range yTrue {
		if y != 0 && y != 1 {
			return errors.NewValueError(op, "labels must be 0 or 1")
		}
	}
	return nil
}
