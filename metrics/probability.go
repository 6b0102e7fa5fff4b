package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// logLossEps は対数損失で確率を [eps, 1-eps] に丸める幅
const logLossEps = 1e-15

// Brier はブライアスコア (1/n) Σ(p - y)² を計算する
//
// パラメータ:
//   - yTrue: 0/1 の正解ラベル
//   - proba: 陽性クラスの予測確率
//
// 戻り値:
//   - float64: 0 が最良、1 が最悪
//   - error: 空の入力、長さの不一致、0/1 以外のラベル
func Brier(yTrue, proba []float64) (float64, error) {
	if err := validateProba("Brier", yTrue, proba); err != nil {
		return 0, err
	}
	n := len(yTrue)
	diff := mat.NewVecDense(n, nil)
	diff.SubVec(mat.NewVecDense(n, proba), mat.NewVecDense(n, yTrue))
	return mat.Dot(diff, diff) / float64(n), nil
}

// LogLoss は二値交差エントロピー -(1/n) Σ[y log p + (1-y) log(1-p)] を計算する
//
// 確率 0 と 1 は有限の損失になるよう丸める。
func LogLoss(yTrue, proba []float64) (float64, error) {
	if err := validateProba("LogLoss", yTrue, proba); err != nil {
		return 0, err
	}
	var sum float64
	for i, y := range yTrue {
		p := errors.ClipValue(proba[i], logLossEps, 1-logLossEps)
		if y == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(len(yTrue)), nil
}

func validateProba(op string, yTrue, proba []float64) error {
	if len(yTrue) == 0 {
		return errors.NewValueError(op, "empty input")
	}
	if len(proba) != len(yTrue) {
		return errors.NewDimensionError(op, len(yTrue), len(proba), 0)
	}
	if err := validateLabels(op, yTrue); err != nil {
		return err
	}
	for _, p := range proba {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return errors.NewValueError(op, "probabilities must be in [0, 1]")
		}
	}
	return nil
}
