package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"

	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// ROC は ROC 曲線とその下の面積
type ROC struct {
	// FPR, TPR は (0,0) から始まり、確率の降順に 1 行ずつ進む階段
	FPR []float64
	TPR []float64

	// Thresholds[i] は点 i に到達した行の確率。先頭の (0,0) は +Inf
	Thresholds []float64

	AUC float64
}

// ROCCurve は ROC 曲線と台形則による AUC を計算する
//
// 行は確率の降順に安定ソートされるため、同じ確率の行は元の順序で曲線に現れる。
// AUC は同順位グループの末尾の点だけで積分するので、同順位の並びに依存しない。
//
// 戻り値:
//   - *ROC: 曲線と AUC
//   - error: 陽性または陰性が 1 行もない場合は DegenerateLabelSetError
func ROCCurve(yTrue, proba []float64) (*ROC, error) {
	if len(proba) != len(yTrue) {
		return nil, errors.NewDimensionError("ROCCurve", len(yTrue), len(proba), 0)
	}
	if err := validateLabels("ROCCurve", yTrue); err != nil {
		return nil, err
	}
	for _, p := range proba {
		if math.IsNaN(p) {
			return nil, errors.NewValueError("ROCCurve", "probabilities contain NaN")
		}
	}

	var pos, neg int
	for _, y := range yTrue {
		if y == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil, errors.NewDegenerateLabelSetError("ROCCurve", pos, neg)
	}

	order := make([]int, len(proba))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return proba[order[a]] > proba[order[b]] })

	n := len(order)
	roc := &ROC{
		FPR:        make([]float64, n+1),
		TPR:        make([]float64, n+1),
		Thresholds: make([]float64, n+1),
	}
	roc.Thresholds[0] = math.Inf(1)

	// 同順位グループ末尾の累積 (FP, TP) 件数（原点を含む）。
	// 件数のまま積分してから P*N で割るので、完全分離は厳密に 1 になる。
	xs := []float64{0}
	ys := []float64{0}

	var tp, fp int
	for k, i := range order {
		if yTrue[i] == 1 {
			tp++
		} else {
			fp++
		}
		roc.FPR[k+1] = float64(fp) / float64(neg)
		roc.TPR[k+1] = float64(tp) / float64(pos)
		roc.Thresholds[k+1] = proba[i]

		if k == n-1 || proba[order[k+1]] != proba[i] {
			xs = append(xs, float64(fp))
			ys = append(ys, float64(tp))
		}
	}

	roc.AUC = integrate.Trapezoidal(xs, ys) / (float64(pos) * float64(neg))
	return roc, nil
}

// AUC は ROC 曲線下の面積だけを返す
func AUC(yTrue, proba []float64) (float64, error) {
	roc, err := ROCCurve(yTrue, proba)
	if err != nil {
		return 0, err
	}
	return roc.AUC, nil
}
