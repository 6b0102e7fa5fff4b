package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/logiteval/core/model"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// minScale 未満の標準偏差は 1 として扱う
const minScale = 1e-8

// StandardScaler は設計行列の各列を平均 0、標準偏差 1 に変換する
//
// IRLS の条件数を下げるために使い、係数は BackTransform で元の尺度に戻す。
type StandardScaler struct {
	state *model.StateManager

	// Mean は各列の平均値
	Mean []float64

	// Scale は各列の母標準偏差
	Scale []float64
}

// NewStandardScaler は未学習の StandardScaler を作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler()
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{state: model.NewStateManager()}
}

// Fit は各列の平均と標準偏差を計算する
//
// パラメータ:
//   - X: 訓練データ (n_samples × n_features の行列)
//
// 戻り値:
//   - error: 空の行列の場合 ModelError
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)
		s.Mean[j] = mean
		s.Scale[j] = std
		// 定数列はゼロ除算を避けるため 1 にする
		if s.Scale[j] < minScale {
			s.Scale[j] = 1.0
		}
	}

	s.state.SetFitted(c, r, 0)
	return nil
}

// Transform は学習済みの統計量でデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, errors.NewDimensionError("StandardScaler.Transform", len(s.Mean), c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return result, nil
}

// FitTransform は Fit と Transform を続けて実行する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// BackTransform は標準化した列で学習した係数（切片が先頭）を元の尺度の
// 係数に変換する
//
// パラメータ:
//   - coef: 長さ n_features+1 の係数ベクトル
//
// 戻り値:
//   - []float64: 元の尺度での係数（切片が先頭）
//   - error: 未学習または長さが合わない場合
func (s *StandardScaler) BackTransform(coef []float64) ([]float64, error) {
	if err := s.state.RequireFitted("StandardScaler", "BackTransform"); err != nil {
		return nil, err
	}
	if len(coef) != len(s.Mean)+1 {
		return nil, errors.NewDimensionError("StandardScaler.BackTransform", len(s.Mean)+1, len(coef), 0)
	}

	out := make([]float64, len(coef))
	out[0] = coef[0]
	for j := range s.Mean {
		out[j+1] = coef[j+1] / s.Scale[j]
		out[0] -= out[j+1] * s.Mean[j]
	}
	return out, nil
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.state.IsFitted() {
		return "StandardScaler()"
	}
	return fmt.Sprintf("StandardScaler(n_features=%d)", len(s.Mean))
}
