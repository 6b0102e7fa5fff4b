package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/logiteval/dataset"
)

// Fitter は設計行列と 0/1 応答から学習するモデルのインターフェース
type Fitter interface {
	// Fit は X（n×p、切片列を含まない）と長さ n の応答 y でモデルを学習させる
	Fit(X mat.Matrix, y []float64) error
}

// ProbabilityPredictor は陽性クラスの確率を予測できるモデルのインターフェース
type ProbabilityPredictor interface {
	// PredictProba は各行について P(y=1) を返す
	PredictProba(X mat.Matrix) ([]float64, error)
}

// BinaryClassifier は二値分類モデルのインターフェース
type BinaryClassifier interface {
	Fitter
	ProbabilityPredictor

	// Coefficients は切片を先頭に持つ係数ベクトルを返す
	Coefficients() []float64
}

// TableModel は行テーブル上で学習済みのモデルハンドルです。
// 学習後は変更されず、評価が終われば破棄されます。
type TableModel interface {
	// FittedProbabilities は学習行に対する確率を元の行順で返す
	FittedProbabilities() []float64

	// PredictTable は新しいテーブルの各行について P(y=1) を返す
	PredictTable(f *dataset.Frame) ([]float64, error)
}
