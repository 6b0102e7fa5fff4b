// Package preprocessing turns dataset columns into the numeric inputs the
// binomial fitter consumes: a 0/1 response and a treatment-coded design
// matrix.
package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/logiteval/core/model"
	"github.com/YuminosukeSato/logiteval/core/parallel"
	"github.com/YuminosukeSato/logiteval/dataset"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// parallelThreshold 未満の行数では設計行列を逐次に構築する
const parallelThreshold = 1000

// termSpec は学習時に確定した 1 予測子ぶんの符号化規則
type termSpec struct {
	name   string
	kind   dataset.Kind
	levels []string       // Categorical/Text の学習時水準（先頭が基準水準）
	index  map[string]int // 水準 → 水準番号
}

// TreatmentEncoder は予測子列を処置符号化（ダミー変数化）する。
// 数値列はそのまま 1 列、真偽値列は true を 1 とする 1 列、
// カテゴリ列は基準水準（先頭水準）以外の水準ごとに 1 列を作る。
// 文字列列はカテゴリ列に変換され、DataConversionWarning が発行される。
//
// 切片列は含まない。
type TreatmentEncoder struct {
	state *model.StateManager

	terms    []termSpec
	features []string
}

// NewTreatmentEncoder は新しいTreatmentEncoderを作成する
func NewTreatmentEncoder() *TreatmentEncoder {
	return &TreatmentEncoder{state: model.NewStateManager()}
}

// Fit は予測子の符号化規則を学習する
//
// パラメータ:
//   - frame: 学習データ
//   - predictors: 予測子列名（順序が設計行列の列順になる）
//
// 戻り値:
//   - error: 列が存在しない、未対応の型、または水準が 1 つしかない場合
func (e *TreatmentEncoder) Fit(frame *dataset.Frame, predictors []string) error {
	if frame.NRows() == 0 {
		return errors.NewModelError("TreatmentEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	terms := make([]termSpec, 0, len(predictors))
	var features []string
	for _, name := range predictors {
		col, ok := frame.Column(name)
		if !ok {
			return errors.NewValidationError("predictors", "column not found", name)
		}

		switch c := col.(type) {
		case *dataset.Numeric:
			terms = append(terms, termSpec{name: name, kind: dataset.KindNumeric})
			features = append(features, name)
		case *dataset.Boolean:
			terms = append(terms, termSpec{name: name, kind: dataset.KindBoolean})
			features = append(features, name+"TRUE")
		case *dataset.Text:
			errors.Warn(errors.NewDataConversionWarning(name, "text", "categorical",
				"text predictors are treated as unordered factors"))
			spec, err := categoricalTerm(dataset.Coerce(c))
			if err != nil {
				return err
			}
			spec.kind = dataset.KindText
			terms = append(terms, spec)
			features = append(features, dummyNames(spec)...)
		case *dataset.Categorical:
			spec, err := categoricalTerm(c)
			if err != nil {
				return err
			}
			terms = append(terms, spec)
			features = append(features, dummyNames(spec)...)
		default:
			return errors.NewValidationError(name, "unsupported predictor type", col.Kind().String())
		}
	}

	e.terms = terms
	e.features = features
	e.state.SetFitted(len(features), frame.NRows(), 0)
	return nil
}

// categoricalTerm は学習データに現れる水準だけを宣言順に残す
func categoricalTerm(c *dataset.Categorical) (termSpec, error) {
	used := make([]bool, len(c.Levels))
	for _, code := range c.Codes {
		used[code] = true
	}
	spec := termSpec{name: c.Name(), kind: dataset.KindCategorical, index: map[string]int{}}
	for i, l := range c.Levels {
		if used[i] {
			spec.index[l] = len(spec.levels)
			spec.levels = append(spec.levels, l)
		}
	}
	if len(spec.levels) < 2 {
		return termSpec{}, errors.NewValidationError(c.Name(),
			"categorical predictor needs at least two levels", spec.levels)
	}
	return spec, nil
}

func dummyNames(spec termSpec) []string {
	out := make([]string, 0, len(spec.levels)-1)
	for _, l := range spec.levels[1:] {
		out = append(out, spec.name+l)
	}
	return out
}

// Transform は学習済みの規則で frame を設計行列に変換する
//
// 戻り値:
//   - *mat.Dense: n_samples × n_features の設計行列
//   - error: 未学習、列の欠落、型の不一致、または学習時になかった水準
func (e *TreatmentEncoder) Transform(frame *dataset.Frame) (*mat.Dense, error) {
	if err := e.state.RequireFitted("TreatmentEncoder", "Transform"); err != nil {
		return nil, err
	}
	n := frame.NRows()
	if n == 0 {
		return nil, errors.NewModelError("TreatmentEncoder.Transform", "empty data", errors.ErrEmptyData)
	}

	// 各項について行 i のカテゴリコードを先に解決しておく
	cols := make([]dataset.Column, len(e.terms))
	codes := make([][]int, len(e.terms))
	for t, spec := range e.terms {
		col, ok := frame.Column(spec.name)
		if !ok {
			return nil, errors.NewValidationError("predictors", "column not found", spec.name)
		}
		cols[t] = col
		var err error
		switch spec.kind {
		case dataset.KindNumeric:
			if _, ok := col.(*dataset.Numeric); !ok {
				err = typeMismatch(spec, col)
			}
		case dataset.KindBoolean:
			if _, ok := col.(*dataset.Boolean); !ok {
				err = typeMismatch(spec, col)
			}
		default:
			codes[t], err = spec.encode(col)
		}
		if err != nil {
			return nil, err
		}
	}

	X := mat.NewDense(n, len(e.features), nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			j := 0
			for t, spec := range e.terms {
				switch spec.kind {
				case dataset.KindNumeric:
					X.Set(i, j, cols[t].(*dataset.Numeric).Values[i])
					j++
				case dataset.KindBoolean:
					if cols[t].(*dataset.Boolean).Values[i] {
						X.Set(i, j, 1)
					}
					j++
				default:
					if code := codes[t][i]; code > 0 {
						X.Set(i, j+code-1, 1)
					}
					j += len(spec.levels) - 1
				}
			}
		}
	})
	return X, nil
}

// encode はカテゴリ列（または文字列列）を学習時水準のコードに変換する
func (s termSpec) encode(col dataset.Column) ([]int, error) {
	var label func(i int) string
	switch c := col.(type) {
	case *dataset.Categorical:
		label = c.Value
	case *dataset.Text:
		label = func(i int) string { return c.Values[i] }
	default:
		return nil, typeMismatch(s, col)
	}
	out := make([]int, col.Len())
	for i := range out {
		code, ok := s.index[label(i)]
		if !ok {
			return nil, errors.NewValueError("TreatmentEncoder.Transform",
				fmt.Sprintf("column %q has level %q that was not present when fitting", s.name, label(i)))
		}
		out[i] = code
	}
	return out, nil
}

func typeMismatch(s termSpec, col dataset.Column) error {
	return errors.NewValidationError(s.name,
		fmt.Sprintf("column was %s when fitting", s.kind), col.Kind().String())
}

// FitTransform は Fit と Transform を続けて実行する
func (e *TreatmentEncoder) FitTransform(frame *dataset.Frame, predictors []string) (*mat.Dense, error) {
	if err := e.Fit(frame, predictors); err != nil {
		return nil, err
	}
	return e.Transform(frame)
}

// FeatureNames は設計行列の列名を返す（例: "x", "flagTRUE", "groupb"）
func (e *TreatmentEncoder) FeatureNames() []string {
	out := make([]string, len(e.features))
	copy(out, e.features)
	return out
}

// NumericTerms は数値予測子の列名を返す
func (e *TreatmentEncoder) NumericTerms() []string {
	var out []string
	for _, t := range e.terms {
		if t.kind == dataset.KindNumeric {
			out = append(out, t.name)
		}
	}
	return out
}
