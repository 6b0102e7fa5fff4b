package model

import (
	"encoding/json"

	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// WeightsVersion は ModelWeights の形式バージョン
const WeightsVersion = "1"

// ModelWeights は学習済みモデルの係数を表す構造体（シリアライゼーション用）
type ModelWeights struct {
	// ModelType はモデルの種類（Binomial 等）
	ModelType string `json:"model_type"`

	// Version は形式のバージョン（互換性チェック用）
	Version string `json:"version"`

	// Formula は学習に使ったモデル式
	Formula string `json:"formula,omitempty"`

	// Levels は応答の [0 のラベル, 1 のラベル]
	Levels [2]string `json:"levels"`

	// Intercept は切片
	Intercept float64 `json:"intercept"`

	// Features は設計行列の列名（切片を含まない）
	Features []string `json:"features"`

	// Coefficients は Features と同じ順の係数
	Coefficients []float64 `json:"coefficients"`

	// Deviance は残差逸脱度
	Deviance float64 `json:"deviance"`

	// Converged は IRLS が許容誤差に達したかどうか
	Converged bool `json:"converged"`

	// Iterations は IRLS の反復回数
	Iterations int `json:"iterations"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズし、検証する
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "decode model weights")
	}
	return mw.Validate()
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if mw.Version != WeightsVersion {
		return errors.NewValidationError("version", "unsupported weights version", mw.Version)
	}
	if len(mw.Features) != len(mw.Coefficients) {
		return errors.NewDimensionError("ModelWeights.Validate", len(mw.Features), len(mw.Coefficients), 0)
	}
	return nil
}

// Coefficient は列名に対応する係数を返す。"(Intercept)" は切片。
func (mw *ModelWeights) Coefficient(name string) (float64, bool) {
	if name == "(Intercept)" {
		return mw.Intercept, true
	}
	for i, f := range mw.Features {
		if f == name {
			return mw.Coefficients[i], true
		}
	}
	return 0, false
}
