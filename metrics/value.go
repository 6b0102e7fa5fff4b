// Package metrics は二値分類の評価指標（カットオフでの分類指標、ROC 曲線と AUC、
// ブライアスコアと対数損失）を提供する。
package metrics

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
)

// Value は未定義になりうる指標値。
// OK が false のとき V は意味を持たない。
type Value struct {
	V  float64
	OK bool
}

// Defined は定義済みの Value を返す
func Defined(v float64) Value { return Value{V: v, OK: true} }

// Undefined は未定義の Value を返す
func Undefined() Value { return Value{} }

// Get は値と定義済みかどうかを返す
func (v Value) Get() (float64, bool) { return v.V, v.OK }

// String は未定義なら "NA"、それ以外は値を返す
func (v Value) String() string {
	if !v.OK {
		return "NA"
	}
	return strconv.FormatFloat(v.V, 'g', -1, 64)
}

// MarshalText は String と同じ表現を返す
func (v Value) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// ratio は分母が 0 なら未定義を返す
func ratio(num, den int) Value {
	if den == 0 {
		return Undefined()
	}
	return Defined(float64(num) / float64(den))
}

// Classification はカットオフでの分類指標
type Classification struct {
	Accuracy  Value
	Precision Value
	Recall    Value
	F1        Value
}

func (c Classification) String() string {
	return fmt.Sprintf("accuracy=%s precision=%s recall=%s f1=%s",
		c.Accuracy, c.Precision, c.Recall, c.F1)
}

// MarshalZerologObject は未定義の指標を省いてイベントに追加する
func (c Classification) MarshalZerologObject(e *zerolog.Event) {
	for _, f := range []struct {
		key string
		v   Value
	}{
		{"accuracy", c.Accuracy},
		{"precision", c.Precision},
		{"recall", c.Recall},
		{"f1", c.F1},
	} {
		if f.v.OK {
			e.Float64(f.key, f.v.V)
		}
	}
}
