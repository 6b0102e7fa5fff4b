package preprocessing

import (
	"strconv"

	"github.com/YuminosukeSato/logiteval/dataset"
	"github.com/YuminosukeSato/logiteval/pkg/errors"
)

// Response は 0/1 に符号化された応答列
type Response struct {
	// Values は各行の 0 または 1
	Values []float64

	// Levels[0] が 0 に、Levels[1] が 1 に対応するラベル。
	// 単一水準の応答では Levels[1] は空文字列。
	Levels [2]string
}

// Positives は値が 1 の行数を返す
func (r Response) Positives() int {
	n := 0
	for _, v := range r.Values {
		if v == 1 {
			n++
		}
	}
	return n
}

// Subset は指定した行だけを持つ Response を返す
func (r Response) Subset(rows []int) Response {
	out := Response{Values: make([]float64, len(rows)), Levels: r.Levels}
	for i, row := range rows {
		out.Values[i] = r.Values[row]
	}
	return out
}

// NormalizeResponse は応答列を 0/1 の数値列に変換する
//
// パラメータ:
//   - col: 応答列（Numeric, Boolean, Text, Categorical のいずれか）
//   - baseline: 0 に対応させるラベル。nil の場合は既定の順序を使う
//
// 規則:
//   - Numeric: すべての値が 0 または 1 であることを検証し、そのまま返す
//   - Boolean: false→0, true→1。baseline が "true" なら反転する
//   - Text/Categorical: 2 水準に解決し、baseline を水準 0 に回転する。
//     baseline がなければ Text は辞書順、Categorical は宣言順
//   - それ以外: UnsupportedResponseTypeError
func NormalizeResponse(col dataset.Column, baseline *string) (Response, error) {
	switch c := col.(type) {
	case *dataset.Numeric:
		return normalizeNumeric(c, baseline)
	case *dataset.Boolean:
		return normalizeBoolean(c, baseline)
	case *dataset.Text:
		return normalizeCategorical(dataset.Coerce(c), baseline)
	case *dataset.Categorical:
		return normalizeCategorical(c, baseline)
	default:
		return Response{}, errors.NewUnsupportedResponseTypeError(col.Name(), col.Kind().String())
	}
}

func normalizeNumeric(c *dataset.Numeric, baseline *string) (Response, error) {
	for i, v := range c.Values {
		if v != 0 && v != 1 {
			return Response{}, errors.NewValidationError(c.Name(),
				"numeric response must be 0 or 1 at row "+strconv.Itoa(i), v)
		}
	}
	if baseline != nil && *baseline != "0" {
		return Response{}, errors.NewValidationError(c.Name(), "baseline of a numeric response must be 0", *baseline)
	}
	return Response{Values: c.Values, Levels: [2]string{"0", "1"}}, nil
}

func normalizeBoolean(c *dataset.Boolean, baseline *string) (Response, error) {
	positive := true
	if baseline != nil {
		b, err := strconv.ParseBool(*baseline)
		if err != nil {
			return Response{}, errors.NewValidationError(c.Name(), "baseline is not a boolean", *baseline)
		}
		positive = !b
	}
	out := make([]float64, len(c.Values))
	for i, v := range c.Values {
		if v == positive {
			out[i] = 1
		}
	}
	return Response{
		Values: out,
		Levels: [2]string{strconv.FormatBool(!positive), strconv.FormatBool(positive)},
	}, nil
}

func normalizeCategorical(c *dataset.Categorical, baseline *string) (Response, error) {
	levels := c.Levels
	switch len(levels) {
	case 1, 2:
	default:
		return Response{}, errors.NewValidationError(c.Name(),
			"response must have exactly two levels", levels)
	}

	// zero は 0 に符号化する水準のコード
	zero := 0
	if baseline != nil {
		zero = -1
		for i, l := range levels {
			if l == *baseline {
				zero = i
			}
		}
		if zero < 0 {
			return Response{}, errors.NewValidationError(c.Name(), "baseline is not a response level", *baseline)
		}
	}

	var resp Response
	resp.Levels[0] = levels[zero]
	if len(levels) == 2 {
		resp.Levels[1] = levels[1-zero]
	}
	resp.Values = make([]float64, len(c.Codes))
	for i, code := range c.Codes {
		if code != zero {
			resp.Values[i] = 1
		}
	}
	return resp, nil
}
