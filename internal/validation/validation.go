// Package validation は宣言的なスキーマ定義によるリクエスト検証を提供します。
// スキーマはフィールド名と制約の一覧からなる純粋なデータ構造で、
// Apply は検証済みデータかフィールド別エラーのどちらかを返します。
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Rule は単一フィールドへの制約です。違反時はメッセージを返します。
// present はフィールドがペイロードに存在したかどうかを示します。
type Rule func(value any, present bool) string

// Field はスキーマ内の1フィールドの定義です。
type Field struct {
	Name  string
	Rules []Rule
}

// Schema は検証対象フィールドの一覧です。
// スキーマに含まれないフィールドは検証結果から除外されます。
type Schema []Field

// FieldErrors はフィールド名ごとの違反メッセージです。
type FieldErrors map[string][]string

// Apply はペイロードをスキーマで検証し、スキーマに宣言された
// フィールドのみを含む検証済みデータを返します。
func Apply(schema Schema, payload map[string]any) (map[string]any, FieldErrors) {
	validated := make(map[string]any, len(schema))
	errs := FieldErrors{}

	for _, field := range schema {
		value, present := payload[field.Name]
		for _, rule := range field.Rules {
			if msg := rule(value, present); msg != "" {
				errs[field.Name] = append(errs[field.Name], msg)
			}
		}
		if present && len(errs[field.Name]) == 0 {
			validated[field.Name] = value
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return validated, nil
}

// Required は値の存在と非空を要求します。
func Required() Rule {
	return func(value any, present bool) string {
		if !present || value == nil {
			return "必須項目です"
		}
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return "必須項目です"
		}
		return ""
	}
}

// MaxLen は文字列の最大文字数を制限します。
func MaxLen(n int) Rule {
	return func(value any, present bool) string {
		s, ok := value.(string)
		if !present || !ok {
			return ""
		}
		if utf8.RuneCountInString(s) > n {
			return fmt.Sprintf("%d文字以内で入力してください", n)
		}
		return ""
	}
}

// MinLen は文字列の最小文字数を要求します。
func MinLen(n int) Rule {
	return func(value any, present bool) string {
		s, ok := value.(string)
		if !present || !ok {
			return ""
		}
		if utf8.RuneCountInString(s) < n {
			return fmt.Sprintf("%d文字以上で入力してください", n)
		}
		return ""
	}
}

// Email はメールアドレスの体裁を要求します。
func Email() Rule {
	return func(value any, present bool) string {
		s, ok := value.(string)
		if !present || !ok || s == "" {
			return ""
		}
		at := strings.Index(s, "@")
		if at <= 0 || at == len(s)-1 || strings.Contains(s, " ") {
			return "メールアドレスの形式が正しくありません"
		}
		return ""
	}
}

// Positive は正の数値を要求します。JSON経由の数値は float64 として届きます。
func Positive() Rule {
	return func(value any, present bool) string {
		if !present {
			return ""
		}
		var n float64
		switch v := value.(type) {
		case float64:
			n = v
		case int:
			n = float64(v)
		case int64:
			n = float64(v)
		default:
			return "数値で入力してください"
		}
		if n <= 0 {
			return "正の数値で入力してください"
		}
		return ""
	}
}
