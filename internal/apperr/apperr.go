// Package apperr はアプリケーション共通のエラー分類を提供します。
// 各コンポーネントは検出した時点でここで定義された種別のエラーを返し、
// HTTPステータスへの変換は webx のエラーミドルウェアが一括して行います。
package apperr

import (
	"errors"
	"fmt"
)

// Kind はエラーの種別を表します。
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindInvalidToken       Kind = "INVALID_TOKEN"
	KindMissingToken       Kind = "MISSING_TOKEN"
	KindCorruptCredential  Kind = "CORRUPT_CREDENTIAL"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindInternal           Kind = "INTERNAL_ERROR"
)

// Error は種別とクライアント向けメッセージを持つエラーです。
// Fields はバリデーションエラー時のフィールド別詳細です。
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap は元のエラーを返します。
func (e *Error) Unwrap() error {
	return e.cause
}

// Is は同一種別の Error を同値として扱います。
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Validation はフィールド別詳細付きの 400 相当エラーを作成します。
func Validation(fields map[string][]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "入力内容に誤りがあります",
		Fields:  fields,
	}
}

// ValidationMessage は詳細を持たない 400 相当エラーを作成します。
func ValidationMessage(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// InvalidCredentials は認証失敗エラーを作成します。
// 未登録メールとパスワード誤りを呼び出し側が区別できないよう、
// メッセージは常に同一です。
func InvalidCredentials() *Error {
	return &Error{
		Kind:    KindInvalidCredentials,
		Message: "メールアドレスまたはパスワードが正しくありません",
	}
}

// InvalidToken は署名不正・期限切れ・種別不一致・失効済みトークンのエラーを作成します。
func InvalidToken(cause error) *Error {
	return &Error{
		Kind:    KindInvalidToken,
		Message: "トークンが無効です",
		cause:   cause,
	}
}

// MissingToken は Authorization ヘッダー欠落エラーを作成します。
func MissingToken() *Error {
	return &Error{
		Kind:    KindMissingToken,
		Message: "認証トークンが必要です",
	}
}

// CorruptCredential は保存済みハッシュが壊れている場合のエラーを作成します。
// クライアント側では復旧できないためサーバー障害として扱います。
func CorruptCredential(cause error) *Error {
	return &Error{
		Kind:    KindCorruptCredential,
		Message: "サーバー内部でエラーが発生しました",
		cause:   cause,
	}
}

// NotFound は対象リソースが存在しない場合のエラーを作成します。
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict は一意制約違反など競合時のエラーを作成します。
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal は予期しない内部エラーを作成します。
func Internal(cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: "サーバー内部でエラーが発生しました",
		cause:   cause,
	}
}

// KindOf はエラーの種別を返します。apperr.Error でない場合は KindInternal を返します。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind はエラーが指定種別かどうかを判定します。
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
