// Package auth は認証・トークンライフサイクル機能を提供します。
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/resep-api/internal/apperr"
)

// HashPassword は平文パスワードを bcrypt でハッシュ化します。
// ソルトはハッシュ自体に埋め込まれます。
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword は平文パスワードを保存済みハッシュと照合します。
// 不一致は (false, nil) を返し、エラーになるのは保存済みハッシュが
// bcrypt として解釈できない場合のみです。
func VerifyPassword(plain, storedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, apperr.CorruptCredential(err)
}
