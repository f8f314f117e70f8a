package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yourusername/resep-api/internal/apperr"
)

// TokenType はトークンの用途の区別です。アクセストークンを
// リフレッシュトークンとして再利用できないよう claims に埋め込みます。
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims はJWTに埋め込む情報です。
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64     `json:"uid"`
	TokenType TokenType `json:"typ"`
}

// Issuer はアクセス/リフレッシュトークンの発行と検証を行います。
// 署名鍵と有効期間は起動時に注入され、以後変更されません。
// 状態を持たないため複数ゴルーチンから同時に利用できます。
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewIssuer は Issuer を作成します。
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("auth: signing secrets are required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("auth: token TTLs must be positive")
	}
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// RefreshTTL はリフレッシュトークンの有効期間を返します。
// セッションストアのTTLにも同じ値を使用します。
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// IssueAccess は短命のアクセストークンを発行します。
func (i *Issuer) IssueAccess(userID int64) (string, error) {
	return i.issue(userID, TokenTypeAccess, i.accessSecret, i.accessTTL)
}

// IssueRefresh は長命のリフレッシュトークンを発行します。
func (i *Issuer) IssueRefresh(userID int64) (string, error) {
	return i.issue(userID, TokenTypeRefresh, i.refreshSecret, i.refreshTTL)
}

// VerifyAccess はアクセストークンの署名・期限・種別を検証し、
// ユーザーIDを返します。ストアへの問い合わせは行いません。
func (i *Issuer) VerifyAccess(token string) (int64, error) {
	return i.verify(token, TokenTypeAccess, i.accessSecret)
}

// VerifyRefresh はリフレッシュトークンの署名・期限・種別を検証します。
// このトークンが「現在有効なセッションのものか」はここでは判定せず、
// 呼び出し側がセッションストアと突き合わせます。
func (i *Issuer) VerifyRefresh(token string) (int64, error) {
	return i.verify(token, TokenTypeRefresh, i.refreshSecret)
}

func (i *Issuer) issue(userID int64, tokenType TokenType, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// jti を付けて同時刻発行のトークン同士も区別できるようにする
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		TokenType: tokenType,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

func (i *Issuer) verify(tokenString string, want TokenType, secret []byte) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return 0, apperr.InvalidToken(err)
	}
	if !token.Valid {
		return 0, apperr.InvalidToken(nil)
	}
	if claims.TokenType != want {
		return 0, apperr.InvalidToken(fmt.Errorf("unexpected token type %q", claims.TokenType))
	}
	return claims.UserID, nil
}
