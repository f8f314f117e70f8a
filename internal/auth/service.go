package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/yourusername/resep-api/internal/apperr"
)

// Identity は認証に必要な最小限のユーザー情報です。
type Identity struct {
	ID           int64
	Email        string
	PasswordHash string
}

// IdentityStore はメールアドレスから Identity を引く永続層の窓口です。
// 見つからない場合は apperr.KindNotFound のエラーを返します。
type IdentityStore interface {
	FindIdentityByEmail(ctx context.Context, email string) (*Identity, error)
}

// TokenPair はログイン/リフレッシュ結果のトークンの組です。
// RefreshToken はローテーションが発生しなかった場合は空です。
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service はログイン・リフレッシュ・ログアウトを編成します。
type Service struct {
	identities    IdentityStore
	sessions      SessionStore
	issuer        *Issuer
	rotateRefresh bool
}

// NewService は Service を作成します。rotateRefresh を有効にすると
// リフレッシュ成功時にリフレッシュトークン自体も更新されます。
func NewService(identities IdentityStore, sessions SessionStore, issuer *Issuer, rotateRefresh bool) *Service {
	return &Service{
		identities:    identities,
		sessions:      sessions,
		issuer:        issuer,
		rotateRefresh: rotateRefresh,
	}
}

// Login は資格情報を検証し、アクセス/リフレッシュトークンの組を発行します。
// 未登録メールとパスワード誤りはどちらも同じ資格情報エラーになります。
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	identity, err := s.identities.FindIdentityByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.InvalidCredentials()
		}
		return nil, err
	}

	ok, err := VerifyPassword(password, identity.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.InvalidCredentials()
	}

	return s.issuePair(ctx, identity.ID)
}

// Refresh は提示されたリフレッシュトークンを検証し、新しいアクセス
// トークンを発行します。署名と期限の検証に加えて、セッションストアに
// 保存されている現在有効なトークンとのバイト一致を要求します。
// ローテーション済み・ログアウト済みのトークンはここで弾かれます。
func (s *Service) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	userID, err := s.issuer.VerifyRefresh(presented)
	if err != nil {
		return nil, err
	}

	stored, err := s.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, apperr.InvalidToken(err)
		}
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		return nil, apperr.InvalidToken(errors.New("refresh token superseded"))
	}

	access, err := s.issuer.IssueAccess(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	pair := &TokenPair{AccessToken: access}
	if s.rotateRefresh {
		refresh, err := s.issuer.IssueRefresh(userID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if err := s.sessions.Save(ctx, userID, refresh); err != nil {
			return nil, apperr.Internal(err)
		}
		pair.RefreshToken = refresh
	}
	return pair, nil
}

// Logout はユーザーのリフレッシュセッションを破棄します。
// 以後、発行済みのリフレッシュトークンは照合に失敗します。
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.sessions.Clear(ctx, userID)
}

func (s *Service) issuePair(ctx context.Context, userID int64) (*TokenPair, error) {
	access, err := s.issuer.IssueAccess(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	refresh, err := s.issuer.IssueRefresh(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.sessions.Save(ctx, userID, refresh); err != nil {
		return nil, apperr.Internal(err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
