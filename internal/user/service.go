package user

import (
	"context"

	"github.com/yourusername/resep-api/internal/auth"
)

// PhotoCleaner は不要になった写真ファイルの削除を依頼する窓口です。
type PhotoCleaner interface {
	EnqueuePhotoCleanup(ctx context.Context, photo string) error
}

// SessionClearer はユーザーのリフレッシュセッションを破棄する窓口です。
type SessionClearer interface {
	Clear(ctx context.Context, userID int64) error
}

// Service はユーザー管理のビジネスロジックです。
type Service struct {
	repo     Repository
	cleaner  PhotoCleaner
	sessions SessionClearer
}

// NewService は Service を作成します。cleaner と sessions は省略可能です。
func NewService(repo Repository, cleaner PhotoCleaner, sessions SessionClearer) *Service {
	return &Service{
		repo:     repo,
		cleaner:  cleaner,
		sessions: sessions,
	}
}

// Create は新規ユーザーを登録します。パスワードはここでハッシュ化され、
// 以後平文が残ることはありません。
func (s *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		RoleID:       input.RoleID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hashed,
		Photo:        input.Photo,
	}
	return s.repo.Create(ctx, u)
}

// List はユーザーの一覧を返します。
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// Get はIDでユーザーを取得します。
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update はユーザー情報を更新します。Password が指定された場合のみ
// 再ハッシュし、写真が差し替えられた場合は旧ファイルの掃除を依頼します。
func (s *Service) Update(ctx context.Context, input UpdateInput) (*User, error) {
	current, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	hashed := current.PasswordHash
	if input.Password != "" {
		hashed, err = auth.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
	}

	photo := current.Photo
	if input.Photo != "" {
		photo = input.Photo
	}

	updated, err := s.repo.Update(ctx, &User{
		ID:           input.ID,
		RoleID:       input.RoleID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hashed,
		Photo:        photo,
		CreatedAt:    current.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	if input.Photo != "" && current.Photo != "" && current.Photo != input.Photo {
		s.requestPhotoCleanup(ctx, current.Photo)
	}
	return updated, nil
}

// SetPhoto はプロフィール写真を差し替えます。
func (s *Service) SetPhoto(ctx context.Context, id int64, photo string) (*User, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := current.Photo
	current.Photo = photo
	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, err
	}

	if previous != "" && previous != photo {
		s.requestPhotoCleanup(ctx, previous)
	}
	return updated, nil
}

// Delete はユーザーを論理削除し、セッションと写真ファイルを後始末します。
func (s *Service) Delete(ctx context.Context, id int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	if s.sessions != nil {
		_ = s.sessions.Clear(ctx, id)
	}
	if current.Photo != "" {
		s.requestPhotoCleanup(ctx, current.Photo)
	}
	return nil
}

// FindIdentityByEmail は認証サービス向けに Identity を返します。
func (s *Service) FindIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &auth.Identity{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}, nil
}

func (s *Service) requestPhotoCleanup(ctx context.Context, photo string) {
	if s.cleaner == nil {
		return
	}
	// 掃除は補助処理なので失敗してもリクエスト自体は成功させる
	_ = s.cleaner.EnqueuePhotoCleanup(ctx, photo)
}
