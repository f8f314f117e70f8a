// Package storage はアップロードファイルの保存先を提供します。
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/yourusername/resep-api/internal/apperr"
)

// allowedPhotoTypes は受け付ける画像形式と保存時の拡張子です。
// 判定は拡張子でなく中身のスニッフィングで行います。
var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Local はローカルファイルシステムへの保存を実装します。
type Local struct {
	baseDir string
}

// NewLocal は保存先ディレクトリを作成し Local を返します。
func NewLocal(baseDir string) (*Local, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("baseDir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{baseDir: baseDir}, nil
}

// Save はデータの形式を検査して保存し、保存名を返します。
// 保存名は衝突しないよう UUID ベースで採番します。
func (l *Local) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperr.ValidationMessage("ファイルが空です")
	}

	detected := mimetype.Detect(data)
	ext, ok := allowedPhotoTypes[detected.String()]
	if !ok {
		return "", apperr.ValidationMessage("対応していない画像形式です（jpeg / png / webp のみ）")
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(l.baseDir, name), data, 0o640); err != nil {
		return "", apperr.Internal(err)
	}
	return name, nil
}

// Open は保存済みファイルを開きます。
func (l *Local) Open(name string) (*os.File, error) {
	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove は保存済みファイルを削除します。存在しない場合もエラーにしません。
func (l *Local) Remove(name string) error {
	path, err := l.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve は保存名を検証してフルパスに変換します。
// パス区切りを含む名前はディレクトリトラバーサルとして拒否します。
func (l *Local) resolve(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name: %q", name)
	}
	return filepath.Join(l.baseDir, name), nil
}
