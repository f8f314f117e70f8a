// Package user はユーザー（認証主体）の管理機能を提供します。
package user

import (
	"database/sql"
	"time"
)

// User はシステム上のユーザーを表します。
// 物理削除は行わず、DeletedAt による論理削除のみを行います。
type User struct {
	ID           int64        `json:"id"`
	RoleID       int64        `json:"id_role"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // 平文は保存もログ出力もしない
	Photo        string       `json:"photo,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	DeletedAt    sql.NullTime `json:"-"`
}

// CreateInput は新規登録の入力です。
type CreateInput struct {
	RoleID    int64
	FirstName string
	LastName  string
	Email     string
	Password  string
	Photo     string
}

// UpdateInput はプロフィール更新の入力です。
// Password が空でない場合のみ再ハッシュして更新します。
type UpdateInput struct {
	ID        int64
	RoleID    int64
	FirstName string
	LastName  string
	Email     string
	Password  string
	Photo     string
}
