// Package role はユーザー権限ロールの管理機能を提供します。
package role

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yourusername/resep-api/internal/apperr"
)

// Role はユーザーに割り当てる権限ロールです。
type Role struct {
	ID   int64  `json:"id_role"`
	Name string `json:"nama_role"`
}

// Repository はロールの永続化操作です。
type Repository interface {
	Create(ctx context.Context, r *Role) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
	GetByID(ctx context.Context, id int64) (*Role, error)
	Update(ctx context.Context, r *Role) (*Role, error)
	Delete(ctx context.Context, id int64) error
}

// PostgresRepository は PostgreSQL 実装です。
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository は PostgresRepository を作成します。
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create はロールを追加します。
func (r *PostgresRepository) Create(ctx context.Context, role *Role) (*Role, error) {
	query := `INSERT INTO roles (nama_role) VALUES ($1) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, role.Name).Scan(&role.ID); err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return role, nil
}

// List はロールの一覧を返します。
func (r *PostgresRepository) List(ctx context.Context) ([]*Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nama_role FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var roles []*Role
	for rows.Next() {
		role := &Role{}
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// GetByID はIDでロールを取得します。
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Role, error) {
	role := &Role{}
	err := r.db.QueryRowContext(ctx, `SELECT id, nama_role FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("ロールが見つかりません")
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return role, nil
}

// Update はロール名を更新します。
func (r *PostgresRepository) Update(ctx context.Context, role *Role) (*Role, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE roles SET nama_role = $2 WHERE id = $1`, role.ID, role.Name)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if affected == 0 {
		return nil, apperr.NotFound("ロールが見つかりません")
	}
	return role, nil
}

// Delete はロールを削除します。
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return apperr.NotFound("ロールが見つかりません")
	}
	return nil
}
