// Package kategori はレシピカテゴリと種別（jenis）の管理機能を提供します。
package kategori

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yourusername/resep-api/internal/apperr"
)

// Jenis はカテゴリの種別です。
type Jenis struct {
	ID   int64  `json:"id_jenis_kategori"`
	Name string `json:"nama_jenis"`
}

// Kategori はレシピカテゴリです。
type Kategori struct {
	ID      int64  `json:"id_kategori_resep"`
	JenisID int64  `json:"id_jenis_kategori"`
	Name    string `json:"nama_kategori"`
}

// Repository はカテゴリ/種別の永続化操作です。
type Repository interface {
	CreateJenis(ctx context.Context, j *Jenis) (*Jenis, error)
	ListJenis(ctx context.Context) ([]*Jenis, error)
	GetJenisByID(ctx context.Context, id int64) (*Jenis, error)
	UpdateJenis(ctx context.Context, j *Jenis) (*Jenis, error)
	DeleteJenis(ctx context.Context, id int64) error

	CreateKategori(ctx context.Context, k *Kategori) (*Kategori, error)
	ListKategori(ctx context.Context) ([]*Kategori, error)
	GetKategoriByID(ctx context.Context, id int64) (*Kategori, error)
	UpdateKategori(ctx context.Context, k *Kategori) (*Kategori, error)
	DeleteKategori(ctx context.Context, id int64) error
}

// PostgresRepository は PostgreSQL 実装です。
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository は PostgresRepository を作成します。
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateJenis は種別を追加します。
func (r *PostgresRepository) CreateJenis(ctx context.Context, j *Jenis) (*Jenis, error) {
	query := `INSERT INTO kategori_jenis (nama_jenis) VALUES ($1) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, j.Name).Scan(&j.ID); err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return j, nil
}

// ListJenis は種別の一覧を返します。
func (r *PostgresRepository) ListJenis(ctx context.Context) ([]*Jenis, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nama_jenis FROM kategori_jenis ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var list []*Jenis
	for rows.Next() {
		j := &Jenis{}
		if err := rows.Scan(&j.ID, &j.Name); err != nil {
			return nil, err
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

// GetJenisByID はIDで種別を取得します。
func (r *PostgresRepository) GetJenisByID(ctx context.Context, id int64) (*Jenis, error) {
	j := &Jenis{}
	err := r.db.QueryRowContext(ctx, `SELECT id, nama_jenis FROM kategori_jenis WHERE id = $1`, id).
		Scan(&j.ID, &j.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("カテゴリ種別が見つかりません")
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return j, nil
}

// UpdateJenis は種別名を更新します。
func (r *PostgresRepository) UpdateJenis(ctx context.Context, j *Jenis) (*Jenis, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE kategori_jenis SET nama_jenis = $2 WHERE id = $1`, j.ID, j.Name)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if affected == 0 {
		return nil, apperr.NotFound("カテゴリ種別が見つかりません")
	}
	return j, nil
}

// DeleteJenis は種別を削除します。
func (r *PostgresRepository) DeleteJenis(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM kategori_jenis WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return apperr.NotFound("カテゴリ種別が見つかりません")
	}
	return nil
}

// CreateKategori はカテゴリを追加します。
func (r *PostgresRepository) CreateKategori(ctx context.Context, k *Kategori) (*Kategori, error) {
	query := `INSERT INTO kategori (id_jenis, nama_kategori) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, k.JenisID, k.Name).Scan(&k.ID); err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return k, nil
}

// ListKategori はカテゴリの一覧を返します。
func (r *PostgresRepository) ListKategori(ctx context.Context) ([]*Kategori, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, id_jenis, nama_kategori FROM kategori ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var list []*Kategori
	for rows.Next() {
		k := &Kategori{}
		if err := rows.Scan(&k.ID, &k.JenisID, &k.Name); err != nil {
			return nil, err
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

// GetKategoriByID はIDでカテゴリを取得します。
func (r *PostgresRepository) GetKategoriByID(ctx context.Context, id int64) (*Kategori, error) {
	k := &Kategori{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, id_jenis, nama_kategori FROM kategori WHERE id = $1`, id).
		Scan(&k.ID, &k.JenisID, &k.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("カテゴリが見つかりません")
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return k, nil
}

// UpdateKategori はカテゴリを更新します。
func (r *PostgresRepository) UpdateKategori(ctx context.Context, k *Kategori) (*Kategori, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE kategori SET id_jenis = $2, nama_kategori = $3 WHERE id = $1`,
		k.ID, k.JenisID, k.Name)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if affected == 0 {
		return nil, apperr.NotFound("カテゴリが見つかりません")
	}
	return k, nil
}

// DeleteKategori はカテゴリを削除します。
func (r *PostgresRepository) DeleteKategori(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM kategori WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return apperr.NotFound("カテゴリが見つかりません")
	}
	return nil
}
