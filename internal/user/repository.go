package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/resep-api/internal/apperr"
)

// Repository はユーザーの永続化操作です。
type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	SoftDelete(ctx context.Context, id int64) error
}

const pgUniqueViolation = "23505"

// PostgresRepository は PostgreSQL 実装です。
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository は PostgresRepository を作成します。
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, id_role, first_name, last_name, email, password, photo, created_at, updated_at`

// Create はユーザーを登録します。メールアドレスの重複は Conflict になります。
func (r *PostgresRepository) Create(ctx context.Context, u *User) (*User, error) {
	query := `INSERT INTO users (id_role, first_name, last_name, email, password, photo)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		u.RoleID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Photo,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("このメールアドレスは既に登録されています")
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return u, nil
}

// List は論理削除されていないユーザーの一覧を返します。
func (r *PostgresRepository) List(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE deleted_at IS NULL
	          ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u := &User{}
		if err := scanUser(rows, u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByID はIDでユーザーを取得します。
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE id = $1 AND deleted_at IS NULL`

	u := &User{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail はメールアドレスでユーザーを取得します。大文字小文字は区別しません。
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE lower(email) = lower($1) AND deleted_at IS NULL`

	u := &User{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, email), u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update はユーザー情報を更新します。
func (r *PostgresRepository) Update(ctx context.Context, u *User) (*User, error) {
	query := `UPDATE users
	          SET id_role = $2, first_name = $3, last_name = $4, email = $5,
	              password = $6, photo = $7, updated_at = now()
	          WHERE id = $1 AND deleted_at IS NULL
	          RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.RoleID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Photo,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("ユーザーが見つかりません")
		}
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("このメールアドレスは既に登録されています")
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return u, nil
}

// SoftDelete はユーザーを論理削除します。
func (r *PostgresRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE users SET deleted_at = now(), updated_at = now()
	          WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("ユーザーが見つかりません")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, u *User) error {
	var photo sql.NullString
	err := row.Scan(&u.ID, &u.RoleID, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &photo, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("ユーザーが見つかりません")
		}
		return fmt.Errorf("error performing sql request: %w", err)
	}
	u.Photo = photo.String
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
