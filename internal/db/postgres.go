// Package db はデータベース接続の初期化とスキーママイグレーションを提供します。
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/yourusername/resep-api/internal/migrations"
)

// Open は PostgreSQL に接続し、疎通確認を行います。
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return conn, nil
}

// RunMigrations は埋め込みマイグレーションを適用します。
func RunMigrations(ctx context.Context, conn *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, conn, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}
