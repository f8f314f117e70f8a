// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/resep-api/internal/auth"
	"github.com/yourusername/resep-api/internal/config"
	"github.com/yourusername/resep-api/internal/db"
	"github.com/yourusername/resep-api/internal/kategori"
	"github.com/yourusername/resep-api/internal/role"
	"github.com/yourusername/resep-api/internal/storage"
	"github.com/yourusername/resep-api/internal/user"
	"github.com/yourusername/resep-api/internal/webx"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// データベース接続とマイグレーション
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()
	if err := db.RunMigrations(ctx, conn); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// リフレッシュセッション用Redis
	sessionOpt, err := redis.ParseURL(cfg.SessionRedisURL)
	if err != nil {
		log.Fatalf("Failed to parse SESSION_REDIS_URL: %v", err)
	}
	sessionRedis := redis.NewClient(sessionOpt)
	defer sessionRedis.Close()

	// トークン発行者（署名鍵は起動時に注入し、以後変更しない）
	issuer, err := auth.NewIssuer(cfg.JWTAccessSecret, cfg.JWTRefreshSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("Failed to init token issuer: %v", err)
	}
	sessionStore := auth.NewRedisSessionStore(sessionRedis, issuer.RefreshTTL())

	// 写真ストレージ
	photoStore, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to init upload dir: %v", err)
	}

	// 非同期メンテナンスジョブ
	jobManager, err := setupJobs(cfg, photoStore)
	if err != nil {
		log.Fatalf("Failed to init jobs: %v", err)
	}
	jobManager.StartWorkers()
	defer jobManager.Shutdown(context.Background())

	// サービスの組み立て
	userService := user.NewService(user.NewPostgresRepository(conn), jobManager, sessionStore)
	authService := auth.NewService(userService, sessionStore, issuer, cfg.RotateRefresh)
	roleRepo := role.NewPostgresRepository(conn)
	kategoriRepo := kategori.NewPostgresRepository(conn)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.Use(webx.ErrorMiddleware(log.Default()))
	router.NoRoute(webx.NotFoundHandler)

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	// CORS許可オリジンを設定（カンマ区切りの文字列を配列に変換）
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
	}
	router.Use(cors.New(corsConfig))

	// ルーティングの設定
	setupRoutes(router, &routeDeps{
		cfg:          cfg,
		issuer:       issuer,
		authService:  authService,
		userService:  userService,
		photoStore:   photoStore,
		roleRepo:     roleRepo,
		kategoriRepo: kategoriRepo,
		jobManager:   jobManager,
	})

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
