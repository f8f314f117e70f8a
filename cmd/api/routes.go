package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/resep-api/internal/auth"
	"github.com/yourusername/resep-api/internal/config"
	"github.com/yourusername/resep-api/internal/jobs"
	"github.com/yourusername/resep-api/internal/kategori"
	"github.com/yourusername/resep-api/internal/role"
	"github.com/yourusername/resep-api/internal/storage"
	"github.com/yourusername/resep-api/internal/user"
)

type routeDeps struct {
	cfg          *config.Config
	issuer       *auth.Issuer
	authService  *auth.Service
	userService  *user.Service
	photoStore   *storage.Local
	roleRepo     role.Repository
	kategoriRepo kategori.Repository
	jobManager   *jobs.Manager
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "resep-api",
		"version": "0.1.0",
	})
}

// setupRoutes は API グループと認証周りの配線を行います。
func setupRoutes(router *gin.Engine, deps *routeDeps) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	api := router.Group("/api")
	{
		// 公開ルート（ログイン・リフレッシュ・新規登録）
		api.POST("/users/login", auth.LoginHandler(deps.authService))
		api.POST("/users/refresh", auth.RefreshHandler(deps.authService))
		api.POST("/users", user.CreateHandler(deps.userService))

		// 保護ルート（アクセストークン必須）
		protected := api.Group("")
		protected.Use(auth.RequireAuth(deps.issuer))
		{
			protected.DELETE("/users/logout", auth.LogoutHandler(deps.authService))

			protected.GET("/users", user.ListHandler(deps.userService))
			protected.GET("/users/:userId", user.GetHandler(deps.userService))
			protected.PUT("/users/:userId", user.UpdateHandler(deps.userService))
			protected.DELETE("/users/:userId", user.DeleteHandler(deps.userService))
			protected.POST("/users/:userId/photo",
				user.PhotoHandler(deps.userService, deps.photoStore, deps.cfg.MaxPhotoSize))

			protected.GET("/roles", role.ListHandler(deps.roleRepo))
			protected.POST("/roles", role.CreateHandler(deps.roleRepo))
			protected.GET("/roles/:roleId", role.GetHandler(deps.roleRepo))
			protected.PUT("/roles/:roleId", role.UpdateHandler(deps.roleRepo))
			protected.DELETE("/roles/:roleId", role.DeleteHandler(deps.roleRepo))

			protected.GET("/kategori", kategori.ListKategoriHandler(deps.kategoriRepo))
			protected.POST("/kategori", kategori.CreateKategoriHandler(deps.kategoriRepo))
			protected.GET("/kategori/:kategoriId", kategori.GetKategoriHandler(deps.kategoriRepo))
			protected.PUT("/kategori/:kategoriId", kategori.UpdateKategoriHandler(deps.kategoriRepo))
			protected.DELETE("/kategori/:kategoriId", kategori.DeleteKategoriHandler(deps.kategoriRepo))

			protected.GET("/jenis-kategori", kategori.ListJenisHandler(deps.kategoriRepo))
			protected.POST("/jenis-kategori", kategori.CreateJenisHandler(deps.kategoriRepo))
			protected.GET("/jenis-kategori/:jenisId", kategori.GetJenisHandler(deps.kategoriRepo))
			protected.PUT("/jenis-kategori/:jenisId", kategori.UpdateJenisHandler(deps.kategoriRepo))
			protected.DELETE("/jenis-kategori/:jenisId", kategori.DeleteJenisHandler(deps.kategoriRepo))

			protected.GET("/jobs/:id", jobStatusHandler(deps.jobManager))
		}
	}
}

// setupJobs はメンテナンスジョブ基盤を初期化します。
func setupJobs(cfg *config.Config, photoStore *storage.Local) (*jobs.Manager, error) {
	opt, err := redis.ParseURL(cfg.QueueRedisURL)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(opt)
	store := jobs.NewStore(redisClient, 24*time.Hour)
	return jobs.NewManager(cfg.QueueRedisURL, store, photoStore, nil)
}

// jobStatusHandler は GET /api/jobs/:id のハンドラーを返します。
func jobStatusHandler(manager *jobs.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		if strings.TrimSpace(jobID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"errors": "jobId を指定してください",
			})
			return
		}

		record, err := manager.GetRecord(c.Request.Context(), jobID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"errors": "ジョブ情報の取得に失敗しました",
			})
			return
		}
		if record == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"errors": "指定されたジョブは存在しません",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  http.StatusOK,
			"code":    "OK",
			"message": "Success get job",
			"data":    record,
		})
	}
}
