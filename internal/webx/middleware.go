package webx

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/resep-api/internal/apperr"
)

// ErrorMiddleware はハンドラーが c.Error で報告したエラーを
// HTTPステータスとエラーレスポンスへ一括変換するミドルウェアを返します。
// 変換はここ一箇所でのみ行い、各ハンドラーは検出した種別のまま伝播させます。
func ErrorMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		translate(c, last.Err, logger)
	}
}

// NotFoundHandler は未定義ルートへの 404 レスポンスを書き込みます。
func NotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"errors": "リクエストされたリソースは存在しません",
	})
}

func translate(c *gin.Context, err error, logger *log.Logger) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		if logger != nil {
			logger.Printf("unhandled error: %v", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"errors": "サーバー内部でエラーが発生しました",
		})
		return
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		if len(appErr.Fields) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": appErr.Fields})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": appErr.Message})
	case apperr.KindInvalidCredentials, apperr.KindInvalidToken, apperr.KindMissingToken:
		c.JSON(http.StatusUnauthorized, gin.H{"errors": appErr.Message})
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"errors": appErr.Message})
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"errors": appErr.Message})
	case apperr.KindCorruptCredential:
		// 保存データの破損はサーバー障害としてログに残す
		if logger != nil {
			logger.Printf("corrupt credential detected: %v", appErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"errors": appErr.Message})
	default:
		if logger != nil {
			logger.Printf("internal error: %v", appErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"errors": appErr.Message})
	}
}
