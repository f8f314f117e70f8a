package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/resep-api/internal/apperr"
)

// ContextUserIDKey は、ハンドラー間で認証済みユーザーIDを共有するためのキーです。
const ContextUserIDKey = "auth.userId"

// RequireAuth は保護ルート用のミドルウェアを返します。
// Authorization ヘッダーのアクセストークンを検証し、ユーザーIDを
// リクエストコンテキストに載せます。アクセストークンの有効性は
// 署名と期限だけで自己完結するため、ここではストアに問い合わせません。
func RequireAuth(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			abortWithError(c, apperr.MissingToken())
			return
		}

		userID, err := issuer.VerifyAccess(token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// BearerToken は Authorization ヘッダーからベアラートークンを取り出します。
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// CurrentUserID はコンテキストから認証済みユーザーIDを取り出します。
func CurrentUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
