package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/resep-api/internal/apperr"
	"github.com/yourusername/resep-api/internal/validation"
	"github.com/yourusername/resep-api/internal/webx"
)

// LoginService はログイン系ハンドラーが必要とする操作です。
type LoginService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, presented string) (*TokenPair, error)
	Logout(ctx context.Context, userID int64) error
}

// loginSchema はログインリクエストボディの検証スキーマです。
var loginSchema = validation.Schema{
	{Name: "email", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100)}},
	{Name: "password", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100)}},
}

// LoginHandler は POST /api/users/login のハンドラーを返します。
func LoginHandler(svc LoginService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload map[string]any
		if err := c.ShouldBindJSON(&payload); err != nil {
			_ = c.Error(apperr.ValidationMessage("email と password を JSON で送ってください"))
			return
		}

		data, fieldErrs := validation.Apply(loginSchema, payload)
		if fieldErrs != nil {
			_ = c.Error(apperr.Validation(fieldErrs))
			return
		}

		email, _ := data["email"].(string)
		password, _ := data["password"].(string)

		pair, err := svc.Login(c.Request.Context(), email, password)
		if err != nil {
			_ = c.Error(err)
			return
		}

		webx.OK(c, "Success login", gin.H{
			"token":        pair.AccessToken,
			"refreshToken": pair.RefreshToken,
		})
	}
}

// RefreshHandler は POST /api/users/refresh のハンドラーを返します。
// リフレッシュトークンは Authorization: Bearer ヘッダーで受け取ります。
func RefreshHandler(svc LoginService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			_ = c.Error(apperr.MissingToken())
			return
		}

		pair, err := svc.Refresh(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			return
		}

		data := gin.H{"token": pair.AccessToken}
		if pair.RefreshToken != "" {
			data["refreshToken"] = pair.RefreshToken
		}
		webx.OK(c, "Success refresh access token", data)
	}
}

// LogoutHandler は DELETE /api/users/logout のハンドラーを返します。
// RequireAuth の後段で使用します。
func LogoutHandler(svc LoginService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			_ = c.Error(apperr.MissingToken())
			return
		}

		if err := svc.Logout(c.Request.Context(), userID); err != nil {
			_ = c.Error(apperr.Internal(err))
			return
		}

		webx.OK(c, "Success logout", true)
	}
}
