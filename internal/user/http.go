package user

import (
	"context"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/resep-api/internal/apperr"
	"github.com/yourusername/resep-api/internal/validation"
	"github.com/yourusername/resep-api/internal/webx"
)

// UserService はユーザー系ハンドラーが必要とする操作です。
type UserService interface {
	Create(ctx context.Context, input CreateInput) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, input UpdateInput) (*User, error)
	SetPhoto(ctx context.Context, id int64, photo string) (*User, error)
	Delete(ctx context.Context, id int64) error
}

// PhotoStore はアップロードされた写真の保存先です。
type PhotoStore interface {
	Save(ctx context.Context, originalName string, data []byte) (string, error)
}

var createSchema = validation.Schema{
	{Name: "id_role", Rules: []validation.Rule{validation.Required(), validation.Positive()}},
	{Name: "first_name", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100)}},
	{Name: "last_name", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100)}},
	{Name: "email", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100), validation.Email()}},
	{Name: "password", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100)}},
	{Name: "photo", Rules: []validation.Rule{validation.MaxLen(100)}},
}

var updateSchema = validation.Schema{
	{Name: "id_role", Rules: []validation.Rule{validation.Required(), validation.Positive()}},
	{Name: "first_name", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100)}},
	{Name: "last_name", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100)}},
	{Name: "email", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100), validation.Email()}},
	{Name: "password", Rules: []validation.Rule{validation.MaxLen(100)}},
	{Name: "photo", Rules: []validation.Rule{validation.MaxLen(100)}},
}

// CreateHandler は POST /api/users のハンドラーを返します。
func CreateHandler(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := bindAndValidate(c, createSchema)
		if !ok {
			return
		}

		u, err := svc.Create(c.Request.Context(), CreateInput{
			RoleID:    asInt64(data["id_role"]),
			FirstName: asString(data["first_name"]),
			LastName:  asString(data["last_name"]),
			Email:     asString(data["email"]),
			Password:  asString(data["password"]),
			Photo:     asString(data["photo"]),
		})
		if err != nil {
			_ = c.Error(err)
			return
		}

		webx.Created(c, "Success create new user", u)
	}
}

// ListHandler は GET /api/users のハンドラーを返します。
func ListHandler(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.List(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success get all users", users)
	}
}

// GetHandler は GET /api/users/:userId のハンドラーを返します。
func GetHandler(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userIDParam(c)
		if !ok {
			return
		}

		u, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success get user", u)
	}
}

// UpdateHandler は PUT /api/users/:userId のハンドラーを返します。
func UpdateHandler(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userIDParam(c)
		if !ok {
			return
		}
		data, ok := bindAndValidate(c, updateSchema)
		if !ok {
			return
		}

		u, err := svc.Update(c.Request.Context(), UpdateInput{
			ID:        id,
			RoleID:    asInt64(data["id_role"]),
			FirstName: asString(data["first_name"]),
			LastName:  asString(data["last_name"]),
			Email:     asString(data["email"]),
			Password:  asString(data["password"]),
			Photo:     asString(data["photo"]),
		})
		if err != nil {
			_ = c.Error(err)
			return
		}

		webx.OK(c, "Success update user", u)
	}
}

// DeleteHandler は DELETE /api/users/:userId のハンドラーを返します。
func DeleteHandler(svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userIDParam(c)
		if !ok {
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success delete user", true)
	}
}

// PhotoHandler は POST /api/users/:userId/photo のハンドラーを返します。
// multipart/form-data の photo フィールドを受け取り保存します。
func PhotoHandler(svc UserService, store PhotoStore, maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userIDParam(c)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("photo")
		if err != nil {
			_ = c.Error(apperr.ValidationMessage("multipart/form-data で photo を送信してください"))
			return
		}
		if maxSize > 0 && fileHeader.Size > maxSize {
			_ = c.Error(apperr.ValidationMessage("写真のサイズが上限を超えています"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			_ = c.Error(apperr.Internal(err))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			_ = c.Error(apperr.Internal(err))
			return
		}

		stored, err := store.Save(c.Request.Context(), fileHeader.Filename, data)
		if err != nil {
			_ = c.Error(err)
			return
		}

		u, err := svc.SetPhoto(c.Request.Context(), id, stored)
		if err != nil {
			_ = c.Error(err)
			return
		}

		webx.OK(c, "Success update user photo", u)
	}
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperr.ValidationMessage("userId は正の整数で指定してください"))
		return 0, false
	}
	return id, true
}

func bindAndValidate(c *gin.Context, schema validation.Schema) (map[string]any, bool) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		_ = c.Error(apperr.ValidationMessage("リクエストボディを JSON で送ってください"))
		return nil, false
	}

	data, fieldErrs := validation.Apply(schema, payload)
	if fieldErrs != nil {
		_ = c.Error(apperr.Validation(fieldErrs))
		return nil, false
	}
	return data, true
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
