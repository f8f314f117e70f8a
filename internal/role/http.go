package role

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/resep-api/internal/apperr"
	"github.com/yourusername/resep-api/internal/validation"
	"github.com/yourusername/resep-api/internal/webx"
)

var roleSchema = validation.Schema{
	{Name: "nama_role", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100)}},
}

// CreateHandler は POST /api/roles のハンドラーを返します。
func CreateHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, ok := bindRoleName(c)
		if !ok {
			return
		}

		role, err := repo.Create(c.Request.Context(), &Role{Name: name})
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.Created(c, "Success create new role", role)
	}
}

// ListHandler は GET /api/roles のハンドラーを返します。
func ListHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := repo.List(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success get all roles", roles)
	}
}

// GetHandler は GET /api/roles/:roleId のハンドラーを返します。
func GetHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := roleIDParam(c)
		if !ok {
			return
		}

		role, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success get role", role)
	}
}

// UpdateHandler は PUT /api/roles/:roleId のハンドラーを返します。
func UpdateHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := roleIDParam(c)
		if !ok {
			return
		}
		name, ok := bindRoleName(c)
		if !ok {
			return
		}

		role, err := repo.Update(c.Request.Context(), &Role{ID: id, Name: name})
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success update role", role)
	}
}

// DeleteHandler は DELETE /api/roles/:roleId のハンドラーを返します。
func DeleteHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := roleIDParam(c)
		if !ok {
			return
		}

		if err := repo.Delete(c.Request.Context(), id); err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success delete role", true)
	}
}

func roleIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("roleId"), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperr.ValidationMessage("roleId は正の整数で指定してください"))
		return 0, false
	}
	return id, true
}

func bindRoleName(c *gin.Context) (string, bool) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		_ = c.Error(apperr.ValidationMessage("リクエストボディを JSON で送ってください"))
		return "", false
	}

	data, fieldErrs := validation.Apply(roleSchema, payload)
	if fieldErrs != nil {
		_ = c.Error(apperr.Validation(fieldErrs))
		return "", false
	}
	name, _ := data["nama_role"].(string)
	return name, true
}
