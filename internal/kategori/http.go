package kategori

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/resep-api/internal/apperr"
	"github.com/yourusername/resep-api/internal/validation"
	"github.com/yourusername/resep-api/internal/webx"
)

var jenisSchema = validation.Schema{
	{Name: "nama_jenis", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100)}},
}

var kategoriSchema = validation.Schema{
	{Name: "id_jenis_kategori", Rules: []validation.Rule{validation.Required(), validation.Positive()}},
	{Name: "nama_kategori", Rules: []validation.Rule{validation.Required(), validation.MaxLen(100)}},
}

// CreateJenisHandler は POST /api/jenis-kategori のハンドラーを返します。
func CreateJenisHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := bindAndValidate(c, jenisSchema)
		if !ok {
			return
		}

		name, _ := data["nama_jenis"].(string)
		j, err := repo.CreateJenis(c.Request.Context(), &Jenis{Name: name})
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.Created(c, "Success create new jenis kategori", j)
	}
}

// ListJenisHandler は GET /api/jenis-kategori のハンドラーを返します。
func ListJenisHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.ListJenis(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success get all jenis kategori", list)
	}
}

// GetJenisHandler は GET /api/jenis-kategori/:jenisId のハンドラーを返します。
func GetJenisHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "jenisId")
		if !ok {
			return
		}

		j, err := repo.GetJenisByID(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success get jenis kategori", j)
	}
}

// UpdateJenisHandler は PUT /api/jenis-kategori/:jenisId のハンドラーを返します。
func UpdateJenisHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "jenisId")
		if !ok {
			return
		}
		data, ok := bindAndValidate(c, jenisSchema)
		if !ok {
			return
		}

		name, _ := data["nama_jenis"].(string)
		j, err := repo.UpdateJenis(c.Request.Context(), &Jenis{ID: id, Name: name})
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success update jenis kategori", j)
	}
}

// DeleteJenisHandler は DELETE /api/jenis-kategori/:jenisId のハンドラーを返します。
func DeleteJenisHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "jenisId")
		if !ok {
			return
		}

		if err := repo.DeleteJenis(c.Request.Context(), id); err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success delete jenis kategori", true)
	}
}

// CreateKategoriHandler は POST /api/kategori のハンドラーを返します。
func CreateKategoriHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := bindAndValidate(c, kategoriSchema)
		if !ok {
			return
		}

		k, err := repo.CreateKategori(c.Request.Context(), &Kategori{
			JenisID: asInt64(data["id_jenis_kategori"]),
			Name:    asString(data["nama_kategori"]),
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.Created(c, "Success create new kategori resep", k)
	}
}

// ListKategoriHandler は GET /api/kategori のハンドラーを返します。
func ListKategoriHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.ListKategori(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success get all kategori resep", list)
	}
}

// GetKategoriHandler は GET /api/kategori/:kategoriId のハンドラーを返します。
func GetKategoriHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "kategoriId")
		if !ok {
			return
		}

		k, err := repo.GetKategoriByID(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success get kategori resep", k)
	}
}

// UpdateKategoriHandler は PUT /api/kategori/:kategoriId のハンドラーを返します。
func UpdateKategoriHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "kategoriId")
		if !ok {
			return
		}
		data, ok := bindAndValidate(c, kategoriSchema)
		if !ok {
			return
		}

		k, err := repo.UpdateKategori(c.Request.Context(), &Kategori{
			ID:      id,
			JenisID: asInt64(data["id_jenis_kategori"]),
			Name:    asString(data["nama_kategori"]),
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success update kategori resep", k)
	}
}

// DeleteKategoriHandler は DELETE /api/kategori/:kategoriId のハンドラーを返します。
func DeleteKategoriHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "kategoriId")
		if !ok {
			return
		}

		if err := repo.DeleteKategori(c.Request.Context(), id); err != nil {
			_ = c.Error(err)
			return
		}
		webx.OK(c, "Success delete kategori resep", true)
	}
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperr.ValidationMessage(name + " は正の整数で指定してください"))
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
