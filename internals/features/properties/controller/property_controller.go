// file: internals/features/properties/controller/property_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"kostku_backend/internals/features/properties/dto"
	model "kostku_backend/internals/features/properties/model"
	roomModel "kostku_backend/internals/features/rooms/model"
	helper "kostku_backend/internals/helpers"
)

type PropertyController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPropertyController(db *gorm.DB) *PropertyController {
	return &PropertyController{DB: db, Validator: helper.Validator()}
}

var propertySortColumns = map[string]string{
	"created_at": "property_created_at",
	"name":       "property_name",
	"city":       "property_city",
}

func mergeErrs(dst map[string][]string, src map[string][]string) {
	for k, v := range src {
		dst[k] = append(dst[k], v...)
	}
}

// findOwned: 404 kalau tidak ada, 403 kalau bukan milik pemanggil.
func (ctl *PropertyController) findOwned(c *fiber.Ctx, sc helper.Scope) (*model.PropertyModel, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "property_id tidak valid")
	}
	var p model.PropertyModel
	if err := ctl.DB.WithContext(c.Context()).First(&p, "property_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Properti tidak ditemukan")
		}
		return nil, err
	}
	if !sc.CanManage(p.PropertyOwnerID) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Tidak punya akses ke properti ini")
	}
	return &p, nil
}

// POST /properties
func (ctl *PropertyController) Create(c *fiber.Ctx) error {
	sc, err := helper.ScopeFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	var req dto.CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()

	errs := map[string][]string{}
	if err := ctl.Validator.Struct(&req); err != nil {
		errs = helper.ValidationErrorsToMap(err)
	}
	mergeErrs(errs, req.Check())

	ownerID := sc.UserID
	if sc.IsAdmin() {
		if req.OwnerID == nil {
			errs["owner_id"] = append(errs["owner_id"], "required")
		} else if id, err := uuid.Parse(*req.OwnerID); err == nil {
			ownerID = id
		}
	}
	if len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}

	p := req.ToModel(ownerID)
	if err := ctl.DB.WithContext(c.Context()).Create(p).Error; err != nil {
		log.Error().Err(err).Msg("create property gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan properti")
	}
	return helper.JsonCreated(c, "Properti berhasil dibuat", dto.FromModel(p))
}

// GET /properties?q=&city=
func (ctl *PropertyController) List(c *fiber.Ctx) error {
	sc, err := helper.ScopeFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	q := ctl.DB.WithContext(c.Context()).Model(&model.PropertyModel{})
	if owner := sc.OwnerFilter(); owner != nil {
		q = q.Where("property_owner_id = ?", *owner)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("LOWER(property_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if city := strings.TrimSpace(c.Query("city")); city != "" {
		q = q.Where("LOWER(property_city) = ?", strings.ToLower(city))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung data")
	}

	var rows []model.PropertyModel
	if err := q.Order(p.OrderClause(propertySortColumns, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	out := make([]dto.PropertyResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /properties/:id
func (ctl *PropertyController) Get(c *fiber.Ctx) error {
	sc, err := helper.ScopeFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	prop, err := ctl.findOwned(c, sc)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	var n int64
	ctl.DB.WithContext(c.Context()).Model(&roomModel.RoomModel{}).
		Where("room_property_id = ?", prop.PropertyID).Count(&n)

	out := dto.FromModel(prop)
	out.RoomCount = &n
	return helper.JsonOK(c, "ok", out)
}

// PATCH /properties/:id
func (ctl *PropertyController) Patch(c *fiber.Ctx) error {
	sc, err := helper.ScopeFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	prop, err := ctl.findOwned(c, sc)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	var req dto.PatchPropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := req.ApplyTo(prop); len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}

	if err := ctl.DB.WithContext(c.Context()).Save(prop).Error; err != nil {
		log.Error().Err(err).Str("property_id", prop.PropertyID.String()).Msg("update property gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan properti")
	}
	return helper.JsonUpdated(c, "Properti diperbarui", dto.FromModel(prop))
}

// DELETE /properties/:id (soft). Ditolak bila masih ada kamar terisi.
func (ctl *PropertyController) Delete(c *fiber.Ctx) error {
	sc, err := helper.ScopeFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	prop, err := ctl.findOwned(c, sc)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	var occupied int64
	if err := ctl.DB.WithContext(c.Context()).Model(&roomModel.RoomModel{}).
		Where("room_property_id = ? AND room_tenant_id IS NOT NULL", prop.PropertyID).
		Count(&occupied).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa kamar")
	}
	if occupied > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Masih ada kamar yang terisi")
	}

	if err := ctl.DB.WithContext(c.Context()).Delete(prop).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus properti")
	}
	return helper.JsonDeleted(c, "Properti dihapus", fiber.Map{"property_id": prop.PropertyID})
}
