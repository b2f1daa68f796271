// file: internals/features/tenants/controller/tenant_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	roomModel "kostku_backend/internals/features/rooms/model"
	"kostku_backend/internals/features/tenants/dto"
	model "kostku_backend/internals/features/tenants/model"
	helper "kostku_backend/internals/helpers"
)

type TenantController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewTenantController(db *gorm.DB) *TenantController {
	return &TenantController{DB: db, Validator: helper.Validator()}
}

var tenantSortColumns = map[string]string{
	"created_at": "tenant_created_at",
	"name":       "tenant_full_name",
}

func (ctl *TenantController) findOwned(c *fiber.Ctx, sc helper.Scope) (*model.TenantModel, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "tenant_id tidak valid")
	}
	var t model.TenantModel
	if err := ctl.DB.WithContext(c.Context()).First(&t, "tenant_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Penghuni tidak ditemukan")
		}
		return nil, err
	}
	if !sc.CanManage(t.TenantOwnerID) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Tidak punya akses ke penghuni ini")
	}
	return &t, nil
}

// POST /tenants
func (ctl *TenantController) Create(c *fiber.Ctx) error {
	sc, err := helper.ScopeFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	var req dto.CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()

	errs := map[string][]string{}
	if err := ctl.Validator.Struct(&req); err != nil {
		errs = helper.ValidationErrorsToMap(err)
	}
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

	t := req.ToModel(ownerID)
	if err := ctl.DB.WithContext(c.Context()).Create(t).Error; err != nil {
		log.Error().Err(err).Msg("create tenant gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan penghuni")
	}
	return helper.JsonCreated(c, "Penghuni berhasil dibuat", dto.FromModel(t))
}

// GET /tenants?q=
func (ctl *TenantController) List(c *fiber.Ctx) error {
	sc, err := helper.ScopeFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	q := ctl.DB.WithContext(c.Context()).Model(&model.TenantModel{})
	if owner := sc.OwnerFilter(); owner != nil {
		q = q.Where("tenant_owner_id = ?", *owner)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(tenant_full_name) LIKE ? OR tenant_phone LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung data")
	}
	var rows []model.TenantModel
	if err := q.Order(p.OrderClause(tenantSortColumns, "name")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	out := make([]dto.TenantResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildMeta(total, p))
}

// GET /tenants/:id
func (ctl *TenantController) Get(c *fiber.Ctx) error {
	sc, err := helper.ScopeFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	t, err := ctl.findOwned(c, sc)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(t))
}

// PATCH /tenants/:id
func (ctl *TenantController) Patch(c *fiber.Ctx) error {
	sc, err := helper.ScopeFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	t, err := ctl.findOwned(c, sc)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	var req dto.PatchTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := req.ApplyTo(t); len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}
	if err := ctl.DB.WithContext(c.Context()).Save(t).Error; err != nil {
		log.Error().Err(err).Str("tenant_id", t.TenantID.String()).Msg("update tenant gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan penghuni")
	}
	return helper.JsonUpdated(c, "Penghuni diperbarui", dto.FromModel(t))
}

// DELETE /tenants/:id (soft). Penghuni yang masih menempati kamar ditolak.
func (ctl *TenantController) Delete(c *fiber.Ctx) error {
	sc, err := helper.ScopeFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	t, err := ctl.findOwned(c, sc)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	var n int64
	if err := ctl.DB.WithContext(c.Context()).Model(&roomModel.RoomModel{}).
		Where("room_tenant_id = ?", t.TenantID).Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa kamar")
	}
	if n > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Penghuni masih menempati kamar")
	}
	if err := ctl.DB.WithContext(c.Context()).Delete(t).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus penghuni")
	}
	return helper.JsonDeleted(c, "Penghuni dihapus", fiber.Map{"tenant_id": t.TenantID})
}
