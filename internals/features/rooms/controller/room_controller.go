// file: internals/features/rooms/controller/room_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"kostku_backend/internals/constants"
	"kostku_backend/internals/databases"
	billController "kostku_backend/internals/features/billing/bills/controller"
	billDTO "kostku_backend/internals/features/billing/bills/dto"
	"kostku_backend/internals/features/rooms/dto"
	model "kostku_backend/internals/features/rooms/model"
	roomService "kostku_backend/internals/features/rooms/service"
	helper "kostku_backend/internals/helpers"
)

type RoomController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *roomService.RoomService
}

func NewRoomController(db *gorm.DB, svc *roomService.RoomService) *RoomController {
	return &RoomController{DB: db, Validator: helper.Validator(), Service: svc}
}

var roomSortColumns = map[string]string{
	"name":       "room_name",
	"price":      "room_monthly_price",
	"created_at": "room_created_at",
}

func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, roomService.ErrRoomNotFound),
		errors.Is(err, roomService.ErrPropertyNotFound),
		errors.Is(err, roomService.ErrTenantNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, roomService.ErrForbidden):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, roomService.ErrRoomOccupied),
		errors.Is(err, roomService.ErrRoomMaintenance),
		errors.Is(err, roomService.ErrRoomVacant),
		errors.Is(err, roomService.ErrTenantBusy),
		errors.Is(err, roomService.ErrMoveInAlreadySet):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case database.IsUniqueViolation(err):
		return helper.JsonError(c, fiber.StatusConflict, "Nama kamar sudah dipakai di properti ini")
	default:
		return billController.RespondError(c, err)
	}
}

func parseRoomID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "room_id tidak valid")
	}
	return id, nil
}

// POST /rooms
func (ctl *RoomController) Create(c *fiber.Ctx) error {
	actor, err := billController.ActorFromCtx(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	propertyID := uuid.MustParse(req.PropertyID)
	if _, err := ctl.Service.Property(c.Context(), actor, propertyID); err != nil {
		return respondError(c, err)
	}

	room := req.ToModel(propertyID)
	if err := ctl.DB.WithContext(c.Context()).Create(room).Error; err != nil {
		return respondError(c, err)
	}
	return helper.JsonCreated(c, "Kamar berhasil dibuat", dto.FromModel(room))
}

// GET /rooms?property_id=&status=
func (ctl *RoomController) List(c *fiber.Ctx) error {
	sc, err := helper.ScopeFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	q := ctl.DB.WithContext(c.Context()).Model(&model.RoomModel{})
	if owner := sc.OwnerFilter(); owner != nil {
		q = q.Where("room_property_id IN (?)",
			ctl.DB.Table("properties").Select("property_id").
				Where("property_owner_id = ? AND property_deleted_at IS NULL", *owner))
	}
	if s := strings.TrimSpace(c.Query("property_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{"property_id": {"uuid"}})
		}
		q = q.Where("room_property_id = ?", id)
	}
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		if !model.IsValidRoomStatus(st) {
			return helper.JsonValidationError(c, map[string][]string{"status": {"oneof"}})
		}
		q = q.Where("room_status = ?", st)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung data")
	}
	var rows []model.RoomModel
	if err := q.Order(p.OrderClause(roomSortColumns, "name")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildMeta(total, p))
}

// GET /rooms/:id
func (ctl *RoomController) Get(c *fiber.Ctx) error {
	actor, err := billController.ActorFromCtx(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseRoomID(c)
	if err != nil {
		return respondError(c, err)
	}
	room, err := ctl.Service.Get(c.Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(room))
}

// PATCH /rooms/:id
func (ctl *RoomController) Patch(c *fiber.Ctx) error {
	actor, err := billController.ActorFromCtx(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseRoomID(c)
	if err != nil {
		return respondError(c, err)
	}
	room, err := ctl.Service.Get(c.Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.PatchRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if errs := req.ApplyTo(room); len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}
	if err := ctl.DB.WithContext(c.Context()).Save(room).Error; err != nil {
		return respondError(c, err)
	}
	return helper.JsonUpdated(c, "Kamar diperbarui", dto.FromModel(room))
}

// DELETE /rooms/:id (soft). Kamar terisi harus dikosongkan dulu.
func (ctl *RoomController) Delete(c *fiber.Ctx) error {
	actor, err := billController.ActorFromCtx(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseRoomID(c)
	if err != nil {
		return respondError(c, err)
	}
	room, err := ctl.Service.Get(c.Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	if !room.IsVacant() {
		return respondError(c, roomService.ErrRoomOccupied)
	}
	if err := ctl.DB.WithContext(c.Context()).Delete(room).Error; err != nil {
		return respondError(c, err)
	}
	return helper.JsonDeleted(c, "Kamar dihapus", fiber.Map{"room_id": room.RoomID})
}

// POST /rooms/:id/assign
func (ctl *RoomController) Assign(c *fiber.Ctx) error {
	actor, err := billController.ActorFromCtx(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseRoomID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.AssignTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	room, err := ctl.Service.AssignTenant(c.Context(), actor, id, uuid.MustParse(req.TenantID))
	if err != nil {
		return respondError(c, err)
	}
	return helper.JsonUpdated(c, "Penghuni ditempatkan", dto.FromModel(room))
}

// POST /rooms/:id/vacate
func (ctl *RoomController) Vacate(c *fiber.Ctx) error {
	actor, err := billController.ActorFromCtx(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseRoomID(c)
	if err != nil {
		return respondError(c, err)
	}
	room, err := ctl.Service.Vacate(c.Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return helper.JsonUpdated(c, "Kamar dikosongkan", dto.FromModel(room))
}

// POST /rooms/:id/move-in
func (ctl *RoomController) MoveIn(c *fiber.Ctx) error {
	actor, err := billController.ActorFromCtx(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseRoomID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.MoveInRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	errs := map[string][]string{}
	if err := ctl.Validator.Struct(&req); err != nil {
		errs = helper.ValidationErrorsToMap(err)
	}
	for k, v := range req.Check() {
		errs[k] = append(errs[k], v...)
	}
	if len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}
	date, _ := req.Date()

	in := roomService.MoveInInput{Date: date, GenerateFirstBill: req.GenerateFirstBill}
	if req.MeterStart != nil {
		in.MeterStart = *req.MeterStart
	}
	res, err := ctl.Service.SetMoveIn(c.Context(), actor, id, in)
	if err != nil {
		return respondError(c, err)
	}

	out := dto.MoveInResponse{Room: dto.FromModel(res.Room)}
	if res.FirstBill != nil {
		b := billDTO.FromModel(res.FirstBill.Bill)
		out.FirstBill = &b
	}
	if res.FirstBillErr != nil {
		msg := res.FirstBillErr.Error()
		out.FirstBillError = &msg
	}
	return helper.JsonUpdated(c, "Tanggal masuk disimpan", out)
}

// POST /rooms/import (multipart: property_id, file)
func (ctl *RoomController) Import(c *fiber.Ctx) error {
	actor, err := billController.ActorFromCtx(c)
	if err != nil {
		return respondError(c, err)
	}
	propertyID, err := uuid.Parse(strings.TrimSpace(c.FormValue("property_id")))
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"property_id": {"uuid"}})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"file": {"required"}})
	}
	if constants.DetectImportFormat(fh.Filename) != constants.ImportFormatXLSX {
		return helper.JsonValidationError(c, map[string][]string{"file": {"xlsx"}})
	}

	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File tidak bisa dibaca")
	}
	defer f.Close()

	res, err := ctl.Service.ImportRooms(c.Context(), actor, propertyID, f)
	if err != nil {
		if errors.Is(err, roomService.ErrForbidden) || errors.Is(err, roomService.ErrPropertyNotFound) {
			return respondError(c, err)
		}
		log.Warn().Err(err).Str("file", fh.Filename).Msg("import kamar gagal")
		return helper.JsonError(c, fiber.StatusBadRequest, "File Excel tidak valid")
	}
	return helper.JsonCreated(c, "Import selesai", res)
}
