// file: internals/features/billing/bills/controller/bill_controller.go
package controller

import (
	"bytes"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"kostku_backend/internals/features/billing/bills/dto"
	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/engine"
	"kostku_backend/internals/features/billing/exports"
	"kostku_backend/internals/features/billing/reminders"
	helper "kostku_backend/internals/helpers"
)

type BillController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *billService.Service
	Templates *reminders.Templates
}

func NewBillController(db *gorm.DB, svc *billService.Service, tpl *reminders.Templates) *BillController {
	return &BillController{
		DB:        db,
		Validator: helper.Validator(),
		Service:   svc,
		Templates: tpl,
	}
}

var billSortColumns = map[string]string{
	"created_at": "bills.bill_created_at",
	"period":     "bills.bill_period",
	"total":      "bills.bill_total_amount",
}

func parseBillID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "bill_id tidak valid")
	}
	return id, nil
}

// bindGenerate: parse body, validasi tag + semantik sekaligus.
func (ctl *BillController) bindGenerate(c *fiber.Ctx) (billService.GenerateInput, error) {
	var req dto.GenerateBillRequest
	if err := c.BodyParser(&req); err != nil {
		return billService.GenerateInput{}, fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()

	ve := &billService.ValidationError{}
	if err := ctl.Validator.Struct(&req); err != nil {
		ve.Merge(helper.ValidationErrorsToMap(err))
	}
	in := req.ToInput()
	if err := in.Validate(); err != nil {
		if sem, ok := billService.AsValidationError(err); ok {
			ve.Merge(sem.Fields)
		} else {
			return in, err
		}
	}
	return in, ve.OrNil()
}

// POST /bills/generate
func (ctl *BillController) Generate(c *fiber.Ctx) error {
	actor, err := ActorFromCtx(c)
	if err != nil {
		return RespondError(c, err)
	}
	in, err := ctl.bindGenerate(c)
	if err != nil {
		return RespondError(c, err)
	}

	res, err := ctl.Service.Generate(c.Context(), actor, in)
	if err != nil {
		return RespondError(c, err)
	}
	return helper.JsonCreated(c, "Tagihan berhasil dibuat", dto.FromModel(res.Bill))
}

// POST /bills/preview
func (ctl *BillController) Preview(c *fiber.Ctx) error {
	actor, err := ActorFromCtx(c)
	if err != nil {
		return RespondError(c, err)
	}
	in, err := ctl.bindGenerate(c)
	if err != nil {
		return RespondError(c, err)
	}

	res, err := ctl.Service.Preview(c.Context(), actor, in)
	if err != nil {
		return RespondError(c, err)
	}
	// bill_id kosong: belum disimpan
	return helper.JsonOK(c, "Perkiraan tagihan", dto.FromModel(res.Bill))
}

// GET /bills
func (ctl *BillController) List(c *fiber.Ctx) error {
	actor, err := ActorFromCtx(c)
	if err != nil {
		return RespondError(c, err)
	}

	var q dto.ListBillQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Query tidak valid")
	}
	filter, errs := q.ToFilter()
	if len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)
	filter.Order = p.OrderClause(billSortColumns, "created_at")
	filter.Limit = p.Limit()
	filter.Offset = p.Offset()

	rows, total, err := ctl.Service.List(c.Context(), actor, filter)
	if err != nil {
		return RespondError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildMeta(total, p))
}

// GET /bills/:id
func (ctl *BillController) Get(c *fiber.Ctx) error {
	actor, err := ActorFromCtx(c)
	if err != nil {
		return RespondError(c, err)
	}
	id, err := parseBillID(c)
	if err != nil {
		return RespondError(c, err)
	}
	b, err := ctl.Service.Get(c.Context(), actor, id)
	if err != nil {
		return RespondError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(b))
}

// POST /bills/:id/mark-paid
func (ctl *BillController) MarkPaid(c *fiber.Ctx) error {
	actor, err := ActorFromCtx(c)
	if err != nil {
		return RespondError(c, err)
	}
	id, err := parseBillID(c)
	if err != nil {
		return RespondError(c, err)
	}
	b, err := ctl.Service.MarkPaid(c.Context(), actor, id, "manual")
	if err != nil {
		return RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Tagihan ditandai lunas", dto.FromModel(b))
}

// POST /bills/:id/mark-unpaid
func (ctl *BillController) MarkUnpaid(c *fiber.Ctx) error {
	actor, err := ActorFromCtx(c)
	if err != nil {
		return RespondError(c, err)
	}
	id, err := parseBillID(c)
	if err != nil {
		return RespondError(c, err)
	}
	b, err := ctl.Service.MarkUnpaid(c.Context(), actor, id)
	if err != nil {
		return RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Tagihan ditandai belum lunas", dto.FromModel(b))
}

// loadStatement: cek akses lewat service dulu, baru ambil data dokumen.
func (ctl *BillController) loadStatement(c *fiber.Ctx) (*exports.Statement, error) {
	actor, err := ActorFromCtx(c)
	if err != nil {
		return nil, err
	}
	id, err := parseBillID(c)
	if err != nil {
		return nil, err
	}
	if _, err := ctl.Service.Get(c.Context(), actor, id); err != nil {
		return nil, err
	}
	return exports.LoadStatement(c.Context(), ctl.DB, id)
}

// GET /bills/:id/pdf
func (ctl *BillController) PDF(c *fiber.Ctx) error {
	st, err := ctl.loadStatement(c)
	if err != nil {
		return RespondError(c, err)
	}
	var buf bytes.Buffer
	if err := exports.RenderPDF(&buf, st); err != nil {
		return RespondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="tagihan-`+st.Bill.ShortID()+`-`+st.Bill.BillPeriod+`.pdf"`)
	return c.Send(buf.Bytes())
}

// GET /bills/export.xlsx?period=YYYY-MM
func (ctl *BillController) ExportXLSX(c *fiber.Ctx) error {
	actor, err := ActorFromCtx(c)
	if err != nil {
		return RespondError(c, err)
	}
	if actor.IsTenant() {
		return RespondError(c, billService.ErrForbidden)
	}
	period := strings.TrimSpace(c.Query("period"))
	if !engine.IsValidPeriod(period) {
		return helper.JsonValidationError(c, map[string][]string{"period": {"period"}})
	}

	q := exports.StatementQuery{Period: period}
	if !actor.IsAdmin() {
		q.OwnerID = &actor.UserID
	}
	rows, err := exports.QueryStatements(c.Context(), ctl.DB, q)
	if err != nil {
		return RespondError(c, err)
	}

	var buf bytes.Buffer
	if err := exports.RenderXLSX(&buf, period, rows); err != nil {
		return RespondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="tagihan-`+period+`.xlsx"`)
	return c.Send(buf.Bytes())
}

// GET /bills/:id/whatsapp
func (ctl *BillController) WhatsApp(c *fiber.Ctx) error {
	st, err := ctl.loadStatement(c)
	if err != nil {
		return RespondError(c, err)
	}
	msg, err := ctl.Templates.Render(st)
	if err != nil {
		return RespondError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"phone":   reminders.NormalizePhone(st.TenantPhone),
		"message": msg.WhatsApp,
		"link":    reminders.WhatsAppLink(st.TenantPhone, msg.WhatsApp),
	})
}
