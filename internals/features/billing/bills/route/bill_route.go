// file: internals/features/billing/bills/route/bill_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	billController "kostku_backend/internals/features/billing/bills/controller"
	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/reminders"
)

// OwnerBillRoutes: /api/o/bills (owner & admin)
func OwnerBillRoutes(r fiber.Router, db *gorm.DB, svc *billService.Service, tpl *reminders.Templates) {
	ctl := billController.NewBillController(db, svc, tpl)

	bills := r.Group("/bills")
	{
		bills.Post("/generate", ctl.Generate)
		bills.Post("/preview", ctl.Preview)
		bills.Get("/", ctl.List)
		bills.Get("/export.xlsx", ctl.ExportXLSX) // harus sebelum /:id
		bills.Get("/:id", ctl.Get)
		bills.Get("/:id/pdf", ctl.PDF)
		bills.Get("/:id/whatsapp", ctl.WhatsApp)
		bills.Post("/:id/mark-paid", ctl.MarkPaid)
		bills.Post("/:id/mark-unpaid", ctl.MarkUnpaid)
	}
}

// TenantBillRoutes: /api/t/bills, read-only dan otomatis dibatasi ke tagihan sendiri.
func TenantBillRoutes(r fiber.Router, db *gorm.DB, svc *billService.Service, tpl *reminders.Templates) {
	ctl := billController.NewBillController(db, svc, tpl)

	bills := r.Group("/bills")
	{
		bills.Get("/", ctl.List)
		bills.Get("/:id", ctl.Get)
		bills.Get("/:id/pdf", ctl.PDF)
	}
}
