package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	billRoute "kostku_backend/internals/features/billing/bills/route"
	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/reminders"
	paymentRoute "kostku_backend/internals/features/payments/midtrans/route"
	paymentService "kostku_backend/internals/features/payments/midtrans/service"
)

func BillingOwnerRoutes(owner fiber.Router, db *gorm.DB, bills *billService.Service, tpl *reminders.Templates, pay *paymentService.PaymentService) {
	billRoute.OwnerBillRoutes(owner, db, bills, tpl)
	paymentRoute.BillPaymentRoutes(owner, pay)
}

func BillingTenantRoutes(tenant fiber.Router, db *gorm.DB, bills *billService.Service, tpl *reminders.Templates, pay *paymentService.PaymentService) {
	billRoute.TenantBillRoutes(tenant, db, bills, tpl)
	paymentRoute.BillPaymentRoutes(tenant, pay)
}

func BillingPublicRoutes(public fiber.Router, pay *paymentService.PaymentService) {
	paymentRoute.PublicPaymentRoutes(public, pay)
}

func BillingAdminRoutes(admin fiber.Router, job *reminders.Job) {
	admin.Post("/reminders/run", reminders.RunHandler(job))
}
