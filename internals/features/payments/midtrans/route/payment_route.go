package route

import (
	"github.com/gofiber/fiber/v2"

	"kostku_backend/internals/features/payments/midtrans/controller"
	"kostku_backend/internals/features/payments/midtrans/service"
	"kostku_backend/internals/middlewares"
)

// BillPaymentRoutes: dipasang di group tenant (/api/t) dan owner (/api/o).
func BillPaymentRoutes(r fiber.Router, svc *service.PaymentService) {
	ctl := controller.NewPaymentController(svc)
	r.Post("/bills/:id/pay", ctl.Pay)
	r.Get("/bills/:id/payments", ctl.List)
}

// PublicPaymentRoutes: webhook Midtrans, tanpa JWT.
func PublicPaymentRoutes(r fiber.Router, svc *service.PaymentService) {
	ctl := controller.NewPaymentController(svc)
	r.Post("/payments/midtrans/notification", middlewares.WebhookRateLimiter(), ctl.Notification)
}
