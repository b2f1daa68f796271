// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"kostku_backend/internals/constants"
	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/reminders"
	paymentService "kostku_backend/internals/features/payments/midtrans/service"
	authMiddleware "kostku_backend/internals/middlewares/auth"
	routeDetails "kostku_backend/internals/route/details"
)

var startTime time.Time

// Deps = service yang dibangun di main dan dibagi ke semua route.
type Deps struct {
	DB        *gorm.DB
	Bills     *billService.Service
	Payments  *paymentService.PaymentService
	Templates *reminders.Templates
	Reminders *reminders.Job
	Enforcer  *casbin.Enforcer
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	db := d.DB
	jwt := authMiddleware.AuthMiddleware(db)

	BaseRoutes(app, db)

	// ===================== AUTH =====================
	log.Info().Msg("[ROUTE] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db, jwt)

	// ===================== GROUPS =====================

	// PUBLIC → tanpa JWT (webhook)
	public := app.Group("/api/public")

	// TENANT → penghuni, tagihan sendiri
	tenant := app.Group("/api/t",
		jwt,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorTenant("tagihan"), constants.TenantOnly),
		authMiddleware.AuthorizeByPath(d.Enforcer, "/api/t"),
	)

	// OWNER → pemilik kos (admin ikut boleh)
	owner := app.Group("/api/o",
		jwt,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorOwner("pengelolaan kos"), constants.OwnerAndAbove),
		authMiddleware.AuthorizeByPath(d.Enforcer, "/api/o"),
	)

	// ADMIN → operasional
	admin := app.Group("/api/a",
		jwt,
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("operasional"), constants.AdminOnly),
	)

	// ===================== MOUNT ROUTES =====================
	log.Info().Msg("[ROUTE] Mounting Kost routes...")
	routeDetails.KostOwnerRoutes(owner, db, d.Bills)

	log.Info().Msg("[ROUTE] Mounting Billing routes...")
	routeDetails.BillingPublicRoutes(public, d.Payments)
	routeDetails.BillingOwnerRoutes(owner, db, d.Bills, d.Templates, d.Payments)
	routeDetails.BillingTenantRoutes(tenant, db, d.Bills, d.Templates, d.Payments)
	routeDetails.BillingAdminRoutes(admin, d.Reminders)
}
