// file: internals/features/tenants/route/tenant_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	tenantController "kostku_backend/internals/features/tenants/controller"
)

// OwnerTenantRoutes: /api/o/tenants
func OwnerTenantRoutes(r fiber.Router, db *gorm.DB) {
	ctl := tenantController.NewTenantController(db)

	tenants := r.Group("/tenants")
	{
		tenants.Post("/", ctl.Create)
		tenants.Get("/", ctl.List)
		tenants.Get("/:id", ctl.Get)
		tenants.Patch("/:id", ctl.Patch)
		tenants.Delete("/:id", ctl.Delete)
	}
}
