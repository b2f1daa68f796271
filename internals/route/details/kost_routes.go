package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	billService "kostku_backend/internals/features/billing/bills/service"
	propertyRoute "kostku_backend/internals/features/properties/route"
	roomRoute "kostku_backend/internals/features/rooms/route"
	tenantRoute "kostku_backend/internals/features/tenants/route"
)

// KostOwnerRoutes: properti, kamar, penghuni di /api/o.
func KostOwnerRoutes(owner fiber.Router, db *gorm.DB, bills *billService.Service) {
	propertyRoute.OwnerPropertyRoutes(owner, db)
	roomRoute.OwnerRoomRoutes(owner, db, bills)
	tenantRoute.OwnerTenantRoutes(owner, db)
}
