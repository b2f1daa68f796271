// file: internals/features/properties/route/property_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	propertyController "kostku_backend/internals/features/properties/controller"
)

// OwnerPropertyRoutes: /api/o/properties
func OwnerPropertyRoutes(r fiber.Router, db *gorm.DB) {
	ctl := propertyController.NewPropertyController(db)

	props := r.Group("/properties")
	{
		props.Post("/", ctl.Create)
		props.Get("/", ctl.List)
		props.Get("/:id", ctl.Get)
		props.Patch("/:id", ctl.Patch)
		props.Delete("/:id", ctl.Delete)
	}
}
