// file: internals/features/rooms/route/room_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	billService "kostku_backend/internals/features/billing/bills/service"
	roomController "kostku_backend/internals/features/rooms/controller"
	roomService "kostku_backend/internals/features/rooms/service"
)

// OwnerRoomRoutes: /api/o/rooms
func OwnerRoomRoutes(r fiber.Router, db *gorm.DB, bills *billService.Service) {
	ctl := roomController.NewRoomController(db, roomService.NewRoomService(db, bills))

	rooms := r.Group("/rooms")
	{
		rooms.Post("/", ctl.Create)
		rooms.Post("/import", ctl.Import)
		rooms.Get("/", ctl.List)
		rooms.Get("/:id", ctl.Get)
		rooms.Patch("/:id", ctl.Patch)
		rooms.Delete("/:id", ctl.Delete)

		rooms.Post("/:id/assign", ctl.Assign)
		rooms.Post("/:id/vacate", ctl.Vacate)
		rooms.Post("/:id/move-in", ctl.MoveIn)
	}
}
