// file: internals/features/users/auth/route/auth_route.go
package route

import (
	controller "kostku_backend/internals/features/users/auth/controller"
	rateLimiter "kostku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthRoutes: /api/auth. `protected` = middleware JWT untuk endpoint yang butuh login.
func AuthRoutes(app fiber.Router, db *gorm.DB, protected fiber.Handler) {
	authController := controller.NewAuthController(db)

	baseAuth := app.Group("/api/auth")

	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)

	baseAuth.Post("/logout", protected, authController.Logout)
	baseAuth.Post("/change-password", protected, authController.ChangePassword)
	baseAuth.Get("/me", protected, authController.Me)
}
