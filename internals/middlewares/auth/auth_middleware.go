// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"kostku_backend/internals/configs"
	authRepo "kostku_backend/internals/features/users/auth/repository"
	authService "kostku_backend/internals/features/users/auth/service"
	helper "kostku_backend/internals/helpers"
)

var nowUTC = func() time.Time { return time.Now().UTC() }

// AuthMiddleware: Bearer token -> blacklist -> signature & exp -> user aktif -> locals.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}

		// blacklist dicek sekali per request
		if c.Locals("token_checked") == nil {
			listed, err := authRepo.IsTokenBlacklisted(db, tokenString)
			if err != nil {
				log.Error().Err(err).Msg("cek blacklist gagal")
				return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
			}
			if listed {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
			}
			c.Locals("token_checked", true)
		}

		secretKey := strings.TrimSpace(configs.JWTSecret)
		if secretKey == "" {
			log.Error().Msg("JWT_SECRET kosong")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims, err := authService.ParseAccessToken(secretKey, tokenString, nowUTC())
		if err != nil {
			if errors.Is(err, authService.ErrTokenExpired) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token expired")
			}
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		role, err := ensureUserActive(db, claims)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			if errors.Is(err, errUserInactive) {
				return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
			}
			log.Error().Err(err).Msg("cek user aktif gagal")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
		}

		c.Locals(helper.LocalUserID, claims.UserID.String())
		c.Locals(helper.LocalUserRole, role)
		helper.SetRawAccessToken(c, tokenString)
		return c.Next()
	}
}
