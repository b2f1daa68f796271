// internals/middlewares/auth/claims_utils.go
package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authModel "kostku_backend/internals/features/users/auth/model"
	authService "kostku_backend/internals/features/users/auth/service"
	helper "kostku_backend/internals/helpers"
)

var errUserInactive = errors.New("user inactive")

func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		return "", errors.New("unauthorized - No token provided")
	}
	tok := helper.BearerToken(auth)
	if tok == "" {
		return "", errors.New("unauthorized - Invalid token format")
	}
	return tok, nil
}

// ensureUserActive mengembalikan role terkini dari DB; role di token bisa basi.
func ensureUserActive(db *gorm.DB, claims *authService.AccessClaims) (string, error) {
	var user authModel.UserModel
	if err := db.Select("user_id", "user_role", "user_is_active").
		Where("user_id = ?", claims.UserID).
		Take(&user).Error; err != nil {
		return "", err
	}
	if !user.UserIsActive {
		return "", errUserInactive
	}
	return strings.ToLower(user.UserRole), nil
}
