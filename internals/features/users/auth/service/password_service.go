package service

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"kostku_backend/internals/features/users/auth/dto"
	authRepo "kostku_backend/internals/features/users/auth/repository"
	helper "kostku_backend/internals/helpers"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ========================== CHANGE PASSWORD ==========================
func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	var input dto.ChangePasswordRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := helper.Validator().Struct(input); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	if err := CheckPasswordHash(user.UserPassword, input.CurrentPassword); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Password lama salah")
	}

	hash, err := HashPassword(input.NewPassword)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal hash password")
	}
	if err := authRepo.UpdateUserPassword(db, user.UserID, hash); err != nil {
		log.Error().Err(err).Str("user_id", user.UserID.String()).Msg("update password gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui password")
	}
	return helper.JsonUpdated(c, "Password berhasil diperbarui", nil)
}
