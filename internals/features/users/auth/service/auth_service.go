package service

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	database "kostku_backend/internals/databases"
	"kostku_backend/internals/features/users/auth/dto"
	authRepo "kostku_backend/internals/features/users/auth/repository"
	helper "kostku_backend/internals/helpers"
)

/* ==========================
   REGISTER
========================== */

func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input dto.RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	input.Normalize()
	if err := helper.Validator().Struct(input); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	taken, err := authRepo.IsEmailTaken(db, input.Email)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa email")
	}
	if taken {
		return helper.JsonError(c, fiber.StatusConflict, "Email sudah terdaftar")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal hash password")
	}

	user := input.ToModel(hash)
	if err := authRepo.CreateUser(db, user); err != nil {
		if database.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email sudah terdaftar")
		}
		log.Error().Err(err).Str("email", input.Email).Msg("register gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mendaftarkan user")
	}

	log.Info().Str("user_id", user.UserID.String()).Str("role", user.UserRole).Msg("user terdaftar")
	return helper.JsonCreated(c, "Registrasi berhasil", dto.FromUser(user))
}

/* ==========================
   LOGIN (email + password)
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input dto.LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := helper.Validator().Struct(input); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	user, err := authRepo.FindUserByEmail(db, input.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Msg("login: lookup user gagal")
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}
	if err := CheckPasswordHash(user.UserPassword, input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}

	secret, err := getJWTSecret()
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	token, exp, err := IssueAccessToken(secret, user, nowUTC(), accessTTL())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}

	return helper.JsonOK(c, "Login berhasil", dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		User:        dto.FromUser(user),
	})
}

/* ==========================
   ME
========================== */

func Me(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	return helper.JsonOK(c, "OK", dto.FromUser(user))
}

/* ==========================
   LOGOUT
========================== */

// Logout mem-blacklist access token sampai kadaluarsa. Idempoten.
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		log.Info().Msg("logout tanpa access token")
		return helper.JsonOK(c, "Logout berhasil", nil)
	}

	secret, err := getJWTSecret()
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	if err := authRepo.BlacklistToken(db, raw, blacklistTTL(secret, raw, nowUTC())); err != nil {
		log.Warn().Err(err).Msg("gagal blacklist token")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal logout")
	}
	return helper.JsonOK(c, "Logout berhasil", nil)
}
