package users

import (
	_ "embed"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	authModel "kostku_backend/internals/features/users/auth/model"
	authService "kostku_backend/internals/features/users/auth/service"
)

//go:embed data_users.json
var defaultUsers []byte

type UserSeed struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SeedUsers memasukkan akun awal; email yang sudah ada dilewati.
func SeedUsers(db *gorm.DB, raw []byte) (int, error) {
	if len(raw) == 0 {
		raw = defaultUsers
	}
	var inputs []UserSeed
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return 0, err
	}

	created := 0
	for _, data := range inputs {
		email := strings.ToLower(strings.TrimSpace(data.Email))

		var n int64
		if err := db.Model(&authModel.UserModel{}).Where("LOWER(user_email) = ?", email).Count(&n).Error; err != nil {
			return created, err
		}
		if n > 0 {
			log.Info().Str("email", email).Msg("ℹ️ user sudah ada, dilewati")
			continue
		}

		hashed, err := authService.HashPassword(data.Password)
		if err != nil {
			return created, err
		}
		u := authModel.UserModel{
			UserName:     data.UserName,
			UserEmail:    email,
			UserPassword: hashed,
			UserRole:     data.Role,
			UserIsActive: true,
		}
		if err := db.Create(&u).Error; err != nil {
			return created, err
		}
		created++
		log.Info().Str("email", email).Str("role", data.Role).Msg("✅ user dibuat")
	}
	return created, nil
}
