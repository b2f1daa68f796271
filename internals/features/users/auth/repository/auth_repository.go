// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "kostku_backend/internals/features/users/auth/model"
)

/* ====================== USER ====================== */

func FindUserByEmail(db *gorm.DB, email string) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := db.Where("LOWER(user_email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := db.Where("user_id = ?", userID).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func IsEmailTaken(db *gorm.DB, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, errors.New("email cannot be empty")
	}
	var n int64
	err := db.Model(&authModel.UserModel{}).
		Where("LOWER(user_email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error
	return n > 0, err
}

func CreateUser(db *gorm.DB, user *authModel.UserModel) error {
	return db.Create(user).Error
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, hash string) error {
	return db.Model(&authModel.UserModel{}).
		Where("user_id = ?", userID).
		Update("user_password", hash).Error
}

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken idempoten: token yang sudah ada tidak dianggap error.
func BlacklistToken(db *gorm.DB, token string, ttl time.Duration) error {
	exists, err := IsTokenBlacklisted(db, token)
	if err != nil || exists {
		return err
	}
	return db.Create(&authModel.TokenBlacklist{
		Token:     token,
		ExpiredAt: time.Now().UTC().Add(ttl),
	}).Error
}

func IsTokenBlacklisted(db *gorm.DB, token string) (bool, error) {
	var n int64
	err := db.Model(&authModel.TokenBlacklist{}).Where("token = ?", token).Count(&n).Error
	return n > 0, err
}

// CleanupExpiredBlacklist menghapus permanen token yang expired sebelum `before`.
func CleanupExpiredBlacklist(db *gorm.DB, before time.Time) (int64, error) {
	res := db.Unscoped().Where("expired_at < ?", before).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
