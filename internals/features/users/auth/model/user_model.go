package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey;column:user_id"`
	UserName     string    `json:"user_name" gorm:"size:100;not null;column:user_name"`
	UserEmail    string    `json:"user_email" gorm:"size:255;not null;uniqueIndex:uq_users_email;column:user_email"`
	UserPassword string    `json:"-" gorm:"type:text;not null;column:user_password"`
	UserRole     string    `json:"user_role" gorm:"size:20;not null;default:tenant;column:user_role"`
	UserIsActive bool      `json:"user_is_active" gorm:"not null;default:true;column:user_is_active"`

	UserCreatedAt time.Time      `json:"user_created_at" gorm:"autoCreateTime;column:user_created_at"`
	UserUpdatedAt time.Time      `json:"user_updated_at" gorm:"autoUpdateTime;column:user_updated_at"`
	UserDeletedAt gorm.DeletedAt `json:"-" gorm:"index;column:user_deleted_at"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	u.UserEmail = strings.ToLower(strings.TrimSpace(u.UserEmail))
	return nil
}
