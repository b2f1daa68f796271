package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantModel struct {
	TenantID       uuid.UUID  `json:"tenant_id" gorm:"type:uuid;primaryKey;column:tenant_id"`
	TenantOwnerID  uuid.UUID  `json:"tenant_owner_id" gorm:"type:uuid;not null;index;column:tenant_owner_id"`
	TenantUserID   *uuid.UUID `json:"tenant_user_id" gorm:"type:uuid;index;column:tenant_user_id"`
	TenantFullName string     `json:"tenant_full_name" gorm:"size:150;not null;column:tenant_full_name"`

	// Kontak untuk pengingat tagihan
	TenantPhone          *string `json:"tenant_phone" gorm:"size:30;column:tenant_phone"`
	TenantEmail          *string `json:"tenant_email" gorm:"size:255;column:tenant_email"`
	TenantTelegramChatID *int64  `json:"tenant_telegram_chat_id" gorm:"column:tenant_telegram_chat_id"`

	TenantIdentityNumber *string `json:"tenant_identity_number" gorm:"size:50;column:tenant_identity_number"`
	TenantNotes          *string `json:"tenant_notes" gorm:"type:text;column:tenant_notes"`

	TenantCreatedAt time.Time      `json:"tenant_created_at" gorm:"autoCreateTime;column:tenant_created_at"`
	TenantUpdatedAt time.Time      `json:"tenant_updated_at" gorm:"autoUpdateTime;column:tenant_updated_at"`
	TenantDeletedAt gorm.DeletedAt `json:"-" gorm:"index;column:tenant_deleted_at"`
}

func (TenantModel) TableName() string { return "tenants" }

func (t *TenantModel) BeforeCreate(tx *gorm.DB) error {
	if t.TenantID == uuid.Nil {
		t.TenantID = uuid.New()
	}
	return nil
}
