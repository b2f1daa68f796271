// file: internals/features/tenants/dto/tenant_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "kostku_backend/internals/features/tenants/model"
	helper "kostku_backend/internals/helpers"
)

type CreateTenantRequest struct {
	OwnerID        *string `json:"owner_id" validate:"omitempty,uuid"` // hanya admin
	UserID         *string `json:"user_id" validate:"omitempty,uuid"`
	FullName       string  `json:"full_name" validate:"required,max=150"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Email          *string `json:"email" validate:"omitempty,email"`
	TelegramChatID *int64  `json:"telegram_chat_id"`
	IdentityNumber *string `json:"identity_number" validate:"omitempty,max=50"`
	Notes          *string `json:"notes"`
}

func (r *CreateTenantRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Phone = trimPtr(r.Phone)
	r.Email = lowerPtr(r.Email)
	r.IdentityNumber = trimPtr(r.IdentityNumber)
	r.Notes = trimPtr(r.Notes)
	r.UserID = trimPtr(r.UserID)
}

func (r CreateTenantRequest) ToModel(ownerID uuid.UUID) *model.TenantModel {
	t := &model.TenantModel{
		TenantOwnerID:        ownerID,
		TenantFullName:       r.FullName,
		TenantPhone:          r.Phone,
		TenantEmail:          r.Email,
		TenantTelegramChatID: r.TelegramChatID,
		TenantIdentityNumber: r.IdentityNumber,
		TenantNotes:          r.Notes,
	}
	if r.UserID != nil {
		if id, err := uuid.Parse(*r.UserID); err == nil {
			t.TenantUserID = &id
		}
	}
	return t
}

type PatchTenantRequest struct {
	UserID         helper.PatchField[uuid.UUID] `json:"user_id"`
	FullName       helper.PatchField[string]    `json:"full_name"`
	Phone          helper.PatchField[string]    `json:"phone"`
	Email          helper.PatchField[string]    `json:"email"`
	TelegramChatID helper.PatchField[int64]     `json:"telegram_chat_id"`
	IdentityNumber helper.PatchField[string]    `json:"identity_number"`
	Notes          helper.PatchField[string]    `json:"notes"`
}

func (r PatchTenantRequest) ApplyTo(t *model.TenantModel) map[string][]string {
	errs := map[string][]string{}

	if r.FullName.Set {
		name := ""
		if r.FullName.Has() {
			name = strings.TrimSpace(*r.FullName.Value)
		}
		if name == "" {
			errs["full_name"] = append(errs["full_name"], "required")
		} else {
			t.TenantFullName = name
		}
	}
	if r.UserID.Set {
		t.TenantUserID = r.UserID.Value
	}
	if r.Phone.Set {
		t.TenantPhone = trimPtr(r.Phone.Value)
	}
	if r.Email.Set {
		email := lowerPtr(r.Email.Value)
		if email != nil {
			if err := helper.Validator().Var(*email, "email"); err != nil {
				errs["email"] = append(errs["email"], "email")
			}
		}
		t.TenantEmail = email
	}
	if r.TelegramChatID.Set {
		t.TenantTelegramChatID = r.TelegramChatID.Value
	}
	if r.IdentityNumber.Set {
		t.TenantIdentityNumber = trimPtr(r.IdentityNumber.Value)
	}
	if r.Notes.Set {
		t.TenantNotes = trimPtr(r.Notes.Value)
	}
	return errs
}

type TenantResponse struct {
	TenantID       uuid.UUID  `json:"tenant_id"`
	OwnerID        uuid.UUID  `json:"owner_id"`
	UserID         *uuid.UUID `json:"user_id"`
	FullName       string     `json:"full_name"`
	Phone          *string    `json:"phone"`
	Email          *string    `json:"email"`
	TelegramChatID *int64     `json:"telegram_chat_id"`
	IdentityNumber *string    `json:"identity_number"`
	Notes          *string    `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func FromModel(t *model.TenantModel) TenantResponse {
	return TenantResponse{
		TenantID:       t.TenantID,
		OwnerID:        t.TenantOwnerID,
		UserID:         t.TenantUserID,
		FullName:       t.TenantFullName,
		Phone:          t.TenantPhone,
		Email:          t.TenantEmail,
		TelegramChatID: t.TenantTelegramChatID,
		IdentityNumber: t.TenantIdentityNumber,
		Notes:          t.TenantNotes,
		CreatedAt:      t.TenantCreatedAt,
		UpdatedAt:      t.TenantUpdatedAt,
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func lowerPtr(s *string) *string {
	v := trimPtr(s)
	if v == nil {
		return nil
	}
	l := strings.ToLower(*v)
	return &l
}
