package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kostku_backend/internals/constants"
)

// Scope = pemanggil yang sudah login; dipakai untuk membatasi query per pemilik.
type Scope struct {
	UserID uuid.UUID
	Role   string
}

func ScopeFromCtx(c *fiber.Ctx) (Scope, error) {
	id, err := GetUserIDFromToken(c)
	if err != nil {
		return Scope{}, err
	}
	return Scope{UserID: id, Role: GetRoleFromToken(c)}, nil
}

func (s Scope) IsAdmin() bool  { return s.Role == constants.RoleAdmin }
func (s Scope) IsTenant() bool { return s.Role == constants.RoleTenant }

// OwnerFilter: nil untuk admin (semua data), id sendiri untuk owner.
func (s Scope) OwnerFilter() *uuid.UUID {
	if s.IsAdmin() {
		return nil
	}
	id := s.UserID
	return &id
}

// CanManage: admin atau pemilik data.
func (s Scope) CanManage(ownerID uuid.UUID) bool {
	return s.IsAdmin() || (!s.IsTenant() && s.UserID == ownerID)
}
