package constants

import "fmt"

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleTenant = "tenant"
)

// Template pesan error role
const (
	ErrOnlyOwnersCanAccess  = "❌ Hanya owner atau admin yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess  = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyTenantsCanAccess = "❌ Hanya penghuni yang boleh mengakses fitur %s."
)

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorTenant(feature string) string {
	return fmt.Sprintf(ErrOnlyTenantsCanAccess, feature)
}

var (
	AllRoles = []string{RoleOwner, RoleAdmin, RoleTenant}

	// Role yang boleh didaftarkan sendiri lewat /register
	RegistrableRoles = []string{RoleOwner, RoleTenant}

	OwnerAndAbove = []string{RoleOwner, RoleAdmin}

	AdminOnly = []string{RoleAdmin}

	TenantOnly = []string{RoleTenant}
)

func IsValidRole(r string) bool {
	for _, x := range AllRoles {
		if x == r {
			return true
		}
	}
	return false
}
