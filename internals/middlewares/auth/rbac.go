package auth

import (
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"kostku_backend/internals/constants"
	helper "kostku_backend/internals/helpers"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (r.obj == p.obj || p.obj == "*") && (r.act == p.act || p.act == "*")
`

// Aksi RBAC.
const (
	ActRead  = "read"
	ActWrite = "write"
	ActPay   = "pay"
)

// NewEnforcer: admin bebas; owner mengelola data kos-nya; tenant hanya baca tagihan & bayar.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policies := [][]string{
		{constants.RoleAdmin, "*", "*"},

		{constants.RoleOwner, "properties", "*"},
		{constants.RoleOwner, "rooms", "*"},
		{constants.RoleOwner, "tenants", "*"},
		{constants.RoleOwner, "bills", "*"},

		{constants.RoleTenant, "bills", ActRead},
		{constants.RoleTenant, "bills", ActPay},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func methodAction(c *fiber.Ctx) string {
	if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
		return ActRead
	}
	return ActWrite
}

func enforce(c *fiber.Ctx, e *casbin.Enforcer, resource, act string) error {
	role := helper.GetRoleFromToken(c)
	if role == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Role not found")
	}
	ok, err := e.Enforce(role, resource, act)
	if err != nil {
		log.Error().Err(err).Str("role", role).Str("resource", resource).Msg("casbin enforce gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusForbidden, "Akses ditolak untuk "+resource)
	}
	return c.Next()
}

// Authorize menolak request bila role di locals tidak punya izin (resource, action).
// Action kosong = diturunkan dari method (GET/HEAD -> read, selain itu write).
func Authorize(e *casbin.Enforcer, resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		act := action
		if act == "" {
			act = methodAction(c)
		}
		return enforce(c, e, resource, act)
	}
}

// AuthorizeByPath dipasang di level group: resource = segmen pertama setelah prefix,
// action = "pay" untuk path .../pay, selain itu dari method.
func AuthorizeByPath(e *casbin.Enforcer, prefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rest := strings.Trim(strings.TrimPrefix(c.Path(), prefix), "/")
		resource, _, _ := strings.Cut(rest, "/")
		if resource == "" {
			return c.Next()
		}
		act := methodAction(c)
		if c.Method() == fiber.MethodPost && strings.HasSuffix(rest, "/"+ActPay) {
			act = ActPay
		}
		return enforce(c, e, resource, act)
	}
}
