package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kostku_backend/internals/constants"
	"kostku_backend/internals/databases/dbtest"
	helper "kostku_backend/internals/helpers"
)

func newApp(t *testing.T) (*fiber.App, *PropertyController) {
	t.Helper()
	ctl := NewPropertyController(dbtest.Open(t))
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocalUserID, c.Get("X-User"))
		c.Locals(helper.LocalUserRole, c.Get("X-Role"))
		return c.Next()
	})
	app.Post("/properties", ctl.Create)
	app.Get("/properties", ctl.List)
	app.Get("/properties/:id", ctl.Get)
	app.Patch("/properties/:id", ctl.Patch)
	app.Delete("/properties/:id", ctl.Delete)
	return app, ctl
}

func call(t *testing.T, app *fiber.App, method, path, body string, user uuid.UUID, role string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", user.String())
	req.Header.Set("X-Role", role)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestPropertyCRUD(t *testing.T) {
	app, ctl := newApp(t)
	owner := uuid.New()
	other := uuid.New()

	status, body := call(t, app, http.MethodPost, "/properties",
		`{"name":" Kost Melati ","city":"Yogyakarta","cost_per_kwh":"1444.7","water_fee":50000,"trash_fee":25000}`,
		owner, constants.RoleOwner)
	require.Equal(t, fiber.StatusCreated, status, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Kost Melati", data["name"])
	assert.Equal(t, "1444.7", data["cost_per_kwh"])
	id := data["property_id"].(string)

	status, body = call(t, app, http.MethodGet, "/properties?q=melati", "", owner, constants.RoleOwner)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = call(t, app, http.MethodGet, "/properties", "", other, constants.RoleOwner)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 0)

	status, _ = call(t, app, http.MethodGet, "/properties/"+id, "", other, constants.RoleOwner)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = call(t, app, http.MethodPatch, "/properties/"+id, `{"water_fee":60000,"address":null}`, owner, constants.RoleOwner)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "60000", body["data"].(map[string]any)["water_fee"])

	status, body = call(t, app, http.MethodPatch, "/properties/"+id, `{"name":null,"cost_per_kwh":"0.00001"}`, owner, constants.RoleOwner)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "name")
	assert.Equal(t, []any{"max_scale"}, errs["cost_per_kwh"])

	// kamar terisi menahan penghapusan
	pid := uuid.MustParse(id)
	tenantID := uuid.New()
	dbtest.CreateRoom(t, ctl.DB, pid, dbtest.RoomOpts{TenantID: &tenantID})
	status, _ = call(t, app, http.MethodDelete, "/properties/"+id, "", owner, constants.RoleOwner)
	assert.Equal(t, fiber.StatusConflict, status)

	require.NoError(t, ctl.DB.Exec("UPDATE rooms SET room_tenant_id = NULL").Error)
	status, _ = call(t, app, http.MethodDelete, "/properties/"+id, "", owner, constants.RoleOwner)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, http.MethodGet, "/properties/"+id, "", owner, constants.RoleOwner)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestPropertyCreateValidation(t *testing.T) {
	app, _ := newApp(t)

	status, body := call(t, app, http.MethodPost, "/properties", `{"cost_per_kwh":0,"water_fee":-1}`, uuid.New(), constants.RoleOwner)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "cost_per_kwh")
	assert.Contains(t, errs, "water_fee")

	status, body = call(t, app, http.MethodPost, "/properties", `{"name":"X","cost_per_kwh":1500}`, uuid.New(), constants.RoleAdmin)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "owner_id")
}
