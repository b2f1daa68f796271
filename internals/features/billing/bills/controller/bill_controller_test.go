package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kostku_backend/internals/constants"
	"kostku_backend/internals/databases/dbtest"
	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/reminders"
	helper "kostku_backend/internals/helpers"
)

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	ownerID uuid.UUID
	roomID  uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.Open(t)
	owner := dbtest.CreateUser(t, db, constants.RoleOwner)
	prop := dbtest.CreateProperty(t, db, owner.UserID)
	tenant := dbtest.CreateTenant(t, db, owner.UserID, nil)
	room := dbtest.CreateRoom(t, db, prop.PropertyID, dbtest.RoomOpts{
		Name:     "A-01",
		TenantID: &tenant.TenantID,
		MoveIn:   dbtest.Date(2026, time.January, 15),
	})

	tpl, err := reminders.LoadTemplates("")
	require.NoError(t, err)
	ctl := NewBillController(db, billService.NewService(billService.NewGormStore(db)), tpl)

	app := fiber.New()
	// pengganti middleware JWT
	app.Use(func(c *fiber.Ctx) error {
		if id := c.Get("X-User"); id != "" {
			c.Locals(helper.LocalUserID, id)
			c.Locals(helper.LocalUserRole, c.Get("X-Role"))
		}
		return c.Next()
	})
	app.Post("/bills/generate", ctl.Generate)
	app.Post("/bills/preview", ctl.Preview)
	app.Get("/bills", ctl.List)
	app.Get("/bills/export.xlsx", ctl.ExportXLSX)
	app.Get("/bills/:id", ctl.Get)
	app.Get("/bills/:id/pdf", ctl.PDF)
	app.Get("/bills/:id/whatsapp", ctl.WhatsApp)
	app.Post("/bills/:id/mark-paid", ctl.MarkPaid)

	return &testEnv{app: app, db: db, ownerID: owner.UserID, roomID: room.RoomID}
}

func (e *testEnv) do(t *testing.T, method, path, body string, userID uuid.UUID, role string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("X-User", userID.String())
		req.Header.Set("X-Role", role)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func (e *testEnv) generateBody(period string) string {
	return `{"room_id":"` + e.roomID.String() + `","period":"` + period + `",
		"meter_start":100,"meter_end":150,"cost_per_kwh":1500,"water_fee":50000,"trash_fee":"25000"}`
}

func TestGenerateEndpoint(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodPost, "/bills/generate", e.generateBody("2026-01"), e.ownerID, constants.RoleOwner)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)

	data := body["data"].(map[string]any)
	assert.Equal(t, "1761290.32", data["total_amount"])
	assert.Equal(t, "1645161.29", data["room_price"])
	assert.Equal(t, "75000", data["usage_cost"])
	assert.Equal(t, "2026-01", data["period"])
	assert.Equal(t, false, data["is_paid"])
	pr := data["proration"].(map[string]any)
	assert.Equal(t, true, pr["is_prorated"])
	assert.Equal(t, "0.5484", pr["factor"])

	billID := data["bill_id"].(string)

	resp, body = e.do(t, http.MethodGet, "/bills/"+billID, "", e.ownerID, constants.RoleOwner)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, billID, body["data"].(map[string]any)["bill_id"])

	resp, body = e.do(t, http.MethodGet, "/bills?period=2026-01&is_paid=false", "", e.ownerID, constants.RoleOwner)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 1)
	assert.EqualValues(t, 1, body["pagination"].(map[string]any)["total"])

	resp, _ = e.do(t, http.MethodPost, "/bills/"+billID+"/mark-paid", "", e.ownerID, constants.RoleOwner)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = e.do(t, http.MethodPost, "/bills/generate", e.generateBody("2026-01"), e.ownerID, constants.RoleOwner)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body["error_code"])
}

func TestGenerateEndpointValidation(t *testing.T) {
	e := newTestEnv(t)

	payload := `{"room_id":"bukan-uuid","period":"2026/01","meter_start":200,"meter_end":100,"cost_per_kwh":0,"water_fee":-5}`
	resp, body := e.do(t, http.MethodPost, "/bills/generate", payload, e.ownerID, constants.RoleOwner)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "room_id")
	assert.Contains(t, errs, "period")
	assert.Contains(t, errs, "meter_end")
	assert.Contains(t, errs, "cost_per_kwh")
	assert.Contains(t, errs, "water_fee")

	var n int64
	require.NoError(t, e.db.Table("bills").Count(&n).Error)
	assert.Zero(t, n)

	resp, _ = e.do(t, http.MethodPost, "/bills/generate", `{"room_id":`, e.ownerID, constants.RoleOwner)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGenerateEndpointErrors(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.do(t, http.MethodPost, "/bills/generate", e.generateBody("2026-01"), uuid.Nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/bills/generate", e.generateBody("2026-01"), uuid.New(), constants.RoleOwner)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	missing := strings.Replace(e.generateBody("2026-01"), e.roomID.String(), uuid.NewString(), 1)
	resp, _ = e.do(t, http.MethodPost, "/bills/generate", missing, e.ownerID, constants.RoleOwner)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = e.do(t, http.MethodGet, "/bills/"+uuid.NewString(), "", e.ownerID, constants.RoleOwner)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = e.do(t, http.MethodGet, "/bills/abc", "", e.ownerID, constants.RoleOwner)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPreviewEndpoint(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, http.MethodPost, "/bills/preview", e.generateBody("2026-02"), e.ownerID, constants.RoleOwner)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "3150000", body["data"].(map[string]any)["total_amount"])

	var n int64
	require.NoError(t, e.db.Table("bills").Count(&n).Error)
	assert.Zero(t, n)
}

func TestDocumentsEndpoints(t *testing.T) {
	e := newTestEnv(t)
	svc := billService.NewService(billService.NewGormStore(e.db))
	res, err := svc.Generate(context.Background(), billService.Actor{UserID: e.ownerID, Role: constants.RoleOwner}, billService.GenerateInput{
		RoomID:     e.roomID,
		Period:     "2026-01",
		MeterStart: 100,
		MeterEnd:   150,
		CostPerKwh: dec(1500),
		WaterFee:   dec(50000),
		TrashFee:   dec(25000),
	})
	require.NoError(t, err)
	id := res.Bill.BillID.String()

	resp, _ := e.do(t, http.MethodGet, "/bills/"+id+"/pdf", "", e.ownerID, constants.RoleOwner)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF-"))

	resp, _ = e.do(t, http.MethodGet, "/bills/export.xlsx?period=2026-01", "", e.ownerID, constants.RoleOwner)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "tagihan-2026-01.xlsx")

	resp, _ = e.do(t, http.MethodGet, "/bills/export.xlsx?period=Jan", "", e.ownerID, constants.RoleOwner)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = e.do(t, http.MethodGet, "/bills/export.xlsx?period=2026-01", "", e.ownerID, constants.RoleTenant)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := e.do(t, http.MethodGet, "/bills/"+id+"/whatsapp", "", e.ownerID, constants.RoleOwner)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "6281234567890", data["phone"])
	assert.True(t, strings.HasPrefix(data["link"].(string), "https://wa.me/6281234567890?text=Halo%20Budi%20Santoso"))
	assert.Contains(t, data["message"], "Rp 1.761.290,32")
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
