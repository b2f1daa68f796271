package helper

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFiber(t *testing.T) {
	app := fiber.New()
	var got Params
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParseFiber(c, "name", "asc", DefaultOpts)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/?page=3&limit=10&sort_by=price&order=DESC", nil))
	require.NoError(t, err)
	assert.Equal(t, Params{Page: 3, PerPage: 10, SortBy: "price", SortOrder: "desc"}, got)
	assert.Equal(t, 20, got.Offset())

	_, err = app.Test(httptest.NewRequest("GET", "/?page=-1&per_page=5000", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, DefaultOpts.MaxPerPage, got.PerPage)
	assert.Equal(t, "name", got.SortBy)
	assert.Equal(t, "asc", got.SortOrder)

	cols := map[string]string{"name": "rooms.room_name", "price": "rooms.room_monthly_price"}
	assert.Equal(t, "rooms.room_name ASC", got.OrderClause(cols, "name"))
	got.SortBy = "bukan_kolom; DROP TABLE"
	assert.Equal(t, "rooms.room_name ASC", got.OrderClause(cols, "name"))

	meta := BuildMeta(41, Params{Page: 2, PerPage: 20})
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestPatchField(t *testing.T) {
	var body struct {
		Name  PatchField[string] `json:"name"`
		Notes PatchField[string] `json:"notes"`
		City  PatchField[string] `json:"city"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A-02","notes":null}`), &body))

	assert.True(t, body.Name.Has())
	assert.Equal(t, "A-02", *body.Name.Value)
	assert.True(t, body.Notes.Set)
	assert.True(t, body.Notes.Null)
	assert.False(t, body.Notes.Has())
	assert.False(t, body.City.Set)
}

func TestGetUserIDFromToken(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name   string
		local  any
		status int
	}{
		{"string", id.String(), fiber.StatusOK},
		{"uuid", id, fiber.StatusOK},
		{"kosong", nil, fiber.StatusUnauthorized},
		{"rusak", "bukan-uuid", fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: JsonFromFiberError})
			app.Get("/", func(c *fiber.Ctx) error {
				if tc.local != nil {
					c.Locals(LocalUserID, tc.local)
				}
				got, err := GetUserIDFromToken(c)
				if err != nil {
					return err
				}
				return c.SendString(got.String())
			})
			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.status == fiber.StatusOK {
				raw, _ := io.ReadAll(resp.Body)
				assert.Equal(t, id.String(), string(raw))
			}
		})
	}
}

func TestValidator(t *testing.T) {
	type req struct {
		Period     string          `json:"period" validate:"required,period"`
		CostPerKwh decimal.Decimal `json:"cost_per_kwh" validate:"gt=0"`
		WaterFee   decimal.Decimal `json:"water_fee" validate:"gte=0"`
	}

	ok := req{Period: "2026-01", CostPerKwh: decimal.RequireFromString("1444.70"), WaterFee: decimal.Zero}
	assert.NoError(t, Validator().Struct(ok))

	bad := req{Period: "2026-13", CostPerKwh: decimal.Zero, WaterFee: decimal.NewFromInt(-1)}
	errs := ValidationErrorsToMap(Validator().Struct(bad))
	assert.Equal(t, []string{"period"}, errs["period"])
	assert.Equal(t, []string{"gt"}, errs["cost_per_kwh"])
	assert.Equal(t, []string{"gte"}, errs["water_fee"])
}

func TestJsonEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/err", func(c *fiber.Ctx) error {
		return JsonValidationError(c, map[string][]string{"period": {"period"}})
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body ErrorResponse
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.ErrorCode)
	assert.Equal(t, []string{"period"}, body.Errors["period"])
}
