package service

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kostku_backend/internals/configs"
	"kostku_backend/internals/databases/dbtest"
	authModel "kostku_backend/internals/features/users/auth/model"
	authRepo "kostku_backend/internals/features/users/auth/repository"
	helper "kostku_backend/internals/helpers"
)

const testSecret = "rahasia-test"

func newAuthApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	configs.JWTSecret = testSecret
	configs.JWTAccessTTL = time.Hour
	db := dbtest.Open(t)

	app := fiber.New()
	app.Post("/register", func(c *fiber.Ctx) error { return Register(db, c) })
	app.Post("/login", func(c *fiber.Ctx) error { return Login(db, c) })

	// middleware sederhana: cukup parse token untuk endpoint yang butuh login
	withUser := func(c *fiber.Ctx) error {
		raw := helper.BearerToken(c.Get("Authorization"))
		claims, err := ParseAccessToken(testSecret, raw, time.Now().UTC())
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}
		c.Locals(helper.LocalUserID, claims.UserID.String())
		c.Locals(helper.LocalUserRole, claims.Role)
		helper.SetRawAccessToken(c, raw)
		return c.Next()
	}
	app.Get("/me", withUser, func(c *fiber.Ctx) error { return Me(db, c) })
	app.Post("/logout", withUser, func(c *fiber.Ctx) error { return Logout(db, c) })
	app.Post("/change-password", withUser, func(c *fiber.Ctx) error { return ChangePassword(db, c) })
	return app, db
}

func do(t *testing.T, app *fiber.App, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestRegisterLoginMeLogout(t *testing.T) {
	app, db := newAuthApp(t)

	status, body := do(t, app, "POST", "/register",
		`{"user_name":"Bu Sri","email":" Sri@Kost.ID ","password":"rahasia123","role":"owner"}`, "")
	require.Equal(t, fiber.StatusCreated, status, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "sri@kost.id", data["email"])
	assert.Equal(t, "owner", data["role"])

	var stored authModel.UserModel
	require.NoError(t, db.Where("user_email = ?", "sri@kost.id").Take(&stored).Error)
	assert.NotEqual(t, "rahasia123", stored.UserPassword)
	assert.NoError(t, CheckPasswordHash(stored.UserPassword, "rahasia123"))

	status, _ = do(t, app, "POST", "/register",
		`{"user_name":"Sri Lagi","email":"SRI@kost.id","password":"rahasia123"}`, "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = do(t, app, "POST", "/login", `{"email":"sri@kost.id","password":"salah-total"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = do(t, app, "POST", "/login", `{"email":"sri@kost.id","password":"rahasia123"}`, "")
	require.Equal(t, fiber.StatusOK, status, body)
	login := body["data"].(map[string]any)
	token := login["access_token"].(string)
	assert.Equal(t, "Bearer", login["token_type"])

	claims, err := ParseAccessToken(testSecret, token, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, stored.UserID, claims.UserID)
	assert.Equal(t, "owner", claims.Role)

	status, body = do(t, app, "GET", "/me", "", token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, stored.UserID.String(), body["data"].(map[string]any)["user_id"])

	status, _ = do(t, app, "POST", "/logout", "", token)
	require.Equal(t, fiber.StatusOK, status)
	listed, err := authRepo.IsTokenBlacklisted(db, token)
	require.NoError(t, err)
	assert.True(t, listed)

	// logout kedua kali tetap sukses
	status, _ = do(t, app, "POST", "/logout", "", token)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := newAuthApp(t)

	status, body := do(t, app, "POST", "/register",
		`{"user_name":"ab","email":"bukan-email","password":"pendek","role":"admin"}`, "")
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := body["errors"].(map[string]any)
	for _, f := range []string{"user_name", "email", "password", "role"} {
		assert.Contains(t, errs, f)
	}

	status, _ = do(t, app, "POST", "/register", `{bukan json`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLoginInactiveUser(t *testing.T) {
	app, db := newAuthApp(t)
	hash, err := HashPassword("rahasia123")
	require.NoError(t, err)
	u := &authModel.UserModel{UserName: "nonaktif", UserEmail: "off@kost.id", UserPassword: hash, UserRole: "tenant", UserIsActive: true}
	require.NoError(t, db.Create(u).Error)
	require.NoError(t, db.Model(u).Update("user_is_active", false).Error)

	status, _ := do(t, app, "POST", "/login", `{"email":"off@kost.id","password":"rahasia123"}`, "")
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestChangePassword(t *testing.T) {
	app, db := newAuthApp(t)
	status, _ := do(t, app, "POST", "/register", `{"user_name":"Andi","email":"andi@kost.id","password":"lama12345"}`, "")
	require.Equal(t, fiber.StatusCreated, status)
	_, body := do(t, app, "POST", "/login", `{"email":"andi@kost.id","password":"lama12345"}`, "")
	token := body["data"].(map[string]any)["access_token"].(string)

	status, _ = do(t, app, "POST", "/change-password", `{"current_password":"keliru999","new_password":"baru12345"}`, token)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "POST", "/change-password", `{"current_password":"lama12345","new_password":"lama12345"}`, token)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = do(t, app, "POST", "/change-password", `{"current_password":"lama12345","new_password":"baru12345"}`, token)
	require.Equal(t, fiber.StatusOK, status)

	u, err := authRepo.FindUserByEmail(db, "andi@kost.id")
	require.NoError(t, err)
	assert.NoError(t, CheckPasswordHash(u.UserPassword, "baru12345"))
}

func TestParseAccessToken(t *testing.T) {
	now := time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC)
	u := &authModel.UserModel{UserID: uuid.New(), UserRole: "Owner", UserName: "x"}

	tok, exp, err := IssueAccessToken(testSecret, u, now, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := ParseAccessToken(testSecret, tok, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, u.UserID, claims.UserID)
	assert.Equal(t, "owner", claims.Role)

	// toleransi 30 detik setelah exp
	_, err = ParseAccessToken(testSecret, tok, now.Add(time.Hour+20*time.Second))
	assert.NoError(t, err)
	_, err = ParseAccessToken(testSecret, tok, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = ParseAccessToken("secret-lain", tok, now)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = ParseAccessToken(testSecret, "bukan.token.jwt", now)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	assert.Equal(t, 61*time.Minute, blacklistTTL(testSecret, tok, now))
	assert.Equal(t, 2*time.Minute, blacklistTTL(testSecret, "rusak", now))
}
