package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocRawToken: raw JWT yang sudah diverifikasi middleware.
const LocRawToken = "raw_token"

// GetRawAccessToken mengembalikan access token dari Locals (diisi middleware)
// atau header "Authorization: Bearer <token>".
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return BearerToken(c.Get("Authorization"))
}

// BearerToken: toleran spasi ganda, prefix case-insensitive, kutip di kiri/kanan.
func BearerToken(header string) string {
	fields := strings.Fields(strings.TrimSpace(header))
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return strings.Trim(strings.TrimSpace(fields[1]), "\"'")
}

func SetRawAccessToken(c *fiber.Ctx, raw string) {
	if strings.TrimSpace(raw) != "" {
		c.Locals(LocRawToken, strings.TrimSpace(raw))
	}
}
