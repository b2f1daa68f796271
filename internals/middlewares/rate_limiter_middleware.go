package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "kostku_backend/internals/helpers"
)

func newLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(100, time.Minute, "❌ Terlalu banyak permintaan. Silakan coba lagi nanti.")
}

// Rate limiter untuk login route (lebih ketat)
func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, "❌ Terlalu banyak percobaan login. Coba beberapa saat lagi.")
}

// Rate limiter untuk register route
func RegisterRateLimiter() fiber.Handler {
	return newLimiter(3, 5*time.Minute, "❌ Terlalu banyak percobaan pendaftaran. Tunggu beberapa menit ya.")
}

// Webhook pembayaran: longgar, tapi tetap dibatasi per IP
func WebhookRateLimiter() fiber.Handler {
	return newLimiter(60, time.Minute, "❌ Terlalu banyak notifikasi.")
}
