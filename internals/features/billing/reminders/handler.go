package reminders

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	helper "kostku_backend/internals/helpers"
)

// RunHandler: POST /api/a/reminders/run, menjalankan job sekali di luar jadwal.
func RunHandler(j *Job) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := j.RunOnce(c.UserContext())
		if err != nil {
			log.Error().Err(err).Msg("[REMINDER] run manual gagal")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menjalankan pengingat")
		}
		return helper.JsonOK(c, "Pengingat dijalankan", fiber.Map{
			"bills":    stats.Bills,
			"sent":     stats.Sent,
			"failed":   stats.Failed,
			"fallback": stats.Fallback,
		})
	}
}
