package controller

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"kostku_backend/internals/features/payments/midtrans/dto"
)

// notificationJSON: body JSON disimpan apa adanya; form di-encode ulang ke JSON.
func notificationJSON(c *fiber.Ctx, p dto.NotificationPayload) []byte {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	if strings.Contains(ct, fiber.MIMEApplicationJSON) && sonic.Valid(c.Body()) {
		return append([]byte(nil), c.Body()...)
	}

	form := map[string]string{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		form[string(k)] = string(v)
	})
	var (
		raw []byte
		err error
	)
	if len(form) > 0 {
		raw, err = sonic.Marshal(form)
	} else {
		raw, err = sonic.Marshal(p)
	}
	if err != nil {
		return []byte("{}")
	}
	return raw
}
