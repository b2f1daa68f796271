package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	billController "kostku_backend/internals/features/billing/bills/controller"
	"kostku_backend/internals/features/payments/midtrans/dto"
	"kostku_backend/internals/features/payments/midtrans/service"
	helper "kostku_backend/internals/helpers"
)

type PaymentController struct {
	Service *service.PaymentService
}

func NewPaymentController(svc *service.PaymentService) *PaymentController {
	return &PaymentController{Service: svc}
}

func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrBillAlreadyPaid):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPaymentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidSignature):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrGatewayUnavailable):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
	default:
		return billController.RespondError(c, err)
	}
}

// POST /bills/:id/pay
func (pc *PaymentController) Pay(c *fiber.Ctx) error {
	actor, err := billController.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	billID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tagihan tidak valid")
	}

	p, err := pc.Service.CreatePayment(c.UserContext(), actor, billID)
	if err != nil {
		return respondError(c, err)
	}
	return helper.JsonCreated(c, "Transaksi pembayaran dibuat", dto.FromModel(p))
}

// GET /bills/:id/payments
func (pc *PaymentController) List(c *fiber.Ctx) error {
	actor, err := billController.ActorFromCtx(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	billID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tagihan tidak valid")
	}

	rows, err := pc.Service.ListPayments(c.UserContext(), actor, billID)
	if err != nil {
		return respondError(c, err)
	}
	return helper.JsonOK(c, "OK", dto.FromModels(rows))
}

// POST /api/public/payments/midtrans/notification
// JSON atau form-urlencoded (tombol Test di dashboard Midtrans mengirim form).
func (pc *PaymentController) Notification(c *fiber.Ctx) error {
	var p dto.NotificationPayload
	if err := c.BodyParser(&p); err != nil || p.OrderID == "" {
		log.Warn().Str("content_type", string(c.Request().Header.ContentType())).Msg("notifikasi midtrans kosong/tidak valid")
		return helper.JsonError(c, fiber.StatusBadRequest, "payload notifikasi tidak valid")
	}

	raw := notificationJSON(c, p)
	pay, err := pc.Service.HandleNotification(c.UserContext(), p, raw)
	switch {
	case err == nil:
		return helper.JsonOK(c, "processed", fiber.Map{"order_id": pay.PaymentOrderID, "status": pay.PaymentStatus})
	case errors.Is(err, service.ErrInvalidSignature), errors.Is(err, service.ErrPaymentNotFound):
		log.Warn().Err(err).Str("order_id", p.OrderID).Msg("notifikasi midtrans ditolak")
		return respondError(c, err)
	case pay != nil:
		// pembayaran tercatat tapi tagihan gagal ditandai lunas; 500 supaya Midtrans mengulang
		log.Error().Err(err).Str("order_id", p.OrderID).Msg("tandai lunas dari midtrans gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "processed with warning")
	default:
		log.Error().Err(err).Str("order_id", p.OrderID).Msg("proses notifikasi midtrans gagal")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}
}
