package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/exports"
	helper "kostku_backend/internals/helpers"
)

// ActorFromCtx membangun Actor dari locals yang diisi middleware JWT.
func ActorFromCtx(c *fiber.Ctx) (billService.Actor, error) {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return billService.Actor{}, err
	}
	return billService.Actor{UserID: id, Role: helper.GetRoleFromToken(c)}, nil
}

// RespondError memetakan error billing ke envelope JSON.
func RespondError(c *fiber.Ctx, err error) error {
	if ve, ok := billService.AsValidationError(err); ok {
		return helper.JsonValidationError(c, ve.Fields)
	}

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, billService.ErrRoomNotFound),
		errors.Is(err, billService.ErrBillNotFound),
		errors.Is(err, exports.ErrStatementNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, billService.ErrForbidden):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, billService.ErrDuplicatePaidBill),
		errors.Is(err, billService.ErrPaidBillConflict):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("billing error")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}
}
