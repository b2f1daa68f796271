// file: internals/features/billing/bills/dto/bill_dto.go
package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billModel "kostku_backend/internals/features/billing/bills/model"
	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/engine"
)

/* ===================== Request ===================== */

// GenerateBillRequest: body POST /bills/generate dan /bills/preview.
type GenerateBillRequest struct {
	RoomID        string  `json:"room_id" validate:"required,uuid"`
	Period        string  `json:"period" validate:"required,period"`
	PeriodEnd     *string `json:"period_end" validate:"omitempty,period"`
	MonthsCovered *int    `json:"months_covered" validate:"omitempty,min=1,max=24"`

	MeterStart *int64 `json:"meter_start" validate:"required,gte=0"`
	MeterEnd   *int64 `json:"meter_end" validate:"required,gte=0"`

	CostPerKwh     decimal.Decimal  `json:"cost_per_kwh" validate:"gt=0"`
	WaterFee       decimal.Decimal  `json:"water_fee" validate:"gte=0"`
	TrashFee       decimal.Decimal  `json:"trash_fee" validate:"gte=0"`
	AdditionalCost *decimal.Decimal `json:"additional_cost" validate:"omitempty,gte=0"`
}

func (r *GenerateBillRequest) Normalize() {
	r.Period = strings.TrimSpace(r.Period)
	if r.PeriodEnd != nil {
		s := strings.TrimSpace(*r.PeriodEnd)
		if s == "" {
			r.PeriodEnd = nil
		} else {
			r.PeriodEnd = &s
		}
	}
}

func (r GenerateBillRequest) ToInput() billService.GenerateInput {
	in := billService.GenerateInput{
		Period:        r.Period,
		PeriodEnd:     r.PeriodEnd,
		MonthsCovered: r.MonthsCovered,
		CostPerKwh:    r.CostPerKwh,
		WaterFee:      r.WaterFee,
		TrashFee:      r.TrashFee,
	}
	in.RoomID, _ = uuid.Parse(strings.TrimSpace(r.RoomID))
	if r.MeterStart != nil {
		in.MeterStart = *r.MeterStart
	}
	if r.MeterEnd != nil {
		in.MeterEnd = *r.MeterEnd
	}
	if r.AdditionalCost != nil {
		in.AdditionalCost = *r.AdditionalCost
	}
	return in
}

// ListBillQuery: filter GET /bills.
type ListBillQuery struct {
	RoomID   string `query:"room_id"`
	TenantID string `query:"tenant_id"`
	Period   string `query:"period"`
	IsPaid   string `query:"is_paid"`
}

func (q ListBillQuery) ToFilter() (billService.BillFilter, map[string][]string) {
	var f billService.BillFilter
	errs := map[string][]string{}

	if s := strings.TrimSpace(q.RoomID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			errs["room_id"] = append(errs["room_id"], "uuid")
		} else {
			f.RoomID = &id
		}
	}
	if s := strings.TrimSpace(q.TenantID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			errs["tenant_id"] = append(errs["tenant_id"], "uuid")
		} else {
			f.TenantID = &id
		}
	}
	if s := strings.TrimSpace(q.Period); s != "" {
		if !engine.IsValidPeriod(s) {
			errs["period"] = append(errs["period"], "period")
		} else {
			f.Period = s
		}
	}
	if s := strings.TrimSpace(q.IsPaid); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			errs["is_paid"] = append(errs["is_paid"], "boolean")
		} else {
			f.IsPaid = &b
		}
	}
	return f, errs
}

/* ===================== Response ===================== */

type BillResponse struct {
	BillID        uuid.UUID `json:"bill_id"`
	RoomID        uuid.UUID `json:"room_id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	Period        string    `json:"period"`
	PeriodEnd     *string   `json:"period_end"`
	MonthsCovered int       `json:"months_covered"`

	MeterStart     int64           `json:"meter_start"`
	MeterEnd       int64           `json:"meter_end"`
	ConsumptionKwh int64           `json:"consumption_kwh"`
	CostPerKwh     decimal.Decimal `json:"cost_per_kwh"`

	RoomPrice      decimal.Decimal `json:"room_price"`
	UsageCost      decimal.Decimal `json:"usage_cost"`
	WaterFee       decimal.Decimal `json:"water_fee"`
	TrashFee       decimal.Decimal `json:"trash_fee"`
	AdditionalCost decimal.Decimal `json:"additional_cost"`
	TotalAmount    decimal.Decimal `json:"total_amount"`

	Proration ProrationResponse `json:"proration"`

	IsPaid    bool       `json:"is_paid"`
	PaidAt    *time.Time `json:"paid_at"`
	CreatedAt time.Time  `json:"created_at"`
}

type ProrationResponse struct {
	IsProrated   bool            `json:"is_prorated"`
	DaysOccupied int             `json:"days_occupied"`
	DaysInMonth  int             `json:"days_in_month"`
	Factor       decimal.Decimal `json:"factor"`
}

func FromModel(b *billModel.BillModel) BillResponse {
	pr := engine.Proration{
		DaysOccupied: b.BillDaysOccupied,
		DaysInMonth:  b.BillDaysInMonth,
		Prorated:     b.BillIsProrated,
	}
	return BillResponse{
		BillID:         b.BillID,
		RoomID:         b.BillRoomID,
		TenantID:       b.BillTenantID,
		Period:         b.BillPeriod,
		PeriodEnd:      b.BillPeriodEnd,
		MonthsCovered:  b.BillMonthsCovered,
		MeterStart:     b.BillMeterStart,
		MeterEnd:       b.BillMeterEnd,
		ConsumptionKwh: b.BillConsumptionKwh,
		CostPerKwh:     b.BillCostPerKwh,
		RoomPrice:      b.BillRoomPrice,
		UsageCost:      b.BillUsageCost,
		WaterFee:       b.BillWaterFee,
		TrashFee:       b.BillTrashFee,
		AdditionalCost: b.BillAdditionalCost,
		TotalAmount:    b.BillTotalAmount,
		Proration: ProrationResponse{
			IsProrated:   pr.Prorated,
			DaysOccupied: pr.DaysOccupied,
			DaysInMonth:  pr.DaysInMonth,
			Factor:       pr.Factor(),
		},
		IsPaid:    b.BillIsPaid,
		PaidAt:    b.BillPaidAt,
		CreatedAt: b.BillCreatedAt,
	}
}

func FromModels(rows []billModel.BillModel) []BillResponse {
	out := make([]BillResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
