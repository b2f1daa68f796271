package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kostku_backend/internals/constants"
	"kostku_backend/internals/features/billing/engine"
)

// Actor = pemanggil yang sudah terautentikasi.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool  { return a.Role == constants.RoleAdmin }
func (a Actor) IsTenant() bool { return a.Role == constants.RoleTenant }

// SystemActor dipakai proses internal (webhook pembayaran, CLI).
var SystemActor = Actor{Role: constants.RoleAdmin}

// MaxRateScale = jumlah desimal maksimum tarif per kWh dan biaya tambahan (kolom numeric(18,4)).
const MaxRateScale = 4

// MaxMonthsCovered = rentang terpanjang satu tagihan, lewat months_covered maupun period_end.
const MaxMonthsCovered = 24

// GenerateInput = permintaan generate tagihan yang sudah di-decode.
type GenerateInput struct {
	RoomID         uuid.UUID
	Period         string
	PeriodEnd      *string
	MonthsCovered  *int
	MeterStart     int64
	MeterEnd       int64
	CostPerKwh     decimal.Decimal
	WaterFee       decimal.Decimal
	TrashFee       decimal.Decimal
	AdditionalCost decimal.Decimal
}

type validatedInput struct {
	coverage engine.Coverage
	meter    engine.MeterReading
	fees     engine.FeeSchedule
	extra    decimal.Decimal
}

// validate menjalankan semua cek semantik sebelum I/O apa pun.
func (in GenerateInput) validate() (validatedInput, error) {
	ve := &ValidationError{}

	if in.RoomID == uuid.Nil {
		ve.Add("room_id", "required")
	}

	start, err := engine.ParsePeriod(in.Period)
	if err != nil {
		ve.Add("period", "period")
	}

	var end *engine.Period
	if in.PeriodEnd != nil && *in.PeriodEnd != "" {
		p, err := engine.ParsePeriod(*in.PeriodEnd)
		if err != nil {
			ve.Add("period_end", "period")
		} else {
			end = &p
		}
	}
	if in.MonthsCovered != nil {
		switch {
		case *in.MonthsCovered < 1:
			ve.Add("months_covered", "min")
		case *in.MonthsCovered > MaxMonthsCovered:
			ve.Add("months_covered", "max")
		}
	}

	if in.MeterStart < 0 {
		ve.Add("meter_start", "gte")
	}
	if in.MeterEnd < 0 {
		ve.Add("meter_end", "gte")
	}
	if in.MeterEnd < in.MeterStart {
		ve.Add("meter_end", "gtefield")
	}

	if !in.CostPerKwh.IsPositive() {
		ve.Add("cost_per_kwh", "gt")
	} else if !in.CostPerKwh.Equal(in.CostPerKwh.Truncate(MaxRateScale)) {
		ve.Add("cost_per_kwh", "max_scale")
	}
	if in.WaterFee.IsNegative() {
		ve.Add("water_fee", "gte")
	}
	if in.TrashFee.IsNegative() {
		ve.Add("trash_fee", "gte")
	}
	if in.AdditionalCost.IsNegative() {
		ve.Add("additional_cost", "gte")
	} else if !in.AdditionalCost.Equal(in.AdditionalCost.Truncate(MaxRateScale)) {
		ve.Add("additional_cost", "max_scale")
	}

	if !ve.Empty() {
		return validatedInput{}, ve
	}

	cov, err := engine.ResolveCoverage(start, end, in.MonthsCovered)
	switch {
	case errors.Is(err, engine.ErrCoverageMismatch):
		ve.Add("period_end", "months_covered_mismatch")
	case errors.Is(err, engine.ErrPeriodEndBeforeStart):
		ve.Add("period_end", "gtefield")
	case errors.Is(err, engine.ErrInvalidMonthsCovered):
		ve.Add("months_covered", "min")
	case err != nil:
		ve.Add("period", "period")
	case cov.MonthsCovered > MaxMonthsCovered:
		ve.Add("period_end", "max")
	}
	if !ve.Empty() {
		return validatedInput{}, ve
	}

	return validatedInput{
		coverage: cov,
		meter:    engine.MeterReading{Start: in.MeterStart, End: in.MeterEnd},
		fees: engine.FeeSchedule{
			CostPerKwh: in.CostPerKwh,
			WaterFee:   in.WaterFee,
			TrashFee:   in.TrashFee,
		},
		extra: in.AdditionalCost,
	}, nil
}

// DateOnly memotong jam/zona supaya tanggal move-in tidak bergeser.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Validate hanya menjalankan cek semantik (tanpa I/O); dipakai controller
// untuk menggabungkan hasilnya dengan error tag validator.
func (in GenerateInput) Validate() error {
	_, err := in.validate()
	return err
}
