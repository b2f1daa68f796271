package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Input adalah satu permintaan perhitungan tagihan yang sudah tervalidasi.
type Input struct {
	Room           RoomRates
	MoveInDate     *time.Time
	Fees           FeeSchedule
	Coverage       Coverage
	Meter          MeterReading
	AdditionalCost decimal.Decimal
	Mode           ProrationMode
}

// Calculation = hasil lengkap resolver -> prorata -> metering -> assembler.
type Calculation struct {
	Rates     ResolvedRates
	Coverage  Coverage
	Proration Proration
	Usage     Usage
	Breakdown Breakdown
}

// Calculate murni (tanpa I/O). Duplicate guard dan persistensi ada di layer service.
func Calculate(in Input) (Calculation, error) {
	if in.Fees.WaterFee.IsNegative() || in.Fees.TrashFee.IsNegative() || in.AdditionalCost.IsNegative() {
		return Calculation{}, ErrNegativeAmount
	}
	if in.Coverage.MonthsCovered < 1 {
		return Calculation{}, ErrInvalidMonthsCovered
	}

	rates := ResolveRates(in.Room, in.Fees)
	pr := Prorate(in.MoveInDate, in.Coverage.Start)

	usage, err := MeterUsage(in.Meter, rates.CostPerKwh)
	if err != nil {
		return Calculation{}, err
	}

	b := Assemble(AssembleInput{
		Rates:          rates,
		MonthsCovered:  in.Coverage.MonthsCovered,
		Proration:      pr,
		Usage:          usage,
		AdditionalCost: in.AdditionalCost,
		Mode:           in.Mode,
	})

	return Calculation{
		Rates:     rates,
		Coverage:  in.Coverage,
		Proration: pr,
		Usage:     usage,
		Breakdown: b,
	}, nil
}
