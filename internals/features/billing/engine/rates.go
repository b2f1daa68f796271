package engine

import "github.com/shopspring/decimal"

// RoomRates = data kamar yang dibutuhkan resolver (dari lookup kamar).
type RoomRates struct {
	MonthlyPrice decimal.Decimal
	TrashService bool
}

// FeeSchedule adalah tarif per-unit yang dikirim eksplisit oleh pemanggil
// (request generate, atau setting properti untuk tagihan pertama).
type FeeSchedule struct {
	CostPerKwh decimal.Decimal
	WaterFee   decimal.Decimal
	TrashFee   decimal.Decimal
}

type ResolvedRates struct {
	RoomPrice           decimal.Decimal
	TrashServiceEnabled bool
	CostPerKwh          decimal.Decimal
	WaterFee            decimal.Decimal
	TrashFee            decimal.Decimal
}

// ResolveRates menggabungkan harga kamar dan tarif. Read-only, tanpa lookup global.
func ResolveRates(room RoomRates, fees FeeSchedule) ResolvedRates {
	return ResolvedRates{
		RoomPrice:           room.MonthlyPrice,
		TrashServiceEnabled: room.TrashService,
		CostPerKwh:          fees.CostPerKwh,
		WaterFee:            fees.WaterFee,
		TrashFee:            fees.TrashFee,
	}
}
