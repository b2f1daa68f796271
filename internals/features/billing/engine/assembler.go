// file: internals/features/billing/engine/assembler.go
package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MoneyPlaces = presisi komponen tagihan hasil prorata (sen).
	MoneyPlaces int32 = 2
	// FactorPlaces hanya untuk menampilkan faktor prorata.
	FactorPlaces int32 = 4
)

// ProrationMode menentukan cara faktor prorata diterapkan pada tagihan multi-bulan.
type ProrationMode string

const (
	// ProrateFirstMonth: hanya bulan pertama yang diprorata, bulan berikutnya harga penuh.
	ProrateFirstMonth ProrationMode = "first_month"
	// ProrateWholeSpan: faktor dikalikan ke seluruh rentang (perilaku lama).
	ProrateWholeSpan ProrationMode = "whole_span"
)

func ParseProrationMode(s string) ProrationMode {
	switch ProrationMode(strings.ToLower(strings.TrimSpace(s))) {
	case ProrateWholeSpan:
		return ProrateWholeSpan
	default:
		return ProrateFirstMonth
	}
}

type AssembleInput struct {
	Rates          ResolvedRates
	MonthsCovered  int
	Proration      Proration
	Usage          Usage
	AdditionalCost decimal.Decimal
	Mode           ProrationMode
}

// Breakdown = rincian tagihan. Tiap komponen disimpan terpisah supaya total bisa diaudit ulang.
type Breakdown struct {
	RoomPrice      decimal.Decimal
	UsageCost      decimal.Decimal
	WaterFee       decimal.Decimal
	TrashFee       decimal.Decimal
	AdditionalCost decimal.Decimal
	TotalAmount    decimal.Decimal
}

// Sum menjumlahkan ulang komponen; harus sama dengan TotalAmount.
func (b Breakdown) Sum() decimal.Decimal {
	return b.RoomPrice.Add(b.UsageCost).Add(b.WaterFee).Add(b.TrashFee).Add(b.AdditionalCost)
}

// Assemble menyusun rincian. Prorata dan jumlah bulan hanya mengenai biaya berulang
// (kamar, air, sampah); pemakaian listrik dan biaya tambahan selalu flat.
func Assemble(in AssembleInput) Breakdown {
	months := in.MonthsCovered
	if months < 1 {
		months = 1
	}

	recurring := func(amount decimal.Decimal) decimal.Decimal {
		return applyRecurring(amount, months, in.Proration, in.Mode)
	}

	b := Breakdown{
		RoomPrice:      recurring(in.Rates.RoomPrice),
		UsageCost:      in.Usage.Cost,
		WaterFee:       recurring(in.Rates.WaterFee),
		TrashFee:       decimal.Zero,
		AdditionalCost: in.AdditionalCost,
	}
	if in.Rates.TrashServiceEnabled {
		b.TrashFee = recurring(in.Rates.TrashFee)
	}
	b.TotalAmount = b.Sum()
	return b
}

// applyRecurring mengalikan pecahan hari dulu baru membagi, sekali pembulatan per komponen.
func applyRecurring(amount decimal.Decimal, months int, p Proration, mode ProrationMode) decimal.Decimal {
	num := decimal.NewFromInt(p.Numerator())
	den := decimal.NewFromInt(p.Denominator())
	m := decimal.NewFromInt(int64(months))

	var scaled decimal.Decimal
	switch mode {
	case ProrateWholeSpan:
		// amount * months * num / den
		scaled = amount.Mul(m).Mul(num)
	default:
		// amount * (num/den + (months-1)) = amount * (num + (months-1)*den) / den
		scaled = amount.Mul(num.Add(m.Sub(decimal.NewFromInt(1)).Mul(den)))
	}
	return scaled.DivRound(den, MoneyPlaces)
}
