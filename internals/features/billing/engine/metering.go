package engine

import "github.com/shopspring/decimal"

// MeterReading = angka meteran listrik awal/akhir (kWh).
type MeterReading struct {
	Start int64
	End   int64
}

func (r MeterReading) Consumption() (int64, error) {
	if r.Start < 0 || r.End < 0 {
		return 0, ErrNegativeMeter
	}
	if r.End < r.Start {
		return 0, ErrMeterReversed
	}
	return r.End - r.Start, nil
}

// Usage adalah biaya pemakaian listrik. Tidak pernah diprorata maupun dikali jumlah bulan.
type Usage struct {
	ConsumptionKwh int64
	Cost           decimal.Decimal
}

// MeterUsage menghitung consumption * costPerKwh tanpa pembulatan.
func MeterUsage(r MeterReading, costPerKwh decimal.Decimal) (Usage, error) {
	if !costPerKwh.IsPositive() {
		return Usage{}, ErrNonPositiveRate
	}
	kwh, err := r.Consumption()
	if err != nil {
		return Usage{}, err
	}
	return Usage{
		ConsumptionKwh: kwh,
		Cost:           decimal.NewFromInt(kwh).Mul(costPerKwh),
	}, nil
}
