// file: internals/features/billing/engine/proration.go
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Proration menyimpan faktor prorata sebagai pecahan hari (bukan float),
// pembulatan uang baru dilakukan di perkalian terakhir.
type Proration struct {
	DaysOccupied int
	DaysInMonth  int
	Prorated     bool
}

// FullMonth = faktor 1.
var FullMonth = Proration{DaysOccupied: 1, DaysInMonth: 1}

// Prorate menentukan apakah periode adalah bulan pertama (parsial) penghuni.
// Prorata hanya berlaku persis di bulan move-in dan bila move-in bukan tanggal 1.
func Prorate(moveIn *time.Time, period Period) Proration {
	if moveIn == nil || moveIn.IsZero() {
		return FullMonth
	}
	if moveIn.Year() != period.Year || moveIn.Month() != period.Month {
		return FullMonth
	}
	day := moveIn.Day()
	if day == 1 {
		return FullMonth
	}
	days := period.DaysInMonth()
	return Proration{
		DaysOccupied: days - day + 1,
		DaysInMonth:  days,
		Prorated:     true,
	}
}

// Factor untuk tampilan/audit; perhitungan uang memakai Numerator/Denominator.
func (p Proration) Factor() decimal.Decimal {
	if p.DaysInMonth == 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(p.DaysOccupied)).
		DivRound(decimal.NewFromInt(int64(p.DaysInMonth)), FactorPlaces)
}

func (p Proration) Numerator() int64 {
	if p.DaysInMonth == 0 {
		return 1
	}
	return int64(p.DaysOccupied)
}

func (p Proration) Denominator() int64 {
	if p.DaysInMonth == 0 {
		return 1
	}
	return int64(p.DaysInMonth)
}
