// file: internals/features/billing/engine/period.go
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// PeriodLayout adalah format label periode tagihan (YYYY-MM).
const PeriodLayout = "2006-01"

var periodRe = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)

// Period = satu bulan kalender.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod membaca label "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	m := periodRe.FindStringSubmatch(s)
	if m == nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	return Period{Year: y, Month: time.Month(mo)}, nil
}

// IsValidPeriod dipakai validator tag `period`.
func IsValidPeriod(s string) bool { return periodRe.MatchString(s) }

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// AddMonths menggeser periode n bulan (boleh negatif), rollover tahun ditangani time.Date.
func (p Period) AddMonths(n int) Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return PeriodOf(t)
}

// DaysInMonth memakai hari terakhir bulan (day 0 bulan berikutnya), jadi tahun kabisat ikut aturan Gregorian.
func (p Period) DaysInMonth() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (p Period) Before(o Period) bool { return p.index() < o.index() }

func (p Period) Equal(o Period) bool { return p.index() == o.index() }

func (p Period) index() int { return p.Year*12 + int(p.Month) - 1 }

// MonthsBetween menghitung jumlah bulan inklusif dari start sampai end.
func MonthsBetween(start, end Period) int {
	return end.index() - start.index() + 1
}

// PeriodEnd menurunkan label periode akhir untuk tagihan multi-bulan.
// monthsCovered <= 1 tidak punya periode akhir.
func PeriodEnd(start Period, monthsCovered int) (Period, bool) {
	if monthsCovered <= 1 {
		return Period{}, false
	}
	return start.AddMonths(monthsCovered - 1), true
}

// Coverage adalah rentang periode yang ditagih.
type Coverage struct {
	Start         Period
	End           *Period
	MonthsCovered int
}

// ResolveCoverage menggabungkan period, periodEnd (opsional) dan monthsCovered (opsional).
//   - tanpa periodEnd: monthsCovered default 1, end dihitung bila > 1
//   - periodEnd tanpa monthsCovered: monthsCovered diturunkan dari rentang
//   - keduanya ada: harus konsisten
func ResolveCoverage(start Period, explicitEnd *Period, monthsCovered *int) (Coverage, error) {
	months := 1
	if monthsCovered != nil {
		months = *monthsCovered
	}
	if months < 1 {
		return Coverage{}, ErrInvalidMonthsCovered
	}

	if explicitEnd == nil {
		cov := Coverage{Start: start, MonthsCovered: months}
		if end, ok := PeriodEnd(start, months); ok {
			cov.End = &end
		}
		return cov, nil
	}

	if explicitEnd.Before(start) {
		return Coverage{}, ErrPeriodEndBeforeStart
	}
	span := MonthsBetween(start, *explicitEnd)
	if monthsCovered != nil && span != months {
		return Coverage{}, fmt.Errorf("%w: period_end spans %d months, months_covered is %d", ErrCoverageMismatch, span, months)
	}
	cov := Coverage{Start: start, MonthsCovered: span}
	if span > 1 {
		end := *explicitEnd
		cov.End = &end
	}
	return cov, nil
}
