package engine

import "errors"

var (
	ErrInvalidPeriod        = errors.New("billing: invalid period, expected YYYY-MM")
	ErrInvalidMonthsCovered = errors.New("billing: months covered must be >= 1")
	ErrPeriodEndBeforeStart = errors.New("billing: period end is before period start")
	ErrCoverageMismatch     = errors.New("billing: period end does not match months covered")
	ErrNegativeMeter        = errors.New("billing: meter reading must not be negative")
	ErrMeterReversed        = errors.New("billing: meter end is lower than meter start")
	ErrNonPositiveRate      = errors.New("billing: cost per kWh must be positive")
	ErrNegativeAmount       = errors.New("billing: fee must not be negative")
)
