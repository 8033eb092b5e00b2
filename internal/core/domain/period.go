package domain

// Period selects the reporting window of a dashboard query and the
// granularity of its chart series: daily for month-scale periods, monthly
// for year-scale ones.
type Period string

const (
	PeriodThisMonth Period = "THIS_MONTH"
	PeriodMonth     Period = "MONTH"
	PeriodYTD       Period = "YTD"
	PeriodYear      Period = "YEAR"
)

// Monthly reports whether the period's chart series is aggregated per month
// rather than per day.
func (p Period) Monthly() bool {
	return p == PeriodYTD || p == PeriodYear
}

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodThisMonth, PeriodMonth, PeriodYTD, PeriodYear:
		return true
	}
	return false
}
