package pricing

import (
	"math"
	"time"
)

// DaysPerYear is the fixed day-count year used to turn dates into year fractions.
const DaysPerYear = 360.0

// Now is the clock used by YearsToMaturityFromNow.
var Now = time.Now

// YearsToMaturity converts a maturity date into a year fraction on a 360 day year.
// Elapsed time is floored to whole days. A maturity before asOf gives a negative result.
func YearsToMaturity(asOf, maturity time.Time) float64 {
	days := math.Floor(maturity.Sub(asOf).Hours() / 24)
	return days / DaysPerYear
}

func YearsToMaturityFromNow(maturity time.Time) float64 {
	return YearsToMaturity(Now(), maturity)
}
