package pricing

import (
	"fmt"
	"math"
)

type DurationKind int

const (
	Macaulay DurationKind = iota
	Modified
)

func (k DurationKind) String() string {
	switch k {
	case Macaulay:
		return "macaulay"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("DurationKind(%d)", int(k))
	}
}

type DurationResult struct {
	Duration float64
	Price    float64
	Kind     DurationKind
}

// Duration prices the bond from ytm (honouring t.Dirty) and returns its duration in years.
func Duration(ytm float64, t Terms, kind DurationKind) (DurationResult, error) {
	p, err := Price(ytm, t)
	if err != nil {
		return DurationResult{}, err
	}

	return duration(ytm, p.Price, t, kind)
}

// DurationAtPrice returns the duration weighted against an already known bond price.
func DurationAtPrice(ytm, price float64, t Terms, kind DurationKind) (DurationResult, error) {
	if err := t.Validate(); err != nil {
		return DurationResult{}, err
	}

	if !finite(price) || price <= 0 {
		return DurationResult{}, fmt.Errorf("%w: %g", ErrInvalidPrice, price)
	}

	return duration(ytm, price, t, kind)
}

// duration sums period-weighted discounted cash flows. The principal is weighted by the
// last whole period, matching the truncation in Price.
func duration(ytm, price float64, t Terms, kind DurationKind) (DurationResult, error) {
	if !finite(ytm) {
		return DurationResult{}, fmt.Errorf("%w: yield %g", ErrInvalidInput, ytm)
	}

	n := float64(t.Frequency)
	m := t.periods()
	ypp := ytm / 100 / n
	if 1+ypp <= 0 {
		return DurationResult{}, fmt.Errorf("%w: periodic yield %g at or below -100%%", ErrDegenerateInput, ypp)
	}
	CP := t.Coupon / 100 * t.FaceAmount

	d := 0.0
	for j := 1; j <= m; j++ {
		d += (float64(j) * CP / n) / math.Pow(1+ypp, float64(j))
	}
	d += (float64(m) * t.FaceAmount) / math.Pow(1+ypp, float64(m))

	d = d / price / n

	if kind == Modified {
		d = d / (1 + ypp)
	}

	if !finite(d) {
		return DurationResult{}, fmt.Errorf("%w: duration is not finite at yield %g", ErrDegenerateInput, ytm)
	}

	return DurationResult{Duration: d, Price: price, Kind: kind}, nil
}
