package pricing

import (
	"fmt"
	"math"
)

type PriceResult struct {
	// Price is Clean plus Accrued.
	Price   float64
	Clean   float64
	Accrued float64
}

// Price calculates the bond price by discounting whole coupon periods.
//
// Parameters:
//
//	ytm:  Annual yield to maturity (as a percentage).
//	t:    Bond terms. Only whole coupon periods of t.Years are discounted.
//
// Returns:
//
//	Bond price, with accrued interest added when t.Dirty is set.
func Price(ytm float64, t Terms) (PriceResult, error) {
	if err := t.Validate(); err != nil {
		return PriceResult{}, err
	}

	if !finite(ytm) {
		return PriceResult{}, fmt.Errorf("%w: yield %g", ErrInvalidInput, ytm)
	}

	n := float64(t.Frequency)
	m := t.periods()

	CP := t.FaceAmount * (t.Coupon / 100 / n)
	ypp := ytm / 100 / n
	if 1+ypp <= 0 {
		return PriceResult{}, fmt.Errorf("%w: periodic yield %g at or below -100%%", ErrDegenerateInput, ypp)
	}

	price := 0.0
	for j := 1; j <= m; j++ {
		price += CP / math.Pow(1+ypp, float64(j))
	}

	price += t.FaceAmount / math.Pow(1+ypp, float64(m))

	if !finite(price) {
		return PriceResult{}, fmt.Errorf("%w: price is not finite at yield %g", ErrDegenerateInput, ytm)
	}

	res := PriceResult{Price: price, Clean: price}

	if t.Dirty {
		accrued := AccruedInterest(t)
		if !finite(accrued) {
			return PriceResult{}, fmt.Errorf("%w: accrued interest is not finite", ErrDegenerateInput)
		}
		res.Accrued = accrued
		res.Price += accrued
	}

	return res, nil
}

// AccruedInterest is the dirty pricing adjustment. The (1-f) terms cancel, so for any
// fractional year f in [0, 1) this is Coupon/Frequency^2 of the face amount.
func AccruedInterest(t Terms) float64 {
	n := float64(t.Frequency)
	f := t.Years - math.Floor(t.Years)

	rate := (t.Coupon / 100 / n) * ((1 - f) / ((1 - f) * n))

	return rate * t.FaceAmount
}
