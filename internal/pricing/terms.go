package pricing

import (
	"fmt"
	"math"
)

const (
	DefaultFrequency  = 2
	DefaultFaceAmount = 100.0
)

// Terms describes the bond being priced.
//
//	Coupon:     Annual coupon rate (as a percentage).
//	Years:      Years to maturity.
//	Frequency:  The number of coupon payments per year.
//	FaceAmount: Face value of the bond.
//	Dirty:      Add accrued interest to computed prices.
type Terms struct {
	Coupon     float64
	Years      float64
	Frequency  int
	FaceAmount float64
	Dirty      bool
}

// NewTerms returns semi-annual terms on a face of 100, priced clean.
func NewTerms(coupon, years float64) Terms {
	return Terms{
		Coupon:     coupon,
		Years:      years,
		Frequency:  DefaultFrequency,
		FaceAmount: DefaultFaceAmount,
	}
}

func (t Terms) Validate() error {
	if !finite(t.Coupon) || !finite(t.Years) || !finite(t.FaceAmount) {
		return fmt.Errorf("%w: terms must be finite", ErrInvalidInput)
	}

	if t.Frequency <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFrequency, t.Frequency)
	}

	if t.FaceAmount <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidFacePrice, t.FaceAmount)
	}

	if t.Coupon < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidCoupon, t.Coupon)
	}

	if t.Years < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidMaturity, t.Years)
	}

	return nil
}

// periods is the number of whole coupon periods left; any fractional period is dropped.
func (t Terms) periods() int {
	return int(math.Floor(t.Years * float64(t.Frequency)))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
