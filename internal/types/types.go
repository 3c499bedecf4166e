package types

import (
	"benritz/bonds/internal/pricing"
	"fmt"
	"math"
	"time"
)

type BondType string

var (
	UKGilt BondType = "UK Gilt"
)

type Bond struct {
	Type             BondType  `parquet:"type"`
	Source           string    `parquet:"source"`
	ISIN             string    `parquet:"isin"`
	Ticker           string    `parquet:"ticker"`
	Desc             string    `parquet:"desc"`
	FacePrice        float64   `parquet:"face_price"`
	Coupon           float64   `parquet:"coupon"`
	Frequency        int       `parquet:"frequency"`
	SettlementDate   time.Time `parquet:"settlement_date"`
	MaturityDate     time.Time `parquet:"maturity_date"`
	MaturityYears    float64   `parquet:"maturity_years"`
	CleanPrice       float64   `parquet:"clean_price"`
	DirtyPrice       float64   `parquet:"dirty_price"`
	AccruedAmount    float64   `parquet:"accrued_amount"`
	YieldToMaturity  float64   `parquet:"yield_to_maturity"`
	MacaulayDuration float64   `parquet:"macaulay_duration"`
	ModifiedDuration float64   `parquet:"modified_duration"`
}

func NewUKGilt(source string, settlementDate time.Time) *Bond {
	return &Bond{
		Type:           UKGilt,
		FacePrice:      pricing.DefaultFaceAmount,
		Frequency:      pricing.DefaultFrequency,
		Source:         source,
		SettlementDate: settlementDate,
	}
}

// Terms returns the pricing terms of the bond, priced dirty when dirty is set.
func (b *Bond) Terms(dirty bool) pricing.Terms {
	return pricing.Terms{
		Coupon:     b.Coupon,
		Years:      b.MaturityYears,
		Frequency:  b.Frequency,
		FaceAmount: b.FacePrice,
		Dirty:      dirty,
	}
}

var (
	ErrNilBond                      = fmt.Errorf("bond is nil")
	ErrMissingSettlementDate        = fmt.Errorf("missing settlement date")
	ErrDataUnavailable              = fmt.Errorf("data unavailable")
	ErrUnsupportedBond              = fmt.Errorf("unsupported bond")
	ErrInvalidTicker                = fmt.Errorf("invalid ticker")
	ErrInvalidCoupon                = fmt.Errorf("invalid coupon")
	ErrInvalidDesc                  = fmt.Errorf("invalid description")
	ErrInvalidMaturityDate          = fmt.Errorf("invalid maturity date")
	ErrInvalidSettlementDate        = fmt.Errorf("invalid settlement date")
	ErrMaturityDateBeforeSettlement = fmt.Errorf("maturity date is before settlement date")
	ErrInvalidCleanPrice            = fmt.Errorf("invalid clean price")
	ErrInvalidDirtyPrice            = fmt.Errorf("invalid dirty price")
	ErrInvalidYieldToMaturity       = fmt.Errorf("invalid yield to maturity")
	ErrInvalidFacePrice             = fmt.Errorf("invalid face price")
	ErrMissingPriceAndYield         = fmt.Errorf("missing price and yield")
)

// CompleteBond fills in whichever of yield, clean price and dirty price the source did
// not supply, then the accrued amount and both durations.
func CompleteBond(b *Bond, opts ...pricing.SolverOption) error {
	if b == nil {
		return ErrNilBond
	}

	if b.SettlementDate.IsZero() {
		return ErrInvalidSettlementDate
	}

	if b.MaturityDate.IsZero() {
		return ErrInvalidMaturityDate
	}

	if b.Coupon < 0 {
		return ErrInvalidCoupon
	}

	if b.FacePrice <= 0 {
		return ErrInvalidFacePrice
	}

	if b.CleanPrice < 0 {
		return ErrInvalidCleanPrice
	}

	if b.DirtyPrice < 0 {
		return ErrInvalidDirtyPrice
	}

	if math.IsNaN(b.YieldToMaturity) || math.IsInf(b.YieldToMaturity, 0) {
		return ErrInvalidYieldToMaturity
	}

	// requires either a price or yield to maturity to calulate the other. A zero
	// field is read as not supplied, negative yields are quoted as is.
	if b.CleanPrice == 0 && b.DirtyPrice == 0 && b.YieldToMaturity == 0 {
		return ErrMissingPriceAndYield
	}

	if b.MaturityDate.Before(b.SettlementDate) {
		return ErrMaturityDateBeforeSettlement
	}

	if b.Frequency == 0 {
		b.Frequency = pricing.DefaultFrequency
	}

	b.MaturityYears = pricing.YearsToMaturity(b.SettlementDate, b.MaturityDate)

	if b.YieldToMaturity == 0 {
		dirty := b.CleanPrice == 0
		price := b.CleanPrice
		if dirty {
			price = b.DirtyPrice
		}

		terms := b.Terms(dirty)
		opts = append([]pricing.SolverOption{
			pricing.WithInitialGuess(pricing.EstimatedYield(price, terms)),
		}, opts...)

		res, err := pricing.Yield(price, terms, opts...)
		if err != nil {
			return err
		}

		b.YieldToMaturity = res.Yield
	}

	if b.CleanPrice == 0 {
		p, err := pricing.Price(b.YieldToMaturity, b.Terms(false))
		if err != nil {
			return err
		}
		b.CleanPrice = p.Price
	}

	if b.DirtyPrice == 0 {
		p, err := pricing.Price(b.YieldToMaturity, b.Terms(true))
		if err != nil {
			return err
		}
		b.DirtyPrice = b.CleanPrice + p.Accrued
	}

	b.AccruedAmount = b.DirtyPrice - b.CleanPrice

	mac, err := pricing.DurationAtPrice(b.YieldToMaturity, b.CleanPrice, b.Terms(false), pricing.Macaulay)
	if err != nil {
		return err
	}

	mod, err := pricing.DurationAtPrice(b.YieldToMaturity, b.CleanPrice, b.Terms(false), pricing.Modified)
	if err != nil {
		return err
	}

	b.MacaulayDuration = mac.Duration
	b.ModifiedDuration = mod.Duration

	return nil
}
