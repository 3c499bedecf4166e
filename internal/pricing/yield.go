package pricing

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultInitialGuess is the starting yield (as a percentage) for the solver.
	DefaultInitialGuess = 5.0
	// DefaultTolerance is the step size below which the solver stops.
	DefaultTolerance = 1.48e-8
	// DefaultMaxIterations caps the number of secant and bisection steps together.
	DefaultMaxIterations = 50
)

const (
	// residualTolerance is the largest pricing error, relative to the observed price,
	// accepted when the secant step has converged.
	residualTolerance = 1e-6
	bracketHigh       = 100.0
	maxBracketSteps   = 64
)

type SolverConfig struct {
	InitialGuess  float64
	Tolerance     float64
	MaxIterations int
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		InitialGuess:  DefaultInitialGuess,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

type SolverOption func(*SolverConfig)

func WithInitialGuess(y float64) SolverOption {
	return func(c *SolverConfig) {
		c.InitialGuess = y
	}
}

func WithTolerance(t float64) SolverOption {
	return func(c *SolverConfig) {
		c.Tolerance = t
	}
}

func WithMaxIterations(i int) SolverOption {
	return func(c *SolverConfig) {
		c.MaxIterations = i
	}
}

type YieldResult struct {
	// Yield is the annual yield to maturity as a percentage.
	Yield      float64
	Iterations int
}

// Yield calculates the yield to maturity that reproduces price using the secant method,
// falling back to bisection when a secant step overshoots.
//
// Parameters:
//
//	price:  Observed bond price. Dirty when t.Dirty is set, clean otherwise.
//	t:      Bond terms.
//	opts:   Initial guess, tolerance and iteration cap overrides.
//
// Returns:
//
//	Yield to maturity as a percentage, or a *SolverError if the iteration fails.
func Yield(price float64, t Terms, opts ...SolverOption) (YieldResult, error) {
	cfg := DefaultSolverConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := t.Validate(); err != nil {
		return YieldResult{}, err
	}

	if !finite(price) || price <= 0 {
		return YieldResult{}, fmt.Errorf("%w: %g", ErrInvalidPrice, price)
	}

	if !finite(cfg.InitialGuess) || !(cfg.Tolerance > 0) || cfg.MaxIterations <= 0 {
		return YieldResult{}, fmt.Errorf("%w: solver config %+v", ErrInvalidInput, cfg)
	}

	f := func(y float64) (float64, error) {
		p, err := Price(y, t)
		if err != nil {
			return 0, err
		}
		return p.Price - price, nil
	}

	y0 := cfg.InitialGuess
	y1 := y0*(1+1e-4) + 1e-4
	if y0 < 0 {
		y1 = y0*(1+1e-4) - 1e-4
	}

	d0, err := f(y0)
	if err != nil {
		return YieldResult{}, &SolverError{Reason: err, Last: y0}
	}

	if d0 == 0 {
		return YieldResult{Yield: y0}, nil
	}

	d1, err := f(y1)
	if err != nil {
		return YieldResult{}, &SolverError{Reason: err, Last: y1}
	}

	residual := residualTolerance * price
	best := math.Min(math.Abs(d0), math.Abs(d1))

	for i := 1; i <= cfg.MaxIterations; i++ {
		if d1 == 0 {
			return YieldResult{Yield: y1, Iterations: i - 1}, nil
		}

		if d1 == d0 {
			return YieldResult{}, &SolverError{Reason: ErrYieldToMaturityDerivativeTooSmall, Iterations: i, Last: y1}
		}

		y := y1 - d1*(y1-y0)/(d1-d0)

		d, err := f(y)
		if err != nil {
			return bisectYield(f, t, cfg, i)
		}

		if math.Abs(y-y1) < cfg.Tolerance && math.Abs(d) <= residual {
			return YieldResult{Yield: y, Iterations: i}, nil
		}

		// a step that prices further from the target than the best point so far has
		// overshot the region where the secant converges, as has a step that stalls
		// away from the root
		if math.Abs(d) > best || math.Abs(y-y1) < cfg.Tolerance {
			return bisectYield(f, t, cfg, i)
		}

		best = math.Abs(d)
		y0, d0 = y1, d1
		y1, d1 = y, d
	}

	return YieldResult{}, &SolverError{Reason: ErrYieldToMaturityNoConvergence, Iterations: cfg.MaxIterations, Last: y1}
}

// bisectYield brackets the root between zero and a high yield, widening the bracket
// below zero for premium prices, then bisects within the iterations left over from the
// secant steps. The price is decreasing in yield, so f is positive below the root.
func bisectYield(f func(float64) (float64, error), t Terms, cfg SolverConfig, used int) (YieldResult, error) {
	// yields at or below -100% per period have no price
	floor := -100 * float64(t.Frequency)

	eval := func(y float64) (float64, error) {
		d, err := f(y)
		if err != nil && y < 0 && errors.Is(err, ErrDegenerateInput) {
			// the price overflows as y approaches floor
			return math.Inf(1), nil
		}
		return d, err
	}

	fail := func(reason error, last float64) (YieldResult, error) {
		return YieldResult{}, &SolverError{Reason: reason, Iterations: used, Last: last}
	}

	lo, hi := 0.0, bracketHigh

	dlo, err := eval(lo)
	if err != nil {
		return fail(err, lo)
	}

	if dlo < 0 {
		hi = lo
		for k := 0; dlo < 0; k++ {
			if k == maxBracketSteps {
				return fail(ErrYieldToMaturityNoConvergence, lo)
			}
			lo = (lo + floor) / 2
			if dlo, err = eval(lo); err != nil {
				return fail(err, lo)
			}
		}
	} else {
		dhi, err := eval(hi)
		for k := 0; err == nil && dhi > 0; k++ {
			if k == maxBracketSteps {
				return fail(ErrYieldToMaturityNoConvergence, hi)
			}
			lo, hi = hi, hi*2
			dhi, err = eval(hi)
		}
		if err != nil {
			return fail(err, hi)
		}
	}

	for i := used + 1; i <= cfg.MaxIterations; i++ {
		mid := lo + (hi-lo)/2

		d, err := eval(mid)
		if err != nil {
			used = i
			return fail(err, mid)
		}

		if d == 0 || (hi-lo)/2 < cfg.Tolerance {
			return YieldResult{Yield: mid, Iterations: i}, nil
		}

		if d > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}

	used = cfg.MaxIterations
	return fail(ErrYieldToMaturityNoConvergence, lo+(hi-lo)/2)
}

// EstimatedYield calculates a rough estimate of the yield to maturity used as a starting
// point for Yield. Terms without any time left fall back to the coupon rate.
//
//	C: Annual coupon rate.
//	F: Face value of the bond.
//	P: Market price of the bond.
//	n: Number of years to maturity.
//
// Returns:
//
//	Estimated yield to maturity as a percentage.
func EstimatedYield(price float64, t Terms) float64 {
	C, F, P, n := t.Coupon, t.FaceAmount, price, t.Years
	if n <= 0 || F+P == 0 {
		return C
	}

	CP := C / 100 * F
	y := (CP + (F-P)/n) / ((F + P) / 2)
	return y * 100
}
