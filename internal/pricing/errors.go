package pricing

import "fmt"

var (
	ErrInvalidInput                      = fmt.Errorf("invalid input")
	ErrInvalidFrequency                  = fmt.Errorf("invalid coupon frequency")
	ErrInvalidFacePrice                  = fmt.Errorf("invalid face price")
	ErrInvalidCoupon                     = fmt.Errorf("invalid coupon")
	ErrInvalidMaturity                   = fmt.Errorf("invalid years to maturity")
	ErrInvalidPrice                      = fmt.Errorf("invalid bond price")
	ErrDegenerateInput                   = fmt.Errorf("degenerate input")
	ErrYieldToMaturityNoConvergence      = fmt.Errorf("secant method failed to converge within max iterations")
	ErrYieldToMaturityDerivativeTooSmall = fmt.Errorf("secant method failed (slope is zero)")
)

// SolverError is returned by Yield when the root finder gives up.
type SolverError struct {
	Reason     error
	Iterations int
	Last       float64
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("yield to maturity: %v after %d iterations (last estimate %.8f)", e.Reason, e.Iterations, e.Last)
}

func (e *SolverError) Unwrap() error {
	return e.Reason
}
