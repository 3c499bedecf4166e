package collect

import (
	"benritz/bonds/internal/types"
	"context"
	"fmt"
	"time"
)

var (
	ErrInvalidRow = fmt.Errorf("invalid row")
)

type CollectedBond struct {
	Bond *types.Bond
	Err  error
}

// SetError keeps the first error recorded against the bond.
func (c *CollectedBond) SetError(err error) {
	if c.Err == nil {
		c.Err = err
	}
}

type CollectedBonds struct {
	Bonds          []*types.Bond
	Failures       []*CollectedBond
	Source         string
	SettlementDate time.Time
}

func (c *CollectedBonds) AddBond(cb *CollectedBond) {
	if cb.Err == nil {
		c.Bonds = append(c.Bonds, cb.Bond)
	} else {
		c.Failures = append(c.Failures, cb)
	}
}

func NewCollectedBonds(source string, date time.Time) *CollectedBonds {
	return &CollectedBonds{
		Source:         source,
		SettlementDate: date,
		Bonds:          []*types.Bond{},
		Failures:       []*CollectedBond{},
	}
}

type Collector interface {
	Collect(ctx context.Context, date time.Time) (*CollectedBonds, error)
	Source() string
}
