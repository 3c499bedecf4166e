package collect

import (
	"benritz/bonds/internal/pricing"
	"benritz/bonds/internal/types"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

var (
	SourceDividendData = "DividendData"
)

const DividendDataURL = "https://www.dividenddata.co.uk/uk-gilts-prices-yields.py"

type DividendDataCollector struct {
	URL    string
	Solver []pricing.SolverOption

	log *logrus.Logger
}

func NewDividendDataCollector(log *logrus.Logger, solver ...pricing.SolverOption) *DividendDataCollector {
	return &DividendDataCollector{
		URL:    DividendDataURL,
		Solver: solver,
		log:    log,
	}
}

func (c *DividendDataCollector) Collect(ctx context.Context, date time.Time) (*CollectedBonds, error) {
	x := colly.NewCollector()
	x.WithTransport(&contextTransport{ctx: ctx, base: http.DefaultTransport})

	// check page date matches requested date
	// the page is updated daily, but the data may not be available yet
	const datePrefix = "Last updated: "
	var dataTs time.Time

	x.OnHTML("label", func(e *colly.HTMLElement) {
		if s, ok := strings.CutPrefix(strings.TrimSpace(e.Text), datePrefix); ok {
			dataTs, _ = time.Parse("02 Jan 2006", s)
		}
	})

	collected := NewCollectedBonds(SourceDividendData, date)

	x.OnHTML("#mainbody tr", func(e *colly.HTMLElement) {
		cb := c.readBond(date, e)
		if cb == nil {
			return
		}

		if cb.Err != nil {
			c.log.WithError(cb.Err).WithField("ticker", cb.Bond.Ticker).Warn("failed to complete gilt")
		}

		collected.AddBond(cb)
	})

	c.log.WithField("url", c.URL).Info("fetching gilt prices")

	if err := x.Visit(c.URL); err != nil {
		return nil, err
	}

	if dataTs.IsZero() {
		return nil, types.ErrMissingSettlementDate
	}

	if !dataTs.Equal(date.Truncate(24 * time.Hour)) {
		return nil, types.ErrDataUnavailable
	}

	return collected, nil
}

// contextTransport binds colly's requests to the context passed to Collect.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

func (c *DividendDataCollector) Source() string {
	return SourceDividendData
}

const (
	ddColTicker           = 0
	ddColDesc             = 1
	ddColCoupon           = 2
	ddColMaturityDate     = 3
	ddColMaturityDuration = 4
	ddColPrice            = 5
	ddColMaturityYield    = 6
)

func parsePercent(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
}

// readBond returns nil for rows without data cells, such as the table header.
func (c *DividendDataCollector) readBond(date time.Time, e *colly.HTMLElement) *CollectedBond {
	b := types.NewUKGilt(SourceDividendData, date)

	cb := &CollectedBond{Bond: b}
	cols := 0

	e.ForEach("td", func(col int, el *colly.HTMLElement) {
		cols++
		text := strings.TrimSpace(el.Text)

		switch col {
		case ddColTicker:
			b.Ticker = text
			if b.Ticker == "" {
				cb.SetError(types.ErrInvalidTicker)
			}
		case ddColDesc:
			b.Desc = text
			if b.Desc == "" {
				cb.SetError(types.ErrInvalidDesc)
			}
		case ddColCoupon:
			if coupon, err := parsePercent(text); err == nil {
				b.Coupon = coupon
			} else {
				cb.SetError(types.ErrInvalidCoupon)
			}
		case ddColMaturityDate:
			if ts, err := time.Parse("02-Jan-2006", text); err == nil {
				b.MaturityDate = ts
			} else {
				cb.SetError(types.ErrInvalidMaturityDate)
			}
		case ddColMaturityDuration:
			// ignore, calculated from maturity date
		case ddColPrice:
			s := strings.TrimPrefix(strings.TrimPrefix(text, "Â"), "£")
			if price, err := strconv.ParseFloat(s, 64); err == nil {
				b.CleanPrice = price
			} else {
				cb.SetError(types.ErrInvalidCleanPrice)
			}
		case ddColMaturityYield:
			if ytm, err := parsePercent(text); err == nil {
				b.YieldToMaturity = ytm
			} else {
				cb.SetError(types.ErrInvalidYieldToMaturity)
			}
		}
	})

	if cols == 0 {
		return nil
	}

	if cb.Err == nil {
		cb.Err = types.CompleteBond(b, c.Solver...)
	}

	return cb
}
