package collect

import (
	"benritz/bonds/internal/pricing"
	"benritz/bonds/internal/types"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pbnjay/grate"
	_ "github.com/pbnjay/grate/xls"
	"github.com/sirupsen/logrus"
)

var SourceDMO = "DMO"

const DMOExportURL = "https://www.dmo.gov.uk/umbraco/surface/DataExport/GetDataExport"

// DMO D10B report columns
const (
	dmoColISIN         = 0
	dmoColDesc         = 1
	dmoColCleanPrice   = 2
	dmoColDirtyPrice   = 3
	dmoColMaturityDate = 7
)

type DMOCollector struct {
	BaseURL string
	Client  *http.Client
	Solver  []pricing.SolverOption

	log *logrus.Logger
}

func NewDMOCollector(log *logrus.Logger, solver ...pricing.SolverOption) *DMOCollector {
	return &DMOCollector{
		BaseURL: DMOExportURL,
		Client:  &http.Client{Timeout: 60 * time.Second},
		Solver:  solver,
		log:     log,
	}
}

func (c *DMOCollector) Collect(ctx context.Context, date time.Time) (*CollectedBonds, error) {
	// The DMO website has a number of reports that can be used to collect gilt data.
	// https://www.dmo.gov.uk/data/pdfdatareport?reportCode=D1A
	// https://www.dmo.gov.uk/data/pdfdatareport?reportCode=D9D
	// https://www.dmo.gov.uk/data/pdfdatareport?reportCode=D10B

	params := fmt.Sprintf("&Trade Date=%02d-%02d-%04d", date.Day(), date.Month(), date.Year())
	u := c.BaseURL + "?reportCode=D10B&exportFormatValue=xls&parameters=" + url.QueryEscape(params)

	c.log.WithField("url", u).Info("fetching DMO report")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get data: http %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "gilt-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, resp.Body)
	tmp.Close()
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{"bytes": size, "path": tmp.Name()}).Debug("downloaded DMO report")

	return c.readWorkbook(tmp.Name(), date)
}

func (c *DMOCollector) readWorkbook(path string, date time.Time) (*CollectedBonds, error) {
	wb, err := grate.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets, err := wb.List()
	if err != nil {
		return nil, err
	}

	collected := NewCollectedBonds(SourceDMO, date)
	parsed := 0

	for _, sheetName := range sheets {
		sheet, err := wb.Get(sheetName)
		if err != nil {
			return nil, err
		}

		for sheet.Next() {
			cb, err := c.parseRow(date, sheet.Strings())
			if err != nil {
				continue
			}

			if cb.Err != nil {
				c.log.WithError(cb.Err).WithField("isin", cb.Bond.ISIN).Warn("failed to complete gilt")
			}

			collected.AddBond(cb)
			parsed++
		}
	}

	if parsed == 0 {
		return nil, types.ErrDataUnavailable
	}

	c.log.WithFields(logrus.Fields{
		"bonds":    len(collected.Bonds),
		"failures": len(collected.Failures),
	}).Info("parsed DMO report")

	return collected, nil
}

func (c *DMOCollector) Source() string {
	return SourceDMO
}

// parseRow returns ErrInvalidRow for rows that are not gilts at all. Gilt rows that fail
// to parse or complete are returned with the error set on the CollectedBond.
func (c *DMOCollector) parseRow(date time.Time, row []string) (*CollectedBond, error) {
	if len(row) <= dmoColMaturityDate {
		return nil, ErrInvalidRow
	}

	isin := strings.TrimSpace(row[dmoColISIN])

	if !strings.HasPrefix(isin, "GB") {
		return nil, ErrInvalidRow
	}

	b := types.NewUKGilt(SourceDMO, date)
	b.ISIN = isin
	b.Desc = strings.TrimSpace(row[dmoColDesc])

	// unsupported bonds
	if strings.Contains(strings.ToLower(b.Desc), "index-linked") {
		return nil, types.ErrUnsupportedBond
	}

	cb := &CollectedBond{Bond: b}

	if coupon, err := parseCouponPercentage(b.Desc); err == nil {
		b.Coupon = coupon
	} else {
		cb.SetError(types.ErrInvalidCoupon)
	}

	if cleanPrice, err := strconv.ParseFloat(strings.TrimSpace(row[dmoColCleanPrice]), 64); err == nil {
		b.CleanPrice = cleanPrice
	} else {
		cb.SetError(types.ErrInvalidCleanPrice)
	}

	if dirtyPrice, err := strconv.ParseFloat(strings.TrimSpace(row[dmoColDirtyPrice]), 64); err == nil {
		b.DirtyPrice = dirtyPrice
	} else {
		cb.SetError(types.ErrInvalidDirtyPrice)
	}

	if ts, err := time.Parse("02-Jan-2006", strings.TrimSpace(row[dmoColMaturityDate])); err == nil {
		b.MaturityDate = ts
	} else {
		cb.SetError(types.ErrInvalidMaturityDate)
	}

	if cb.Err == nil {
		cb.Err = types.CompleteBond(b, c.Solver...)
	}

	return cb, nil
}

var couponRe = regexp.MustCompile(`^(\d+(?:\s+\d+\/\d+)?|\d+\/\d+|\d+(?:\.\d+)?|\d[¼½¾])(%)`)

// parseCouponPercentage parses a coupon percentage string it the following formats
// 0 5/8% Treasury Gilt 2025,
// 2% Treasury Gilt 2025,
// 3½% Treasury Gilt 2025
//
//	s: bond description
//
// Returns:
//
//	Coupon percentage
func parseCouponPercentage(desc string) (float64, error) {
	match := couponRe.FindStringSubmatch(desc)

	if len(match) < 3 {
		return 0, types.ErrInvalidCoupon
	}

	m := match[1]

	// convert ½, ¼, ¾ suffixes
	trimLast := func(s string) string {
		r := []rune(s)
		return string(r[0 : len(r)-1])
	}
	if strings.HasSuffix(m, "½") {
		m = trimLast(m) + " 1/2"
	} else if strings.HasSuffix(m, "¼") {
		m = trimLast(m) + " 1/4"
	} else if strings.HasSuffix(m, "¾") {
		m = trimLast(m) + " 3/4"
	}

	if !strings.Contains(m, "/") {
		val, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, types.ErrInvalidCoupon
		}
		return val, nil
	}

	whole := 0
	frac := m

	if parts := strings.Fields(m); len(parts) == 2 {
		w, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, types.ErrInvalidCoupon
		}
		whole = w
		frac = parts[1]
	}

	num, den, err := parseFraction(frac)
	if err != nil {
		return 0, err
	}

	return float64(whole) + float64(num)/float64(den), nil
}

func parseFraction(s string) (int, int, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, types.ErrInvalidCoupon
	}

	num, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, types.ErrInvalidCoupon
	}

	den, err := strconv.Atoi(parts[1])
	if err != nil || den == 0 {
		return 0, 0, types.ErrInvalidCoupon
	}

	return num, den, nil
}
