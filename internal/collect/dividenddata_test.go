package collect

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"benritz/bonds/internal/logging"
	"benritz/bonds/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const giltsPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body>
<label>Last updated: {{updated}}</label>
<table id="mainbody">
<tr><th>Ticker</th><th>Name</th><th>Coupon</th><th>Maturity</th><th>Years</th><th>Price</th><th>Yield</th></tr>
<tr><td>TN28</td><td>Treasury 4.125% 2028</td><td>4.125%</td><td>22-Jul-2028</td><td>3.3</td><td>£99.87</td><td>4.16%</td></tr>
<tr><td>T61</td><td>Treasury 0.5% 2061</td><td>0.5%</td><td>22-Oct-2061</td><td>36.6</td><td>£26.40</td><td>4.95%</td></tr>
<tr><td>BAD</td><td>Broken row</td><td>1%</td><td>never</td><td>1</td><td>£100</td><td>1%</td></tr>
</table>
</body>
</html>`

func serveGilts(t *testing.T, updated string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, strings.ReplaceAll(giltsPage, "{{updated}}", updated))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDividendDataCollector_Collect(t *testing.T) {
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	c := NewDividendDataCollector(logging.NewNop())
	c.URL = serveGilts(t, "01 Apr 2025").URL

	collected, err := c.Collect(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, SourceDividendData, collected.Source)
	require.Len(t, collected.Bonds, 2)
	require.Len(t, collected.Failures, 1)

	b := collected.Bonds[0]
	assert.Equal(t, "TN28", b.Ticker)
	assert.Equal(t, 4.125, b.Coupon)
	assert.Equal(t, 99.87, b.CleanPrice)
	assert.Equal(t, 4.16, b.YieldToMaturity)
	assert.Equal(t, date, b.SettlementDate)
	assert.Greater(t, b.DirtyPrice, b.CleanPrice)
	assert.Positive(t, b.MacaulayDuration)

	long := collected.Bonds[1]
	assert.Greater(t, long.MacaulayDuration, b.MacaulayDuration)

	assert.ErrorIs(t, collected.Failures[0].Err, types.ErrInvalidMaturityDate)
}

func TestDividendDataCollector_Stale(t *testing.T) {
	c := NewDividendDataCollector(logging.NewNop())
	c.URL = serveGilts(t, "31 Mar 2025").URL

	_, err := c.Collect(context.Background(), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, types.ErrDataUnavailable)
}

func TestDividendDataCollector_MissingDate(t *testing.T) {
	c := NewDividendDataCollector(logging.NewNop())
	c.URL = serveGilts(t, "").URL

	_, err := c.Collect(context.Background(), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, types.ErrMissingSettlementDate)
}

func TestDividendDataCollector_Cancelled(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	t.Cleanup(srv.Close)

	c := NewDividendDataCollector(logging.NewNop())
	c.URL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Collect(ctx, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, hits)
}
