package collect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"benritz/bonds/internal/logging"
	"benritz/bonds/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCouponPercentage(t *testing.T) {
	tests := []struct {
		desc string
		want float64
	}{
		{"0 5/8% Treasury Gilt 2025", 0.625},
		{"2% Treasury Gilt 2025", 2},
		{"3½% Treasury Gilt 2025", 3.5},
		{"4¼% Treasury Gilt 2032", 4.25},
		{"1¾% Treasury Gilt 2037", 1.75},
		{"4 1/2% Treasury Gilt 2034", 4.5},
		{"7/8% Treasury Gilt 2033", 0.875},
		{"4.375% Treasury Gilt 2054", 4.375},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := parseCouponPercentage(tt.desc)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	for _, desc := range []string{"Treasury Gilt 2025", "1/0% Treasury", ""} {
		_, err := parseCouponPercentage(desc)
		assert.ErrorIs(t, err, types.ErrInvalidCoupon, desc)
	}
}

func TestDMOCollector_parseRow(t *testing.T) {
	c := NewDMOCollector(logging.NewNop())
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("gilt", func(t *testing.T) {
		row := []string{"GB00BTHH2R79 ", "4 1/2% Treasury Gilt 2034", "101.52", "102.61", "", "", "", "07-Jun-2034"}

		cb, err := c.parseRow(date, row)
		require.NoError(t, err)
		require.NoError(t, cb.Err)

		b := cb.Bond
		assert.Equal(t, "GB00BTHH2R79", b.ISIN)
		assert.Equal(t, SourceDMO, b.Source)
		assert.Equal(t, 4.5, b.Coupon)
		assert.Equal(t, 101.52, b.CleanPrice)
		assert.Equal(t, 102.61, b.DirtyPrice)
		assert.InDelta(t, 1.09, b.AccruedAmount, 1e-9)
		// above par, so yield below coupon
		assert.Less(t, b.YieldToMaturity, 4.5)
		assert.Positive(t, b.YieldToMaturity)
		assert.Positive(t, b.ModifiedDuration)
	})

	t.Run("not a gilt", func(t *testing.T) {
		_, err := c.parseRow(date, []string{"ISIN", "Description", "Clean", "Dirty", "", "", "", "Maturity"})
		assert.ErrorIs(t, err, ErrInvalidRow)
	})

	t.Run("short row", func(t *testing.T) {
		_, err := c.parseRow(date, []string{"GB00BTHH2R79"})
		assert.ErrorIs(t, err, ErrInvalidRow)
	})

	t.Run("index-linked", func(t *testing.T) {
		row := []string{"GB00B0V3WQ75", "1 1/4% Index-linked Treasury Gilt 2027", "99", "100", "", "", "", "22-Nov-2027"}
		_, err := c.parseRow(date, row)
		assert.ErrorIs(t, err, types.ErrUnsupportedBond)
	})

	t.Run("first error wins", func(t *testing.T) {
		row := []string{"GB00BTHH2R79", "Treasury Gilt 2034", "n/a", "n/a", "", "", "", "soon"}

		cb, err := c.parseRow(date, row)
		require.NoError(t, err)
		assert.ErrorIs(t, cb.Err, types.ErrInvalidCoupon)
	})
}

func TestDMOCollector_CollectHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "D10B", r.URL.Query().Get("reportCode"))
		assert.Equal(t, "&Trade Date=01-04-2025", r.URL.Query().Get("parameters"))
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewDMOCollector(logging.NewNop())
	c.BaseURL = srv.URL

	_, err := c.Collect(context.Background(), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 503")
	assert.Equal(t, SourceDMO, c.Source())
}
