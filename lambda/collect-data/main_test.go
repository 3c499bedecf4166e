package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"benritz/bonds/internal/collect"
	"benritz/bonds/internal/logging"
	"benritz/bonds/internal/types"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	date time.Time
	err  error
}

func (f *fakeCollector) Collect(ctx context.Context, date time.Time) (*collect.CollectedBonds, error) {
	f.date = date
	if f.err != nil {
		return nil, f.err
	}

	collected := collect.NewCollectedBonds(f.Source(), date)

	b := types.NewUKGilt(f.Source(), date)
	b.ISIN = "GB00BTHH2R79"
	b.Coupon = 4.5
	b.MaturityDate = date.AddDate(9, 0, 0)
	b.YieldToMaturity = 4.2
	collected.AddBond(&collect.CollectedBond{Bond: b, Err: types.CompleteBond(b)})

	bad := types.NewUKGilt(f.Source(), date)
	bad.ISIN = "GB0000000000"
	collected.AddBond(&collect.CollectedBond{Bond: bad, Err: types.ErrInvalidCoupon})

	return collected, nil
}

func (f *fakeCollector) Source() string {
	return "fake"
}

type fakePutter struct {
	keys []string
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if _, err := io.Copy(io.Discard, params.Body); err != nil {
		return nil, err
	}
	f.keys = append(f.keys, aws.ToString(params.Key))
	return &s3.PutObjectOutput{}, nil
}

func newTestApp(c collect.Collector, p collect.ObjectPutter) *app {
	return &app{
		collector: c,
		putter:    p,
		dst:       &collect.S3Path{Bucket: "gilts", Prefix: "daily"},
		log:       logging.NewNop(),
		now:       func() time.Time { return time.Date(2025, 4, 1, 17, 45, 0, 0, time.UTC) },
	}
}

func TestHandler(t *testing.T) {
	event := events.SQSEvent{Records: []events.SQSMessage{{MessageId: "m-1"}, {MessageId: "m-2"}}}

	t.Run("stores collected bonds", func(t *testing.T) {
		collector := &fakeCollector{}
		putter := &fakePutter{}

		resp, err := newTestApp(collector, putter).handler(context.Background(), event)
		require.NoError(t, err)
		assert.Empty(t, resp.BatchItemFailures)

		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), collector.date)
		assert.Equal(t, []string{"daily/2025/04/01/fake.parquet"}, putter.keys)
	})

	t.Run("reports first record on failure", func(t *testing.T) {
		collector := &fakeCollector{err: types.ErrDataUnavailable}

		resp, err := newTestApp(collector, &fakePutter{}).handler(context.Background(), event)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrDataUnavailable))
		require.Len(t, resp.BatchItemFailures, 1)
		assert.Equal(t, "m-1", resp.BatchItemFailures[0].ItemIdentifier)
	})
	t.Run("returns error without records", func(t *testing.T) {
		collector := &fakeCollector{err: types.ErrDataUnavailable}

		resp, err := newTestApp(collector, &fakePutter{}).handler(context.Background(), events.SQSEvent{})
		require.ErrorIs(t, err, types.ErrDataUnavailable)
		assert.Empty(t, resp.BatchItemFailures)
	})
}
