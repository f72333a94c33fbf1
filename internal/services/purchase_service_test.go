package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/cache"
	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSheetFetcher struct {
	calls atomic.Int32
	sheet *models.PurchaseSheet
	err   error
	delay time.Duration

	// when set, FetchRows signals started and blocks until release or ctx ends
	started chan struct{}
	release chan struct{}
}

func (f *fakeSheetFetcher) FetchRows(ctx context.Context) (*models.PurchaseSheet, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.sheet, nil
}

func purchaseSheet() *models.PurchaseSheet {
	return &models.PurchaseSheet{
		Headers: []string{"Indent No", "State"},
		Rows: []map[string]string{
			{"Indent No": "PI-1", "State": "Approved"},
			{"Indent No": "PI-2", "State": "Pending"},
			{"Indent No": "PI-3", "State": "Approved"},
			{"Indent No": "PI-4", "State": " "},
		},
	}
}

func TestPurchaseDashboardSummary(t *testing.T) {
	fetcher := &fakeSheetFetcher{sheet: purchaseSheet()}
	svc := NewPurchaseService(fetcher, cache.New[*models.PurchaseSheet](time.Minute), "State", nil)

	dashboard, err := svc.Dashboard(context.Background(), false)
	require.NoError(t, err)

	assert.False(t, dashboard.Cached)
	assert.Equal(t, 4, dashboard.Summary.Total)
	assert.Equal(t, []string{"Approved", "Pending", unknownPurchaseStatus}, dashboard.Summary.ByStatus.Keys())
	assert.Equal(t, 2, dashboard.Summary.ByStatus.Count("Approved"))
	assert.Len(t, dashboard.Rows, 4)
}

func TestPurchaseDashboardCaching(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	fetcher := &fakeSheetFetcher{sheet: purchaseSheet()}
	svc := NewPurchaseService(fetcher, cache.New(5*time.Minute, cache.WithClock[*models.PurchaseSheet](clock)), "", nil)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx, false)
	require.NoError(t, err)
	second, err := svc.Dashboard(ctx, false)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, now, second.FetchedAt)
	assert.EqualValues(t, 1, fetcher.calls.Load())

	_, err = svc.Dashboard(ctx, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, fetcher.calls.Load())

	now = now.Add(5 * time.Minute)
	_, err = svc.Dashboard(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 3, fetcher.calls.Load())

	svc.Invalidate()
	_, err = svc.Dashboard(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 4, fetcher.calls.Load())
}

func TestPurchaseDashboardFetchFailure(t *testing.T) {
	fetcher := &fakeSheetFetcher{err: errors.New("timeout")}
	svc := NewPurchaseService(fetcher, cache.New[*models.PurchaseSheet](time.Minute), "", nil)

	_, err := svc.Dashboard(context.Background(), false)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestPurchaseDashboardSharesConcurrentFetches(t *testing.T) {
	fetcher := &fakeSheetFetcher{sheet: purchaseSheet(), delay: 50 * time.Millisecond}
	svc := NewPurchaseService(fetcher, cache.New[*models.PurchaseSheet](time.Minute), "State", nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Dashboard(context.Background(), false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, fetcher.calls.Load(), int32(2))
}

func TestPurchaseDashboardCancelledCallerDoesNotFailOthers(t *testing.T) {
	fetcher := &fakeSheetFetcher{
		sheet:   purchaseSheet(),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	svc := NewPurchaseService(fetcher, cache.New[*models.PurchaseSheet](time.Minute), "State", nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Dashboard(ctxA, false)
		errA <- err
	}()
	<-fetcher.started

	type result struct {
		dashboard *models.PurchaseDashboard
		err       error
	}
	resB := make(chan result, 1)
	go func() {
		dashboard, err := svc.Dashboard(context.Background(), false)
		resB <- result{dashboard, err}
	}()
	// let B join the download before A goes away
	time.Sleep(20 * time.Millisecond)

	cancelA()
	err := <-errA
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrDataUnavailable)

	close(fetcher.release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, 4, b.dashboard.Summary.Total)
	assert.EqualValues(t, 1, fetcher.calls.Load())

	// the shared download filled the cache
	cached, err := svc.Dashboard(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, cached.Cached)
	assert.EqualValues(t, 1, fetcher.calls.Load())
}
