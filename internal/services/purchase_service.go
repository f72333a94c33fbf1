package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/cache"
	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const unknownPurchaseStatus = "Unspecified"

// sheetFetchTimeout bounds a shared download that no longer belongs to one request
const sheetFetchTimeout = 2 * time.Minute

// PurchaseService serves the purchase indent dashboard from a cached copy
// of the spreadsheet
type PurchaseService struct {
	fetcher      SheetFetcher
	cache        *cache.Cache[*models.PurchaseSheet]
	statusColumn string
	group        singleflight.Group
	logger       *zap.Logger
}

// NewPurchaseService creates a purchase dashboard service
func NewPurchaseService(fetcher SheetFetcher, sheetCache *cache.Cache[*models.PurchaseSheet], statusColumn string, logger *zap.Logger) *PurchaseService {
	if statusColumn == "" {
		statusColumn = "Status"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{
		fetcher:      fetcher,
		cache:        sheetCache,
		statusColumn: statusColumn,
		logger:       logger,
	}
}

// Dashboard returns the sheet rows with a status summary. The cached copy is
// used while fresh unless refresh is set.
func (s *PurchaseService) Dashboard(ctx context.Context, refresh bool) (*models.PurchaseDashboard, error) {
	if !refresh {
		if entry, ok := s.cache.Get(); ok {
			return s.buildDashboard(entry.Value, entry.StoredAt, true), nil
		}
	}

	// concurrent misses share one download. The download is detached from the
	// caller so one cancelled request does not fail the others waiting on it.
	ch := s.group.DoChan("sheet", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sheetFetchTimeout)
		defer cancel()

		sheet, err := s.fetcher.FetchRows(fetchCtx)
		if err != nil {
			return nil, err
		}
		return s.cache.Set(sheet), nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, fmt.Errorf("purchase dashboard: %w", ctx.Err())
	}
	if res.Err != nil {
		s.logger.Error("purchase sheet fetch failed", zap.Error(res.Err))
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, res.Err)
	}

	entry := res.Val.(cache.Entry[*models.PurchaseSheet])
	s.logger.Debug("purchase sheet refreshed", zap.Int("rows", len(entry.Value.Rows)))
	return s.buildDashboard(entry.Value, entry.StoredAt, false), nil
}

// Invalidate drops the cached sheet so the next request refetches it
func (s *PurchaseService) Invalidate() {
	s.cache.Invalidate()
	s.logger.Info("purchase sheet cache invalidated")
}

func (s *PurchaseService) buildDashboard(sheet *models.PurchaseSheet, fetchedAt time.Time, cached bool) *models.PurchaseDashboard {
	summary := models.PurchaseSummary{ByStatus: models.NewHistogram()}
	for _, row := range sheet.Rows {
		status := strings.TrimSpace(row[s.statusColumn])
		if status == "" {
			status = unknownPurchaseStatus
		}
		summary.Total++
		summary.ByStatus.Add(status)
	}
	return &models.PurchaseDashboard{
		Headers:   sheet.Headers,
		Rows:      sheet.Rows,
		Summary:   summary,
		FetchedAt: fetchedAt,
		Cached:    cached,
	}
}
