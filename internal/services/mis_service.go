package services

import (
	"context"
	"fmt"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MISStore reads the entities a MIS report is built from. Each Find method
// returns records created within [start, end] with user references resolved.
type MISStore interface {
	FindTasks(ctx context.Context, start, end time.Time) ([]models.Task, error)
	FindWorkflows(ctx context.Context, start, end time.Time) ([]models.WorkflowInstance, error)
	FindChecklists(ctx context.Context, start, end time.Time) ([]models.Checklist, error)
	FindHelpTickets(ctx context.Context, start, end time.Time) ([]models.HelpTicket, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ReportRecorder receives every generated report, e.g. a metrics sink
type ReportRecorder interface {
	RecordMISReport(ctx context.Context, report *models.MISReport) error
}

// ReportGenerator produces MIS reports; implemented by MISService
type ReportGenerator interface {
	GenerateReport(ctx context.Context, year, month int) (*models.MISReport, error)
}

const recordTimeout = 5 * time.Second

// MISService builds monthly MIS reports
type MISService struct {
	store    MISStore
	recorder ReportRecorder
	location *time.Location
	logger   *zap.Logger
}

// NewMISService creates a new MIS service reporting in location
func NewMISService(store MISStore, location *time.Location, logger *zap.Logger) *MISService {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MISService{
		store:    store,
		location: location,
		logger:   logger,
	}
}

// SetRecorder attaches a recorder that is notified of every generated report
func (s *MISService) SetRecorder(recorder ReportRecorder) {
	s.recorder = recorder
}

// Location returns the location periods are resolved in
func (s *MISService) Location() *time.Location {
	return s.location
}

// GenerateReportFromParams parses raw query values and generates the report
func (s *MISService) GenerateReportFromParams(ctx context.Context, yearStr, monthStr string) (*models.MISReport, error) {
	year, month, err := ParsePeriodParams(yearStr, monthStr)
	if err != nil {
		return nil, err
	}
	return s.GenerateReport(ctx, year, month)
}

// GenerateReport computes the MIS report for year/month. The five reads run
// concurrently; if any fails the whole report fails with ErrDataUnavailable.
func (s *MISService) GenerateReport(ctx context.Context, year, month int) (*models.MISReport, error) {
	period, err := ResolvePeriod(year, month, s.location)
	if err != nil {
		return nil, err
	}

	var (
		tasks      []models.Task
		workflows  []models.WorkflowInstance
		checklists []models.Checklist
		tickets    []models.HelpTicket
		users      []models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if tasks, err = s.store.FindTasks(gctx, period.Start, period.End); err != nil {
			return fmt.Errorf("failed to fetch tasks: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if workflows, err = s.store.FindWorkflows(gctx, period.Start, period.End); err != nil {
			return fmt.Errorf("failed to fetch workflows: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if checklists, err = s.store.FindChecklists(gctx, period.Start, period.End); err != nil {
			return fmt.Errorf("failed to fetch checklists: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tickets, err = s.store.FindHelpTickets(gctx, period.Start, period.End); err != nil {
			return fmt.Errorf("failed to fetch help tickets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if users, err = s.store.ListUsers(gctx); err != nil {
			return fmt.Errorf("failed to fetch users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("MIS report fetch failed",
			zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	report := &models.MISReport{
		Period:      period.ReportPeriod(),
		Tasks:       AggregateTasks(tasks),
		FMS:         AggregateWorkflows(workflows),
		Checklists:  AggregateChecklists(checklists),
		HelpTickets: AggregateHelpTickets(tickets),
		Users:       BuildUserDirectory(users),
	}

	s.logger.Debug("MIS report generated",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("tasks", report.Tasks.Total),
		zap.Int("fms", report.FMS.Total),
		zap.Int("checklists", report.Checklists.Total),
		zap.Int("helpTickets", report.HelpTickets.Total))

	s.record(ctx, report)
	return report, nil
}

// record hands the report to the recorder. Failures are logged only.
func (s *MISService) record(ctx context.Context, report *models.MISReport) {
	if s.recorder == nil {
		return
	}
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := s.recorder.RecordMISReport(recordCtx, report); err != nil {
		s.logger.Warn("failed to record MIS report metrics",
			zap.Int("year", report.Period.Year),
			zap.Int("month", report.Period.Month),
			zap.Error(err))
	}
}
