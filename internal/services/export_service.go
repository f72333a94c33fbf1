package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"
	"github.com/deep4kk/MERN-STACK-FMS/internal/storage"
	"github.com/deep4kk/MERN-STACK-FMS/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const exportTimeout = 5 * time.Minute

// ExportService runs MIS report PDF exports in the background and archives
// the result. Jobs are kept in memory.
type ExportService struct {
	reports  ReportGenerator
	renderer ReportRenderer
	archive  storage.ArchiveStore
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time

	jobs  map[string]*models.ExportJob
	mutex sync.RWMutex
	wg    sync.WaitGroup
}

// NewExportService creates a new export service
func NewExportService(reports ReportGenerator, renderer ReportRenderer, archive storage.ArchiveStore, location *time.Location, logger *zap.Logger) *ExportService {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports:  reports,
		renderer: renderer,
		archive:  archive,
		location: location,
		logger:   logger,
		now:      time.Now,
		jobs:     make(map[string]*models.ExportJob),
	}
}

// CreateExport validates the period, registers a pending job and starts it
func (s *ExportService) CreateExport(year, month int) (*models.ExportJob, error) {
	if _, err := ResolvePeriod(year, month, s.location); err != nil {
		return nil, err
	}

	now := s.now()
	job := &models.ExportJob{
		ID:        uuid.New().String(),
		Status:    models.ExportStatusPending,
		Year:      year,
		Month:     month,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mutex.Lock()
	s.jobs[job.ID] = job
	s.mutex.Unlock()

	s.wg.Add(1)
	go s.run(job.ID, year, month)

	snapshot := *job
	return &snapshot, nil
}

// GetExport returns a copy of the job with the given id
func (s *ExportService) GetExport(jobID string) (*models.ExportJob, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: export %s", ErrNotFound, jobID)
	}
	snapshot := *job
	return &snapshot, nil
}

// OpenExport opens the archived PDF of a completed job
func (s *ExportService) OpenExport(ctx context.Context, jobID string) (io.ReadCloser, string, error) {
	job, err := s.GetExport(jobID)
	if err != nil {
		return nil, "", err
	}
	if job.Status != models.ExportStatusCompleted {
		return nil, "", fmt.Errorf("%w: export %s is %s", ErrConflict, jobID, job.Status)
	}
	body, contentType, err := s.archive.Get(ctx, job.Key)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	return body, contentType, nil
}

// Wait blocks until all running exports finish
func (s *ExportService) Wait() {
	s.wg.Wait()
}

func (s *ExportService) run(jobID string, year, month int) {
	defer s.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	s.updateJob(jobID, func(job *models.ExportJob) {
		job.Status = models.ExportStatusProcessing
	})

	key, err := s.export(ctx, jobID, year, month)
	if err != nil {
		s.logger.Error("MIS report export failed",
			zap.String("jobId", jobID), zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		s.updateJob(jobID, func(job *models.ExportJob) {
			job.Status = models.ExportStatusFailed
			job.Error = err.Error()
		})
		return
	}

	s.updateJob(jobID, func(job *models.ExportJob) {
		job.Status = models.ExportStatusCompleted
		job.Key = key
		job.URL = s.archive.URL(key)
	})
	s.logger.Info("MIS report exported", zap.String("jobId", jobID), zap.String("key", key))
}

func (s *ExportService) export(ctx context.Context, jobID string, year, month int) (string, error) {
	report, err := s.reports.GenerateReport(ctx, year, month)
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}
	if err := validation.ValidateMISReport(report); err != nil {
		return "", fmt.Errorf("generated report is invalid: %w", err)
	}
	pdfData, err := s.renderer.GenerateMISReportPDF(report)
	if err != nil {
		return "", fmt.Errorf("failed to render PDF: %w", err)
	}

	key := storage.ReportKey(year, month, jobID)
	if err := s.archive.Put(ctx, key, bytes.NewReader(pdfData), "application/pdf"); err != nil {
		return "", fmt.Errorf("failed to archive PDF: %w", err)
	}
	return key, nil
}

func (s *ExportService) updateJob(jobID string, update func(*models.ExportJob)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return
	}
	update(job)
	job.UpdatedAt = s.now()
}
