package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/database"
	"github.com/deep4kk/MERN-STACK-FMS/internal/models"
	"github.com/deep4kk/MERN-STACK-FMS/internal/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultMonthlySchedule fires at 06:00:00 on the first day of every month
const DefaultMonthlySchedule = "0 0 6 1 * *"

const monthlySendTimeout = 10 * time.Minute

// SubscriptionStore persists monthly MIS email recipients
type SubscriptionStore interface {
	AddSubscription(ctx context.Context, sub models.ReportSubscription) error
	RemoveSubscription(ctx context.Context, email string) error
	ListSubscriptions(ctx context.Context) ([]models.ReportSubscription, error)
}

// ReportRenderer turns a MIS report into a PDF; implemented by PDFService
type ReportRenderer interface {
	GenerateMISReportPDF(report *models.MISReport) ([]byte, error)
}

// MonthlyEmailService mails the previous month's MIS report to subscribers
type MonthlyEmailService struct {
	reports       ReportGenerator
	mailer        ReportMailer
	renderer      ReportRenderer
	subscriptions SubscriptionStore
	location      *time.Location
	schedule      string
	logger        *zap.Logger
	now           func() time.Time

	cron *cron.Cron
	wg   sync.WaitGroup
}

// NewMonthlyEmailService creates a new monthly email service
func NewMonthlyEmailService(
	reports ReportGenerator,
	mailer ReportMailer,
	renderer ReportRenderer,
	subscriptions SubscriptionStore,
	location *time.Location,
	schedule string,
	logger *zap.Logger,
) *MonthlyEmailService {
	if location == nil {
		location = time.Local
	}
	if schedule == "" {
		schedule = DefaultMonthlySchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonthlyEmailService{
		reports:       reports,
		mailer:        mailer,
		renderer:      renderer,
		subscriptions: subscriptions,
		location:      location,
		schedule:      schedule,
		logger:        logger,
		now:           time.Now,
		// seconds precision, evaluated in the report timezone
		cron: cron.New(cron.WithSeconds(), cron.WithLocation(location)),
	}
}

// Start registers the monthly job and starts the cron scheduler
func (s *MonthlyEmailService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), monthlySendTimeout)
		defer cancel()
		if _, err := s.SendMonthlyReports(ctx); err != nil {
			s.logger.Error("monthly MIS email run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule monthly report: %w", err)
	}
	s.cron.Start()
	s.logger.Info("monthly email cron scheduler started", zap.String("schedule", s.schedule))
	return nil
}

// Stop stops the scheduler and waits for running jobs and manual sends
func (s *MonthlyEmailService) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("monthly email cron scheduler stopped")
}

// Subscribe opts an address into the monthly email
func (s *MonthlyEmailService) Subscribe(ctx context.Context, email, name string) (*models.ReportSubscription, error) {
	addr, err := parseEmail(email)
	if err != nil {
		return nil, err
	}
	sub := models.ReportSubscription{
		Email:        addr,
		Name:         strings.TrimSpace(name),
		SubscribedAt: s.now().UTC(),
	}
	if err := s.subscriptions.AddSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("%w: failed to subscribe: %w", ErrDataUnavailable, err)
	}
	s.logger.Info("subscribed to monthly MIS email", zap.String("email", addr))
	return &sub, nil
}

// Unsubscribe opts an address out of the monthly email
func (s *MonthlyEmailService) Unsubscribe(ctx context.Context, email string) error {
	addr, err := parseEmail(email)
	if err != nil {
		return err
	}
	if err := s.subscriptions.RemoveSubscription(ctx, addr); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: no subscription for %s", ErrNotFound, addr)
		}
		return fmt.Errorf("%w: failed to unsubscribe: %w", ErrDataUnavailable, err)
	}
	s.logger.Info("unsubscribed from monthly MIS email", zap.String("email", addr))
	return nil
}

// Subscriptions lists every subscriber
func (s *MonthlyEmailService) Subscriptions(ctx context.Context) ([]models.ReportSubscription, error) {
	subs, err := s.subscriptions.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list subscriptions: %w", ErrDataUnavailable, err)
	}
	if subs == nil {
		subs = []models.ReportSubscription{}
	}
	return subs, nil
}

// SendMonthlyReports mails last month's report to every subscriber and
// returns how many emails were delivered. One failed recipient does not
// stop the others.
func (s *MonthlyEmailService) SendMonthlyReports(ctx context.Context) (int, error) {
	year, month := utils.PreviousMonth(s.now().In(s.location))

	subs, err := s.subscriptions.ListSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	if len(subs) == 0 {
		s.logger.Info("no MIS email subscribers, skipping run")
		return 0, nil
	}

	report, pdfData, err := s.buildReport(ctx, year, month)
	if err != nil {
		return 0, err
	}

	sent := 0
	var errs []error
	for _, sub := range subs {
		if err := s.mailer.SendMISReportEmail(ctx, sub.Email, sub.Name, report, pdfData); err != nil {
			s.logger.Error("failed to send MIS report email", zap.String("email", sub.Email), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", sub.Email, err))
			continue
		}
		sent++
	}

	s.logger.Info("monthly MIS emails sent",
		zap.Int("year", year), zap.Int("month", month),
		zap.Int("sent", sent), zap.Int("subscribers", len(subs)))
	return sent, errors.Join(errs...)
}

// SendReportEmail generates the report for year/month and mails it to one address
func (s *MonthlyEmailService) SendReportEmail(ctx context.Context, email, name string, year, month int) error {
	report, pdfData, err := s.buildReport(ctx, year, month)
	if err != nil {
		return err
	}
	if err := s.mailer.SendMISReportEmail(ctx, email, name, report, pdfData); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Info("MIS report email sent",
		zap.String("email", email), zap.Int("year", year), zap.Int("month", month))
	return nil
}

// SendReportEmailAsync validates the request and sends the email in the
// background. Stop waits for pending sends.
func (s *MonthlyEmailService) SendReportEmailAsync(email, name string, year, month int) error {
	addr, err := parseEmail(email)
	if err != nil {
		return err
	}
	if _, err := ResolvePeriod(year, month, s.location); err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), monthlySendTimeout)
		defer cancel()
		if err := s.SendReportEmail(ctx, addr, name, year, month); err != nil {
			s.logger.Error("manual MIS report email failed", zap.String("email", addr), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until background sends finish
func (s *MonthlyEmailService) Wait() {
	s.wg.Wait()
}

// buildReport generates the report and its PDF. A PDF failure is logged and
// the email goes out without an attachment.
func (s *MonthlyEmailService) buildReport(ctx context.Context, year, month int) (*models.MISReport, []byte, error) {
	report, err := s.reports.GenerateReport(ctx, year, month)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate MIS report: %w", err)
	}
	pdfData, err := s.renderer.GenerateMISReportPDF(report)
	if err != nil {
		s.logger.Warn("failed to render MIS report PDF, sending without attachment", zap.Error(err))
		pdfData = nil
	}
	return report, pdfData, nil
}

func parseEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("%w: invalid email %q", ErrInvalidInput, email)
	}
	return strings.ToLower(addr.Address), nil
}
