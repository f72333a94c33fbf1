package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html"

	"github.com/deep4kk/MERN-STACK-FMS/internal/config"
	"github.com/deep4kk/MERN-STACK-FMS/internal/models"
	"github.com/deep4kk/MERN-STACK-FMS/internal/utils"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// MailSender delivers SendGrid messages; *sendgrid.Client implements it
type MailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// ReportMailer sends MIS report emails; implemented by EmailService
type ReportMailer interface {
	SendMISReportEmail(ctx context.Context, toEmail, toName string, report *models.MISReport, pdfData []byte) error
}

// EmailService handles email sending via SendGrid
type EmailService struct {
	fromEmail string
	fromName  string
	client    MailSender
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.EmailConfig) *EmailService {
	return NewEmailServiceWithSender(cfg, sendgrid.NewSendClient(cfg.APIKey))
}

// NewEmailServiceWithSender creates an email service over a custom sender
func NewEmailServiceWithSender(cfg config.EmailConfig, sender MailSender) *EmailService {
	fromName := cfg.FromName
	if fromName == "" {
		fromName = "FMS Reports"
	}
	return &EmailService{
		fromEmail: cfg.FromEmail,
		fromName:  fromName,
		client:    sender,
	}
}

// SendMISReportEmail sends the monthly MIS report with the PDF attached
func (s *EmailService) SendMISReportEmail(ctx context.Context, toEmail, toName string, report *models.MISReport, pdfData []byte) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	subject := fmt.Sprintf("MIS Report - %s", periodLabel(report.Period))

	message := mail.NewSingleEmail(from, subject, to, s.buildMISReportEmailText(toName, report), s.buildMISReportEmailHTML(toName, report))

	if len(pdfData) > 0 {
		attachment := mail.NewAttachment()
		attachment.SetContent(base64.StdEncoding.EncodeToString(pdfData))
		attachment.SetType("application/pdf")
		attachment.SetFilename(fmt.Sprintf("mis-report-%s.pdf", utils.MonthKey(report.Period.Year, report.Period.Month)))
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func periodLabel(p models.ReportPeriod) string {
	return fmt.Sprintf("%s %d", utils.MonthName(p.Month), p.Year)
}

func greeting(name string) string {
	if name == "" {
		return "Hello,"
	}
	return fmt.Sprintf("Hello %s,", name)
}

// buildMISReportEmailHTML builds the HTML body of the MIS report email
func (s *EmailService) buildMISReportEmailHTML(toName string, report *models.MISReport) string {
	var b bytes.Buffer
	label := html.EscapeString(periodLabel(report.Period))

	b.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #0066cc; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
        .content { background-color: #f8f9fa; padding: 20px; border-radius: 0 0 8px 8px; }
        table { width: 100%; border-collapse: collapse; background-color: white; }
        th, td { padding: 8px; border-bottom: 1px solid #eee; text-align: left; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="header">
        <h1 style="margin: 0;">MIS Report</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">` + label + `</p>
    </div>
    <div class="content">
        <p>` + html.EscapeString(greeting(toName)) + `</p>
        <p>The MIS report for <strong>` + label + `</strong> is ready.</p>
        <table>
            <tr><th>Module</th><th>Total</th><th>Done</th></tr>`)

	for _, row := range emailSummaryRows(report) {
		fmt.Fprintf(&b, "\n            <tr><td>%s</td><td>%d</td><td>%d</td></tr>", row.label, row.total, row.done)
	}

	b.WriteString(`
        </table>
        <p>The complete report is attached as a PDF document.</p>
    </div>
    <div class="footer">
        <p>This is an automated email. Please do not reply.</p>
        <p>Period ` + html.EscapeString(report.Period.StartDate) + ` to ` + html.EscapeString(report.Period.EndDate) + `</p>
    </div>
</body>
</html>`)
	return b.String()
}

// buildMISReportEmailText builds the plain text body of the MIS report email
func (s *EmailService) buildMISReportEmailText(toName string, report *models.MISReport) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "MIS Report\n%s\n\n%s\n\nThe MIS report for %s is ready.\n\n",
		periodLabel(report.Period), greeting(toName), periodLabel(report.Period))
	for _, row := range emailSummaryRows(report) {
		fmt.Fprintf(&b, "%-14s total %d, done %d\n", row.label+":", row.total, row.done)
	}
	b.WriteString("\nThe complete report is attached as a PDF document.\n\n---\nThis is an automated email. Please do not reply.\n")
	return b.String()
}

type emailSummaryRow struct {
	label       string
	total, done int
}

func emailSummaryRows(report *models.MISReport) []emailSummaryRow {
	return []emailSummaryRow{
		{"Tasks", report.Tasks.Total, report.Tasks.ByStatus.Count(models.TaskStatusCompleted)},
		{"FMS projects", report.FMS.Total, report.FMS.Completed},
		{"Checklists", report.Checklists.Total, report.Checklists.Done},
		{"Help tickets", report.HelpTickets.Total, report.HelpTickets.Closed},
	}
}
