package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/config"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailSender struct {
	mu       sync.Mutex
	messages []*mail.SGMailV3
	status   int
	err      error
}

func (f *fakeMailSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, email)
	if f.err != nil {
		return nil, f.err
	}
	status := f.status
	if status == 0 {
		status = 202
	}
	return &rest.Response{StatusCode: status, Body: "rejected"}, nil
}

func (f *fakeMailSender) sent() []*mail.SGMailV3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*mail.SGMailV3(nil), f.messages...)
}

func TestSendMISReportEmail(t *testing.T) {
	report, err := NewMISService(sampleStore(), time.UTC, nil).GenerateReport(context.Background(), 2024, 2)
	require.NoError(t, err)

	sender := &fakeMailSender{}
	svc := NewEmailServiceWithSender(config.EmailConfig{FromEmail: "reports@example.com"}, sender)
	require.NoError(t, svc.SendMISReportEmail(context.Background(), "ops@example.com", "Ops <Team>", report, []byte("%PDF-1.3")))

	sent := sender.sent()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, "MIS Report - February 2024", msg.Subject)
	assert.Equal(t, "FMS Reports", msg.From.Name)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "mis-report-2024-02.pdf", msg.Attachments[0].Filename)

	require.Len(t, msg.Content, 2)
	assert.Contains(t, msg.Content[0].Value, "Tasks:         total 3, done 1")
	assert.Contains(t, msg.Content[1].Value, "Hello Ops &lt;Team&gt;,")
	assert.NotContains(t, msg.Content[1].Value, "<Team>")
}

func TestSendMISReportEmailAPIError(t *testing.T) {
	report, err := NewMISService(&fakeMISStore{}, time.UTC, nil).GenerateReport(context.Background(), 2024, 2)
	require.NoError(t, err)

	svc := NewEmailServiceWithSender(config.EmailConfig{FromEmail: "reports@example.com"}, &fakeMailSender{status: 400})
	err = svc.SendMISReportEmail(context.Background(), "ops@example.com", "", report, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
