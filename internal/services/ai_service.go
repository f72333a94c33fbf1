package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/deep4kk/MERN-STACK-FMS/internal/config"
	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// maxDigestPeople caps the per-person rows sent to the model
const maxDigestPeople = 10

const summarySystemPrompt = `You are an operations analyst. You receive the monthly MIS figures of a
company's task, workflow (FMS), checklist and help ticket modules. Write a short
management summary of 4 to 6 sentences: overall completion, backlogs, who is
carrying the most open work, and one concrete recommendation. Use only the
numbers given. Plain text, no headings.`

// ChatCompleter is the slice of the OpenAI client the summary needs
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ReportSummary is a narrative summary of a MIS report
type ReportSummary struct {
	Period  models.ReportPeriod `json:"period"`
	Summary string              `json:"summary"`
	Model   string              `json:"model"`
}

// AIService writes narrative summaries of MIS reports with an LLM
type AIService struct {
	client      ChatCompleter
	reports     ReportGenerator
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// NewAIService creates an AI service. Without an API key the service is
// disabled and every call returns ErrNotConfigured.
func NewAIService(cfg config.OpenAIConfig, reports ReportGenerator, logger *zap.Logger) *AIService {
	var client ChatCompleter
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		client = openai.NewClientWithConfig(clientCfg)
	}
	return NewAIServiceWithClient(client, cfg, reports, logger)
}

// NewAIServiceWithClient creates an AI service over a custom completion client
func NewAIServiceWithClient(client ChatCompleter, cfg config.OpenAIConfig, reports ReportGenerator, logger *zap.Logger) *AIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &AIService{
		client:      client,
		reports:     reports,
		model:       model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}
}

// Enabled reports whether an API key was configured
func (s *AIService) Enabled() bool {
	return s.client != nil
}

// SummarizeReport generates the report for year/month and summarizes it
func (s *AIService) SummarizeReport(ctx context.Context, year, month int) (*ReportSummary, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrNotConfigured)
	}
	report, err := s.reports.GenerateReport(ctx, year, month)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildReportDigest(report)},
		},
	})
	if err != nil {
		s.logger.Error("OpenAI completion failed", zap.String("model", s.model), zap.Error(err))
		return nil, fmt.Errorf("%w: failed to call OpenAI: %w", ErrDataUnavailable, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("%w: empty response from OpenAI", ErrDataUnavailable)
	}

	s.logger.Debug("MIS summary generated",
		zap.Int("year", year), zap.Int("month", month),
		zap.Int("promptTokens", resp.Usage.PromptTokens),
		zap.Int("completionTokens", resp.Usage.CompletionTokens))

	return &ReportSummary{
		Period:  report.Period,
		Summary: strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:   s.model,
	}, nil
}

// buildReportDigest renders the report as compact text for the prompt
func buildReportDigest(report *models.MISReport) string {
	var b strings.Builder
	t, f, c, h := report.Tasks, report.FMS, report.Checklists, report.HelpTickets

	fmt.Fprintf(&b, "Period: %s to %s\n\n", report.Period.StartDate, report.Period.EndDate)

	fmt.Fprintf(&b, "Tasks: %d total (%d one-off, %d cyclic).", t.Total, t.OneOff, t.Cyclic)
	for _, key := range t.ByStatus.Keys() {
		fmt.Fprintf(&b, " %s=%d", key, t.ByStatus.Count(key))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "FMS projects: %d total, %d in progress, %d completed.", f.Total, f.InProgress, f.Completed)
	if len(f.StepStatusBreakdown) > 0 {
		steps := make([]string, 0, len(f.StepStatusBreakdown))
		for step, n := range f.StepStatusBreakdown {
			steps = append(steps, fmt.Sprintf("step %s=%d", step, n))
		}
		sort.Strings(steps)
		fmt.Fprintf(&b, " Waiting at: %s.", strings.Join(steps, ", "))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Checklists: %d total, %d submitted, %d not submitted.\n", c.Total, c.Done, c.NotDone)
	fmt.Fprintf(&b, "Help tickets: %d total, %d open, %d in progress, %d closed.\n", h.Total, h.Open, h.InProgress, h.Closed)

	people := append([]*models.TaskPersonStats(nil), t.ByPerson...)
	sort.SliceStable(people, func(i, j int) bool {
		return openTasks(people[i]) > openTasks(people[j])
	})
	if len(people) > maxDigestPeople {
		people = people[:maxDigestPeople]
	}
	if len(people) > 0 {
		b.WriteString("\nOpen tasks by person:\n")
		for _, p := range people {
			fmt.Fprintf(&b, "- %s: %d total, %d pending, %d in progress, %d overdue, %d completed\n",
				p.Username, p.Total, p.Pending, p.InProgress, p.Overdue, p.Completed)
		}
	}
	return b.String()
}

func openTasks(p *models.TaskPersonStats) int {
	return p.Pending + p.InProgress + p.Overdue
}
