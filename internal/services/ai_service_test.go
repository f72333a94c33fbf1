package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/config"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	request openai.ChatCompletionRequest
	reply   string
	err     error
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.request = request
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "  " + f.reply + "\n"}}},
	}, nil
}

func TestSummarizeReport(t *testing.T) {
	completer := &fakeCompleter{reply: "Completion is low."}
	reports := NewMISService(sampleStore(), time.UTC, nil)
	svc := NewAIServiceWithClient(completer, config.OpenAIConfig{Model: "test-model", MaxTokens: 200}, reports, nil)

	summary, err := svc.SummarizeReport(context.Background(), 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, "Completion is low.", summary.Summary)
	assert.Equal(t, "test-model", summary.Model)
	assert.Equal(t, 2, summary.Period.Month)

	require.Len(t, completer.request.Messages, 2)
	assert.Equal(t, 200, completer.request.MaxTokens)
	assert.Contains(t, completer.request.Messages[1].Content, "Tasks: 3 total (1 one-off, 2 cyclic).")
	assert.Contains(t, completer.request.Messages[1].Content, "Waiting at: step 2=1.")
}

func TestSummarizeReportDisabled(t *testing.T) {
	svc := NewAIService(config.OpenAIConfig{}, NewMISService(sampleStore(), time.UTC, nil), nil)

	assert.False(t, svc.Enabled())
	_, err := svc.SummarizeReport(context.Background(), 2024, 2)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSummarizeReportErrors(t *testing.T) {
	reports := NewMISService(sampleStore(), time.UTC, nil)

	svc := NewAIServiceWithClient(&fakeCompleter{err: errors.New("429")}, config.OpenAIConfig{}, reports, nil)
	_, err := svc.SummarizeReport(context.Background(), 2024, 2)
	assert.ErrorIs(t, err, ErrDataUnavailable)

	svc = NewAIServiceWithClient(&fakeCompleter{}, config.OpenAIConfig{}, reports, nil)
	_, err = svc.SummarizeReport(context.Background(), 2024, 2)
	assert.ErrorIs(t, err, ErrDataUnavailable)

	_, err = svc.SummarizeReport(context.Background(), 2024, 14)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildReportDigestOrdersByOpenWork(t *testing.T) {
	report, err := NewMISService(sampleStore(), time.UTC, nil).GenerateReport(context.Background(), 2024, 2)
	require.NoError(t, err)

	digest := buildReportDigest(report)
	assert.Contains(t, digest, "Open tasks by person:\n- bob:")
	assert.Contains(t, digest, "Help tickets: 2 total, 1 open, 0 in progress, 1 closed.")
}
