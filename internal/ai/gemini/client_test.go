package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"

	"github.com/spigell/skillmatch/internal/ai"
)

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type callRecord struct {
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

type fakeModels struct {
	mu    sync.Mutex
	queue []fakeResponse
	calls []callRecord
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record := callRecord{model: model, config: config}
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		record.prompt = contents[0].Parts[0].Text
	}
	f.calls = append(f.calls, record)

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next.resp, next.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestGenerator(m models, maxAttempts int, logger *zap.Logger) *Generator {
	g := newGenerator(m, "gemini-test", maxAttempts, logger)
	g.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return g
}

func TestGeneratorReturnsText(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{}
	fake.enqueue(textResponse("  SKILLS: Go, SQL \n"), nil)

	out, err := newTestGenerator(fake, 3, zap.NewNop()).GenerateContent(context.Background(), " prompt ", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "SKILLS: Go, SQL" {
		t.Fatalf("unexpected output %q", out)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("expected one call, got %d", len(fake.calls))
	}
	call := fake.calls[0]
	if call.model != "gemini-test" || call.prompt != "prompt" {
		t.Fatalf("unexpected call %+v", call)
	}
	if call.config.Temperature == nil || *call.config.Temperature != 0 {
		t.Fatalf("expected zero temperature, got %v", call.config.Temperature)
	}
	if call.config.MaxOutputTokens != 500 {
		t.Fatalf("expected 500 output tokens, got %d", call.config.MaxOutputTokens)
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)

	fake := &fakeModels{}
	fake.enqueue(nil, genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"})
	fake.enqueue(nil, genai.APIError{Code: http.StatusTooManyRequests, Message: "Please retry in 1.5s"})
	fake.enqueue(textResponse("SKILLS: Python"), nil)

	out, err := newTestGenerator(fake, 3, zap.New(core)).GenerateContent(context.Background(), "prompt", 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "SKILLS: Python" {
		t.Fatalf("unexpected output %q", out)
	}
	if len(fake.calls) != 3 {
		t.Fatalf("expected three calls, got %d", len(fake.calls))
	}
	if logs.FilterMessage("gemini request failed, retrying").Len() != 2 {
		t.Fatalf("expected two retry warnings, got %d", logs.Len())
	}
}

func TestGeneratorStopsAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{}
	for range 3 {
		fake.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError})
	}

	_, err := newTestGenerator(fake, 2, nil).GenerateContent(context.Background(), "prompt", 300)
	if !errors.Is(err, ai.ErrUpstreamFailure) {
		t.Fatalf("expected upstream failure, got %v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected two calls, got %d", len(fake.calls))
	}
}

func TestGeneratorDoesNotRetryPermanentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
	}{
		{name: "bad request", err: genai.APIError{Code: http.StatusBadRequest, Message: "API key not valid"}},
		{name: "long quota delay", err: genai.APIError{
			Code:    http.StatusTooManyRequests,
			Details: []map[string]any{{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "45s"}},
		}},
		{name: "nil response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeModels{}
			fake.enqueue(tt.resp, tt.err)

			_, err := newTestGenerator(fake, 3, nil).GenerateContent(context.Background(), "prompt", 300)
			if !errors.Is(err, ai.ErrUpstreamFailure) {
				t.Fatalf("expected upstream failure, got %v", err)
			}
			if len(fake.calls) != 1 {
				t.Fatalf("expected a single call, got %d", len(fake.calls))
			}
		})
	}
}

func TestGeneratorReturnsBlankCompletion(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{}
	fake.enqueue(textResponse("   "), nil)

	text, err := newTestGenerator(fake, 3, nil).GenerateContent(context.Background(), "prompt", 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected a single call, got %d", len(fake.calls))
	}
}

func TestGeneratorRejectsEmptyPrompt(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{}
	if _, err := newTestGenerator(fake, 3, nil).GenerateContent(context.Background(), " \n", 300); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if len(fake.calls) != 0 {
		t.Fatalf("expected no calls, got %d", len(fake.calls))
	}
}

func TestGeneratorDefaults(t *testing.T) {
	t.Parallel()

	g := newGenerator(&fakeModels{}, " ", 0, nil)
	if g.Model() != defaultModel {
		t.Fatalf("expected default model, got %q", g.Model())
	}
	if g.maxAttempts != defaultMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", defaultMaxAttempts, g.maxAttempts)
	}

	if _, err := NewGenerator(context.Background(), "  ", "", 0, nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "canceled", err: context.Canceled, want: false},
		{name: "transport", err: errors.New("connection reset"), want: true},
		{name: "unavailable", err: genai.APIError{Code: http.StatusServiceUnavailable}, want: true},
		{name: "not found", err: genai.APIError{Code: http.StatusNotFound}, want: false},
		{name: "quota without delay", err: genai.APIError{Code: http.StatusTooManyRequests}, want: true},
		{name: "quota short delay", err: genai.APIError{Code: http.StatusTooManyRequests, Message: "retry after 10 seconds"}, want: true},
		{name: "quota long delay", err: genai.APIError{Code: http.StatusTooManyRequests, Message: "Please retry in 58.2s."}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := retryable(tt.err); got != tt.want {
				t.Fatalf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
