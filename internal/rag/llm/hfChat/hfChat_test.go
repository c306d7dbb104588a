package hfChat

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/openai/openai-go"

	"github.com/akolanti/TrainingBot/internal/rag/llm"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

type fakeCaller struct {
	responses map[string]string
	errs      map[string]error
	attempts  []string
}

func (f *fakeCaller) call(ctx context.Context, model string, messages []llm.Message, opts llm.Options) (string, error) {
	f.attempts = append(f.attempts, model)
	if err, ok := f.errs[model]; ok {
		return "", err
	}
	return f.responses[model], nil
}

func newTestClient(f *fakeCaller) *client {
	logger_i.Init()
	logger = logger_i.NewLogger("hf_chat_test")
	return &client{caller: f}
}

func TestComplete_Fallback(t *testing.T) {
	loadingErr := &openai.Error{StatusCode: http.StatusServiceUnavailable}

	tests := []struct {
		name         string
		caller       *fakeCaller
		wantText     string
		wantErr      error
		wantAttempts []string
	}{
		{
			name: "primary succeeds",
			caller: &fakeCaller{
				responses: map[string]string{"primary": "primary answer"},
			},
			wantText:     "primary answer",
			wantAttempts: []string{"primary"},
		},
		{
			name: "primary fails fallback succeeds",
			caller: &fakeCaller{
				responses: map[string]string{"fallback": "fallback answer"},
				errs:      map[string]error{"primary": errors.New("rate limited")},
			},
			wantText:     "fallback answer",
			wantAttempts: []string{"primary", "fallback"},
		},
		{
			name: "all models fail",
			caller: &fakeCaller{
				errs: map[string]error{
					"primary":  errors.New("down"),
					"fallback": errors.New("also down"),
				},
			},
			wantErr:      llm.ErrAllModelsExhausted,
			wantAttempts: []string{"primary", "fallback"},
		},
		{
			name: "model loading surfaces distinctly",
			caller: &fakeCaller{
				errs: map[string]error{
					"primary":  loadingErr,
					"fallback": errors.New("down"),
				},
			},
			wantErr:      llm.ErrModelLoading,
			wantAttempts: []string{"primary", "fallback"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(tt.caller)
			text, err := c.Complete(context.Background(), []llm.Message{{Role: "user", Content: "q"}}, llm.Options{
				Models: []string{"primary", "fallback"},
			})

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if len(tt.caller.attempts) != len(tt.wantAttempts) {
				t.Fatalf("attempts = %v, want %v", tt.caller.attempts, tt.wantAttempts)
			}
			for i, m := range tt.wantAttempts {
				if tt.caller.attempts[i] != m {
					t.Errorf("attempt %d = %s, want %s", i, tt.caller.attempts[i], m)
				}
			}
		})
	}
}

func TestComplete_EmptyModelList(t *testing.T) {
	c := newTestClient(&fakeCaller{})
	_, err := c.Complete(context.Background(), nil, llm.Options{})
	if !errors.Is(err, llm.ErrAllModelsExhausted) {
		t.Errorf("error = %v, want ErrAllModelsExhausted", err)
	}
}

func TestComplete_NoSameModelRetry(t *testing.T) {
	f := &fakeCaller{errs: map[string]error{"only": errors.New("boom")}}
	c := newTestClient(f)
	_, _ = c.Complete(context.Background(), nil, llm.Options{Models: []string{"only"}})
	if len(f.attempts) != 1 {
		t.Errorf("expected exactly one attempt, got %d", len(f.attempts))
	}
}
