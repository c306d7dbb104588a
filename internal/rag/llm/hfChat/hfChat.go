package hfChat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/TrainingBot/internal/config"
	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/internal/rag/llm"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var chatClient *client

// modelCaller performs one completion attempt against one model. Split out
// so the fallback walk can be tested without the network.
type modelCaller interface {
	call(ctx context.Context, model string, messages []llm.Message, opts llm.Options) (string, error)
}

type client struct {
	caller modelCaller
}

type openaiCaller struct {
	api openai.Client
}

// GetHFChatClient returns the chat-completion provider backed by the
// Hugging Face router. Returns nil when no credential is configured.
func GetHFChatClient(apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("hf_chat")
		if apikey == "" {
			logger.Error("No HF API key configured, chat client unavailable")
			return
		}
		chatClient = &client{
			caller: &openaiCaller{
				api: openai.NewClient(
					option.WithAPIKey(apikey),
					option.WithBaseURL(config.HFRouterBaseURL),
				),
			},
		}
		logger.Info("HF chat client created")
	})

	if chatClient == nil {
		return nil
	}
	return chatClient
}

// Complete walks the model priority list. Exactly one attempt per model,
// no same-model retry; the first success wins. When every model fails, a
// transient "model loading" signal beats the generic exhaustion error so
// the caller can suggest trying again shortly.
func (c *client) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	if len(opts.Models) == 0 {
		return "", llm.ErrAllModelsExhausted
	}

	sawLoading := false
	for _, model := range opts.Models {
		text, err := c.caller.call(ctx, model, messages, opts)
		if err == nil {
			logger.Debug("LLM response", "model", model)
			return text, nil
		}
		if isModelLoading(err) {
			sawLoading = true
		}
		logger.Warn("Model attempt failed, falling through", "model", model, "error", err)
	}

	if sawLoading {
		return "", llm.ErrModelLoading
	}
	return "", llm.ErrAllModelsExhausted
}

func (o *openaiCaller) call(ctx context.Context, model string, messages []llm.Message, opts llm.Options) (string, error) {
	res, err := o.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    toParams(messages),
		Model:       model,
		MaxTokens:   openai.Int(opts.MaxTokens),
		Temperature: openai.Float(opts.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("model %s returned no choices", model)
	}
	return res.Choices[0].Message.Content, nil
}

func toParams(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case commonModels.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case commonModels.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}

func isModelLoading(err error) bool {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode == http.StatusServiceUnavailable
	}
	return false
}
