package gemini

import (
	"context"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/akolanti/TrainingBot/internal/domain/commonModels"
	"github.com/akolanti/TrainingBot/internal/rag/llm"
	"github.com/akolanti/TrainingBot/pkg/logger_i"
)

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

type llmClient struct {
	client *genai.Client
}

// GetGeminiClient is the alternative generation backend. Options.Models is
// interpreted as a priority list of Gemini model names.
func GetGeminiClient(ctx context.Context, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return geminiClient
}

func newGeminiClient(ctx context.Context, apikey string) {
	if apikey == "" {
		logger.Error("No Google API key configured, Gemini client unavailable")
		return
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return
	}
	geminiClient = &llmClient{client: c}
	logger.Info("Gemini client created")
}

func (c *llmClient) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	systemText, userPrompt := splitMessages(messages)

	contentConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens: int32(opts.MaxTokens),
	}
	if systemText != "" {
		contentConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemText}},
		}
	}

	for _, model := range opts.Models {
		result, err := c.client.Models.GenerateContent(ctx, model, genai.Text(userPrompt), contentConfig)
		if err != nil {
			logger.Warn("Gemini model attempt failed, falling through", "model", model, "error", err)
			continue
		}
		return result.Text(), nil
	}
	return "", llm.ErrAllModelsExhausted
}

func splitMessages(messages []llm.Message) (system string, user string) {
	var userParts []string
	for _, m := range messages {
		if m.Role == commonModels.RoleSystem {
			system = m.Content
			continue
		}
		userParts = append(userParts, m.Content)
	}
	return system, strings.Join(userParts, "\n\n")
}
