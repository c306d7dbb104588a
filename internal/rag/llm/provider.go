package llm

import (
	"context"
	"errors"
)

var (
	// ErrAllModelsExhausted means every model in the priority list failed.
	ErrAllModelsExhausted = errors.New("llm: all models failed")

	// ErrModelLoading means at least one model answered with a transient
	// "still loading" signal and none succeeded. Callers show a retry
	// message instead of a generic failure.
	ErrModelLoading = errors.New("llm: model is loading")
)

type Message struct {
	Role    string
	Content string
}

// Options control one generation call. Models is the priority list; each
// model is attempted exactly once, in order.
type Options struct {
	Models      []string
	MaxTokens   int64
	Temperature float64
}

type Provider interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}
