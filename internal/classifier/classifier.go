package classifier

import (
	"context"
	"fmt"
)

// Request contains the data sent to an LLM for classification.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Response contains the raw response from an LLM.
type Response struct {
	Content    string
	TokensUsed int
}

// Classifier is the provider abstraction interface.
type Classifier interface {
	Classify(ctx context.Context, req Request) (Response, error)
	Name() string
}

// New creates a classifier by provider name.
func New(provider, model string) (Classifier, error) {
	switch provider {
	case "openai":
		return NewOpenAI(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
