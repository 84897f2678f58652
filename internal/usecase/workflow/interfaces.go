package workflow

import "context"

// LLMConnector is the completion service used by every workflow stage.
type LLMConnector interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
