package inference

import "context"

// Client is a text-generation backend. Both classification and summarization
// go through Generate; the caller owns prompts and output validation.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// Request is one generation call.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
	// JSON asks the backend to constrain output to JSON when it supports it.
	JSON bool
}
