package inference

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nguyentantai21042004/segment-flow/internal/config"
)

// New creates the Client selected by cfg.Provider.
func New(cfg config.InferenceConfig) (Client, error) {
	switch cfg.Provider {
	case "ollama":
		return newOllama(cfg.BaseURL, &http.Client{}), nil
	case "openai":
		return newOpenAI(cfg.APIKey, cfg.BaseURL), nil
	case "gemini":
		return newGemini(cfg.APIKeys, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported inference provider %q", cfg.Provider)
	}
}

// PolicyFrom builds a retry policy with the given per-call timeout.
func PolicyFrom(r config.RetryConfig, timeout time.Duration) Policy {
	return Policy{
		MaxAttempts:    r.MaxAttempts,
		InitialBackoff: r.InitialBackoff,
		MaxBackoff:     r.MaxBackoff,
		Multiplier:     r.Multiplier,
		Jitter:         r.Jitter,
		Timeout:        timeout,
	}
}
