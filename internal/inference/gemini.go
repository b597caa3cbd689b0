package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// geminiClient rotates through API keys when one is rate limited.
type geminiClient struct {
	mu         sync.Mutex
	apiKeys    []string
	baseURL    string
	currentKey int
	clients    map[string]*genai.Client
}

// newGemini creates the client. An empty baseURL uses the public endpoint.
func newGemini(apiKeys []string, baseURL string) *geminiClient {
	return &geminiClient{
		apiKeys: apiKeys,
		baseURL: baseURL,
		clients: make(map[string]*genai.Client, len(apiKeys)),
	}
}

func (g *geminiClient) Name() string { return "gemini" }

func (g *geminiClient) Generate(ctx context.Context, r Request) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", fmt.Errorf("gemini: no API keys configured")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(r.Temperature),
	}
	if r.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(r.MaxTokens)
	}
	if r.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(r.System, genai.RoleUser)
	}
	if r.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	var lastErr error
	for range len(g.apiKeys) {
		client, idx, err := g.client(ctx)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey(idx)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, r.Model, genai.Text(r.Prompt), cfg)
		if err != nil {
			if isQuotaError(err) {
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", mapGeminiError(err)
		}

		if text := result.Text(); text != "" {
			return text, nil
		}
		return "", fmt.Errorf("%w: empty response from Gemini", ErrTransient)
	}

	return "", fmt.Errorf("%w: all API keys exhausted: %v", ErrTransient, lastErr)
}

func (g *geminiClient) client(ctx context.Context) (*genai.Client, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.currentKey
	key := g.apiKeys[idx]
	if c, ok := g.clients[key]; ok {
		return c, idx, nil
	}
	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, idx, err
	}
	g.clients[key] = c
	return c, idx, nil
}

// rotateKey advances past idx unless another caller already did.
func (g *geminiClient) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func isQuotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &StatusError{Provider: "gemini", Code: apiErr.Code, Body: apiErr.Message}
	}
	return fmt.Errorf("gemini generate content: %w", err)
}
