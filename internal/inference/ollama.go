package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// --- Ollama (/api/generate) ---
type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaReq struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options"`
}

type ollamaResp struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

type ollamaClient struct {
	baseURL string
	c       *http.Client
}

func newOllama(baseURL string, hc *http.Client) *ollamaClient {
	if hc == nil {
		hc = &http.Client{}
	}
	return &ollamaClient{baseURL: strings.TrimRight(baseURL, "/"), c: hc}
}

func (o *ollamaClient) Name() string { return "ollama" }

func (o *ollamaClient) Generate(ctx context.Context, r Request) (string, error) {
	body := ollamaReq{
		Model:  r.Model,
		Prompt: r.Prompt,
		System: r.System,
		Stream: false,
		Options: ollamaOptions{
			Temperature: r.Temperature,
			NumPredict:  r.MaxTokens,
		},
	}
	if r.JSON {
		body.Format = "json"
	}

	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("ollama encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.c.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &StatusError{Provider: "ollama", Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out ollamaResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: ollama decode: %v", ErrTransient, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: ollama: %s", ErrTransient, out.Error)
	}
	return out.Response, nil
}
