package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nguyentantai21042004/segment-flow/internal/config"
)

func TestOllamaGenerate(t *testing.T) {
	var got ollamaReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaResp{Model: got.Model, Response: " tip\n", Done: true})
	}))
	defer srv.Close()

	c := newOllama(srv.URL+"/", srv.Client())
	out, err := c.Generate(context.Background(), Request{
		Model:       "phi3.5:3.8b",
		Prompt:      "classify",
		Temperature: 0.1,
		MaxTokens:   20,
		JSON:        true,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != " tip\n" {
		t.Errorf("Generate() = %q", out)
	}
	if got.Stream || got.Format != "json" || got.Options.NumPredict != 20 || got.Model != "phi3.5:3.8b" {
		t.Errorf("unexpected request: %+v", got)
	}
}

func TestOllamaErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
	}{
		{"server error", http.StatusInternalServerError, "overloaded", true},
		{"not found", http.StatusNotFound, `{"error":"model not found"}`, false},
		{"malformed body", http.StatusOK, `{"response": `, true},
		{"error field", http.StatusOK, `{"error": "out of memory"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newOllama(srv.URL, srv.Client())
			_, err := c.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
			if err == nil {
				t.Fatal("Generate() should fail")
			}
			if IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable(%v) = %v, want %v", err, IsRetryable(err), tt.retryable)
			}
		})
	}
}

func TestOllamaConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newOllama(url, &http.Client{})
	_, err := c.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	if err == nil || !IsRetryable(err) {
		t.Errorf("Generate() error = %v, want retryable", err)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		if req["model"] != "gpt-test" {
			t.Errorf("model = %v", req["model"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"A short summary."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := newOpenAI("test-key", srv.URL+"/v1")
	out, err := c.Generate(context.Background(), Request{Model: "gpt-test", System: "be brief", Prompt: "summarize"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "A short summary." {
		t.Errorf("Generate() = %q", out)
	}
}

func TestOpenAIStatusMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"busy","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := newOpenAI("test-key", srv.URL+"/v1")
	_, err := c.Generate(context.Background(), Request{Model: "gpt-test", Prompt: "x"})
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("Generate() error = %v, want StatusError 503", err)
	}
	if !IsRetryable(err) {
		t.Error("503 should be retryable")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		provider string
		name     string
		wantErr  bool
	}{
		{"ollama", "ollama", false},
		{"openai", "openai", false},
		{"gemini", "gemini", false},
		{"bard", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			c, err := New(config.InferenceConfig{Provider: tt.provider, BaseURL: "http://localhost:11434", APIKeys: []string{"k"}})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", c.Name(), tt.name)
			}
		})
	}
}
