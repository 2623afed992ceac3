package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"clausevault/config"
)

// fakeCompletionServer mimics the chat-completions endpoint.
func fakeCompletionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestAnalyzeNotConfigured(t *testing.T) {
	analyzer := NewAnalyzer(&config.OpenAIConfig{DefaultModel: "gpt-4.1-mini"})

	if analyzer.Configured() {
		t.Error("Expected analyzer to report not configured")
	}

	_, err := analyzer.Analyze(context.Background(), "contract text", "")
	if !errors.Is(err, ErrUpstreamNotConfigured) {
		t.Errorf("Expected ErrUpstreamNotConfigured, got %v", err)
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	var gotModel string
	var gotMessages []map[string]string

	server := fakeCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		gotModel = req.Model
		gotMessages = req.Messages

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "- Risky clause: unlimited liability"}, "finish_reason": "stop"}]
		}`))
	})

	analyzer := NewAnalyzer(&config.OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		DefaultModel: "gpt-4.1-mini",
	})

	analysis, err := analyzer.Analyze(context.Background(), "Full contract text", "gpt-4.1")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if analysis != "- Risky clause: unlimited liability" {
		t.Errorf("Expected verbatim model response, got %q", analysis)
	}
	if gotModel != "gpt-4.1" {
		t.Errorf("Expected model gpt-4.1, got %s", gotModel)
	}
	if len(gotMessages) != 2 {
		t.Fatalf("Expected system + user messages, got %d", len(gotMessages))
	}
	if gotMessages[0]["role"] != "system" {
		t.Errorf("Expected first message role system, got %s", gotMessages[0]["role"])
	}
	if gotMessages[1]["content"] != "Full contract text" {
		t.Errorf("Expected contract text as user turn, got %q", gotMessages[1]["content"])
	}
}

func TestAnalyzeFallsBackToDefaultModel(t *testing.T) {
	var gotModel string

	server := fakeCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	})

	analyzer := NewAnalyzer(&config.OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		DefaultModel: "gpt-4.1-mini",
	})

	if _, err := analyzer.Analyze(context.Background(), "text", ""); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if gotModel != "gpt-4.1-mini" {
		t.Errorf("Expected default model, got %s", gotModel)
	}
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	server := fakeCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusInternalServerError)
	})

	analyzer := NewAnalyzer(&config.OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		DefaultModel: "gpt-4.1-mini",
	})

	if _, err := analyzer.Analyze(context.Background(), "text", ""); err == nil {
		t.Error("Expected error from failing upstream")
	}
}

func TestAnalyzeEmptyChoices(t *testing.T) {
	server := fakeCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": []}`))
	})

	analyzer := NewAnalyzer(&config.OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		DefaultModel: "gpt-4.1-mini",
	})

	if _, err := analyzer.Analyze(context.Background(), "text", ""); err == nil {
		t.Error("Expected error for empty choices")
	}
}
