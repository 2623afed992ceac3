package service

import (
	"context"
	"errors"
	"fmt"

	"clausevault/config"

	openai "github.com/sashabaranov/go-openai"
)

// analysisPrompt is the fixed system instruction sent with every request.
const analysisPrompt = "You are an AI legal assistant. Summarise the contract and highlight key clauses and potential risks in bullet points."

// Analyzer sends contract text to an OpenAI-compatible chat-completions
// endpoint and returns the model's free-text response verbatim. No
// parsing or scoring of the response is performed, and failed calls are
// never retried.
type Analyzer struct {
	client       *openai.Client
	defaultModel string
}

// NewAnalyzer builds an Analyzer from config. With no API key the
// Analyzer is still constructed but every Analyze call fails with
// ErrUpstreamNotConfigured.
func NewAnalyzer(cfg *config.OpenAIConfig) *Analyzer {
	a := &Analyzer{defaultModel: cfg.DefaultModel}

	if cfg.APIKey == "" {
		return a
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	a.client = openai.NewClientWithConfig(clientConfig)
	return a
}

// Configured reports whether an upstream credential is present.
func (a *Analyzer) Configured() bool {
	return a.client != nil
}

// Analyze requests a summary/risk analysis of the given contract text.
// model falls back to the configured default when empty.
func (a *Analyzer) Analyze(ctx context.Context, content, model string) (string, error) {
	if a.client == nil {
		return "", ErrUpstreamNotConfigured
	}

	if model == "" {
		model = a.defaultModel
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion response")
	}

	return resp.Choices[0].Message.Content, nil
}
