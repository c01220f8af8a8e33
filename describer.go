package main

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Sampling parameters shared by every backend.
const (
	samplingTemperature = 1
	samplingTopP        = 1
	maxOutputTokens     = 1024
)

var errNoChoices = errors.New("no choices in response")

// DescribeRequest is a single-turn prompt with one inline image.
type DescribeRequest struct {
	Prompt   string
	ImageURL string // data URI
}

// Describer turns a prompt and an image into text.
type Describer interface {
	Describe(ctx context.Context, req DescribeRequest) (string, error)
}

// GroqClient talks to an OpenAI-compatible chat-completions endpoint.
type GroqClient struct {
	client *openai.Client
	model  string
}

// NewGroqClient creates a client for baseURL. An empty apiKey is accepted;
// requests then fail at the endpoint.
func NewGroqClient(apiKey, baseURL, model string) *GroqClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &GroqClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Describe sends one user message and returns the first choice's content.
func (g *GroqClient) Describe(ctx context.Context, req DescribeRequest) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: req.ImageURL}},
			},
		}},
		Temperature: samplingTemperature,
		MaxTokens:   maxOutputTokens,
		TopP:        samplingTopP,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
