package main

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"
)

// GeminiClient wraps the Google GenAI client.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a client for the Gemini API when apiKey is set,
// otherwise for Vertex AI using Application Default Credentials.
// Set GOOGLE_APPLICATION_CREDENTIALS to the service account key file path.
func NewGeminiClient(ctx context.Context, apiKey, projectID, region, model string) (*GeminiClient, error) {
	if region == "" {
		region = defaultRegion
	}
	if model == "" {
		model = defaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if apiKey == "" {
		if projectID == "" {
			return nil, fmt.Errorf("gemini needs GEMINI_API_KEY or GCP_PROJECT_ID")
		}
		cc = &genai.ClientConfig{
			Project:  projectID,
			Location: region,
			Backend:  genai.BackendVertexAI,
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: model,
	}, nil
}
