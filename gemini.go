package main

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Describe sends the prompt and the image as inline data to Gemini.
func (g *GeminiClient) Describe(ctx context.Context, req DescribeRequest) (string, error) {
	mimeType, imageData, err := splitDataURI(req.ImageURL)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: req.Prompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageData}},
			},
		}},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(samplingTemperature)),
			TopP:            genai.Ptr(float32(samplingTopP)),
			MaxOutputTokens: maxOutputTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty gemini response")
	}
	return text, nil
}
