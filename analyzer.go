package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
)

// DefaultPrompt replaces an empty prompt.
const DefaultPrompt = "Describe the image"

// ErrAnalysis is returned for every failed analysis, whatever the cause.
var ErrAnalysis = errors.New("analysis failed")

// Analyzer sends one image and one prompt to a Describer.
type Analyzer struct {
	describer Describer
	activity  ActivityRecorder
	logger    *slog.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(describer Describer, activity ActivityRecorder, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		describer: describer,
		activity:  activity,
		logger:    logger,
	}
}

// Analyze describes img according to prompt on behalf of actor.
//
// "API call" is recorded as successful before the request is sent, so a
// failed round-trip shows up as API call/success followed by
// Image analysis/failed.
func (a *Analyzer) Analyze(ctx context.Context, actor, prompt string, img image.Image) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}

	imageURL, err := EncodeImage(img)
	if err != nil {
		a.logger.ErrorContext(ctx, "error encoding image", "user", actor, "err", err)
		record(ctx, a.activity, actor, activityImageAnalysis, false)
		return "", fmt.Errorf("%w: %w", ErrAnalysis, err)
	}

	record(ctx, a.activity, actor, activityAPICall, true)

	text, err := a.describer.Describe(ctx, DescribeRequest{Prompt: prompt, ImageURL: imageURL})
	if err != nil {
		a.logger.DebugContext(ctx, "describe failed", "user", actor, "err", err)
		record(ctx, a.activity, actor, activityImageAnalysis, false)
		return "", fmt.Errorf("%w: %w", ErrAnalysis, err)
	}

	record(ctx, a.activity, actor, activityImageAnalysis, true)
	return text, nil
}
