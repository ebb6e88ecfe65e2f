// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

// Package tagger contains the client for the external text analysis service
// that generates tags, summaries, and sentiment verdicts from call
// transcripts.
package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
)

// Config holds the text analysis service configuration
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HTTPTagger implements TranscriptTagger against a chat-completions style
// HTTP API. Every failure is returned to the caller, who must treat it as
// non-fatal: tag generation never blocks call completion.
type HTTPTagger struct {
	config     Config
	httpClient *http.Client
}

// NewHTTPTagger creates a new HTTP transcript tagger
func NewHTTPTagger(config Config) *HTTPTagger {
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &HTTPTagger{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// chatCompletionRequest is the request schema of the analysis API.
type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the response schema of the analysis API.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// analysisResult is the JSON document the model is instructed to return.
type analysisResult struct {
	Tags      []string `json:"tags"`
	Summary   string   `json:"summary"`
	Sentiment string   `json:"sentiment"`
}

const systemPrompt = `You analyze call center transcripts. Respond with a JSON object with keys ` +
	`"tags" (up to 5 short lowercase topic tags), "summary" (2-3 sentences), and ` +
	`"sentiment" ("positive", "neutral" or "negative").`

// GenerateTags analyzes the ordered transcript of a completed call.
func (t *HTTPTagger) GenerateTags(ctx context.Context, call *models.Call, fragments []*models.TranscriptFragment) (*domain.TagResult, error) {
	if t.config.BaseURL == "" || t.config.APIKey == "" {
		return nil, fmt.Errorf("tagger not configured")
	}

	reqBody := chatCompletionRequest{
		Model: t.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildTranscriptText(fragments)},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis request: %w", err)
	}

	url := strings.TrimSuffix(t.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.config.APIKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.WarnContext(ctx, "error closing analysis response body", logging.ErrKey, err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("analysis request returned status %d: %s", resp.StatusCode, string(body))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("analysis response has no choices")
	}

	var result analysisResult
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse analysis result: %w", err)
	}

	return &domain.TagResult{
		Tags:      result.Tags,
		Summary:   result.Summary,
		Sentiment: result.Sentiment,
	}, nil
}

// buildTranscriptText renders the ordered fragments as "speaker: text" lines.
func buildTranscriptText(fragments []*models.TranscriptFragment) string {
	var sb strings.Builder
	for _, fragment := range fragments {
		sb.WriteString(string(fragment.Speaker))
		sb.WriteString(": ")
		sb.WriteString(fragment.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
