// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package tagger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

func testFragments() []*models.TranscriptFragment {
	return []*models.TranscriptFragment{
		{CallUID: "call-123", Seq: 1, Speaker: models.TranscriptSpeakerAgent, Text: "Hello, how can I help?"},
		{CallUID: "call-123", Seq: 2, Speaker: models.TranscriptSpeakerCaller, Text: "I have a question about invoice 42."},
	}
}

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

func TestHTTPTagger_GenerateTags(t *testing.T) {
	var gotAuth string
	var gotRequest chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		content := `{"tags":["billing","invoice"],"summary":"Caller asked about invoice 42.","sentiment":"neutral"}`
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completionBody(t, content))
	}))
	defer server.Close()

	tagger := NewHTTPTagger(Config{BaseURL: server.URL, APIKey: "test-key"})

	result, err := tagger.GenerateTags(context.Background(), &models.Call{UID: "call-123"}, testFragments())
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "invoice"}, result.Tags)
	assert.Equal(t, "Caller asked about invoice 42.", result.Summary)
	assert.Equal(t, "neutral", result.Sentiment)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotRequest.Model)
	assert.Equal(t, "json_object", gotRequest.ResponseFormat.Type)
	require.Len(t, gotRequest.Messages, 2)
	assert.Contains(t, gotRequest.Messages[1].Content, "agent: Hello, how can I help?")
	assert.Contains(t, gotRequest.Messages[1].Content, "caller: I have a question about invoice 42.")
}

func TestHTTPTagger_GenerateTagsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	tagger := NewHTTPTagger(Config{BaseURL: server.URL, APIKey: "test-key"})

	_, err := tagger.GenerateTags(context.Background(), &models.Call{UID: "call-123"}, testFragments())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestHTTPTagger_GenerateTagsNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	tagger := NewHTTPTagger(Config{BaseURL: server.URL, APIKey: "test-key"})

	_, err := tagger.GenerateTags(context.Background(), &models.Call{UID: "call-123"}, testFragments())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestHTTPTagger_GenerateTagsMalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completionBody(t, "not a json document"))
	}))
	defer server.Close()

	tagger := NewHTTPTagger(Config{BaseURL: server.URL, APIKey: "test-key"})

	_, err := tagger.GenerateTags(context.Background(), &models.Call{UID: "call-123"}, testFragments())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse analysis result")
}

func TestHTTPTagger_GenerateTagsUnconfigured(t *testing.T) {
	tagger := NewHTTPTagger(Config{})

	_, err := tagger.GenerateTags(context.Background(), &models.Call{UID: "call-123"}, testFragments())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestNewHTTPTaggerDefaults(t *testing.T) {
	tagger := NewHTTPTagger(Config{BaseURL: "https://api.example.com", APIKey: "key"})

	assert.Equal(t, "gpt-4o-mini", tagger.config.Model)
	assert.NotZero(t, tagger.config.Timeout)
}

func TestNoOpTagger(t *testing.T) {
	tagger := NewNoOpTagger()

	result, err := tagger.GenerateTags(context.Background(), &models.Call{UID: "call-123"}, testFragments())
	require.NoError(t, err)
	assert.Empty(t, result.Tags)
	assert.Empty(t, result.Summary)
	assert.Empty(t, result.Sentiment)
}

func TestBuildTranscriptText(t *testing.T) {
	text := buildTranscriptText(testFragments())
	assert.Equal(t, "agent: Hello, how can I help?\ncaller: I have a question about invoice 42.\n", text)
}
