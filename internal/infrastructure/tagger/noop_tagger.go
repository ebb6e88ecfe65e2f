// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package tagger

import (
	"context"
	"log/slog"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// NoOpTagger is a no-operation tagger used when no analysis service is
// configured. Completed calls keep empty tags.
type NoOpTagger struct{}

// NewNoOpTagger creates a new no-op tagger
func NewNoOpTagger() *NoOpTagger {
	return &NoOpTagger{}
}

// GenerateTags returns an empty result without calling any external service
func (t *NoOpTagger) GenerateTags(ctx context.Context, call *models.Call, fragments []*models.TranscriptFragment) (*domain.TagResult, error) {
	slog.DebugContext(ctx, "tagger disabled, skipping transcript analysis",
		"call_uid", call.UID,
	)
	return &domain.TagResult{}, nil
}
