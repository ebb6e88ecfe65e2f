// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// TagResult is the outcome of analyzing a call transcript. Any field may be
// empty when the analysis collaborator declines or fails partially.
type TagResult struct {
	Tags      []string
	Summary   string
	Sentiment string
}

// TranscriptTagger generates tags, a short summary, and a sentiment verdict
// from an ordered call transcript. Implementations call an external text
// analysis service; callers must treat every failure as non-fatal.
type TranscriptTagger interface {
	GenerateTags(ctx context.Context, call *models.Call, fragments []*models.TranscriptFragment) (*TagResult, error)
}
