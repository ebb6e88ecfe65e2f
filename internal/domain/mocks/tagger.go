// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// MockTranscriptTagger implements TranscriptTagger for testing
type MockTranscriptTagger struct {
	mock.Mock
}

func (m *MockTranscriptTagger) GenerateTags(ctx context.Context, call *models.Call, fragments []*models.TranscriptFragment) (*domain.TagResult, error) {
	args := m.Called(ctx, call, fragments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TagResult), args.Error(1)
}
