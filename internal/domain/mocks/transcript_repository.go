// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// MockTranscriptRepository implements TranscriptRepository for testing
type MockTranscriptRepository struct {
	mock.Mock
}

func (m *MockTranscriptRepository) Create(ctx context.Context, fragment *models.TranscriptFragment) error {
	args := m.Called(ctx, fragment)
	return args.Error(0)
}

func (m *MockTranscriptRepository) ListByCall(ctx context.Context, callUID string) ([]*models.TranscriptFragment, error) {
	args := m.Called(ctx, callUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TranscriptFragment), args.Error(1)
}

func (m *MockTranscriptRepository) MaxSequence(ctx context.Context, callUID string) (int, error) {
	args := m.Called(ctx, callUID)
	return args.Int(0), args.Error(1)
}
