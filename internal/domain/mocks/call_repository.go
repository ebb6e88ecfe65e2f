// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// MockCallRepository implements CallRepository for testing
type MockCallRepository struct {
	mock.Mock
}

func (m *MockCallRepository) Create(ctx context.Context, call *models.Call) error {
	args := m.Called(ctx, call)
	return args.Error(0)
}

func (m *MockCallRepository) Get(ctx context.Context, callUID string) (*models.Call, error) {
	args := m.Called(ctx, callUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Call), args.Error(1)
}

func (m *MockCallRepository) GetWithRevision(ctx context.Context, callUID string) (*models.Call, uint64, error) {
	args := m.Called(ctx, callUID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.Call), args.Get(1).(uint64), args.Error(2)
}

func (m *MockCallRepository) Update(ctx context.Context, call *models.Call, revision uint64) error {
	args := m.Called(ctx, call, revision)
	return args.Error(0)
}

func (m *MockCallRepository) GetByExternalRef(ctx context.Context, orgID, externalRef string) (*models.Call, error) {
	args := m.Called(ctx, orgID, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Call), args.Error(1)
}

func (m *MockCallRepository) GetByExternalRefWithRevision(ctx context.Context, orgID, externalRef string) (*models.Call, uint64, error) {
	args := m.Called(ctx, orgID, externalRef)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.Call), args.Get(1).(uint64), args.Error(2)
}
