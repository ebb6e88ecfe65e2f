// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// MockAuditRepository implements AuditRepository for testing
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, record *models.RawEventRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByOrg(ctx context.Context, orgID string) ([]*models.RawEventRecord, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RawEventRecord), args.Error(1)
}
