// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// MockOrgMemberRepository implements OrgMemberRepository for testing
type MockOrgMemberRepository struct {
	mock.Mock
}

func (m *MockOrgMemberRepository) Get(ctx context.Context, orgID, memberUID string) (*models.OrgMember, error) {
	args := m.Called(ctx, orgID, memberUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrgMember), args.Error(1)
}

func (m *MockOrgMemberRepository) GetWithRevision(ctx context.Context, orgID, memberUID string) (*models.OrgMember, uint64, error) {
	args := m.Called(ctx, orgID, memberUID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.OrgMember), args.Get(1).(uint64), args.Error(2)
}

func (m *MockOrgMemberRepository) Update(ctx context.Context, member *models.OrgMember, revision uint64) error {
	args := m.Called(ctx, member, revision)
	return args.Error(0)
}

func (m *MockOrgMemberRepository) ListByOrg(ctx context.Context, orgID string) ([]*models.OrgMember, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OrgMember), args.Error(1)
}
