// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// MockMessageBuilder implements MessageBuilder for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) PublishRoomEvent(ctx context.Context, subject string, message models.RoomEventMessage) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendNewCallNotification(ctx context.Context, data models.NewCallNotificationMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendEmployeeInvite(ctx context.Context, data models.EmployeeInviteMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendTaskAssigned(ctx context.Context, data models.TaskAssignedMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}
