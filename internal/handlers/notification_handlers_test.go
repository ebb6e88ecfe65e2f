// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/mocks"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/infrastructure/email"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/service"
)

func setupNotificationHandlerForTesting() (*NotificationHandler, *mocks.MockOrgMemberRepository, *email.MockEmailService) {
	memberRepo := &mocks.MockOrgMemberRepository{}
	callRepo := &mocks.MockCallRepository{}
	emailService := &email.MockEmailService{}

	notificationService := service.NewNotificationService(memberRepo, callRepo, emailService, service.ServiceConfig{
		DashboardBaseURL: "https://app.callisi.io",
		InviteBaseURL:    "https://app.callisi.io",
	})
	return NewNotificationHandler(notificationService), memberRepo, emailService
}

func TestNotificationHandler_HandlerReady(t *testing.T) {
	handler, _, _ := setupNotificationHandlerForTesting()
	assert.True(t, handler.HandlerReady())

	assert.False(t, NewNotificationHandler(&service.NotificationService{}).HandlerReady())
}

func TestNotificationHandler_DispatchesBySubject(t *testing.T) {
	handler, memberRepo, emailService := setupNotificationHandlerForTesting()

	member := &models.OrgMember{
		UID:   "member-1",
		OrgID: "org-1",
		Email: "grace@example.com",
		Name:  "Grace",
	}

	memberRepo.On("Get", mock.Anything, "org-1", "member-1").Return(member, nil)
	emailService.On("SendTaskAssignment", mock.Anything, mock.Anything).Return(nil)

	data, err := json.Marshal(models.TaskAssignedMessage{
		MemberUID: "member-1",
		OrgID:     "org-1",
		TaskTitle: "Follow up with caller",
	})
	require.NoError(t, err)

	handler.HandleMessage(context.Background(), mocks.NewMockMessage(data, models.TaskAssignedSubject))

	memberRepo.AssertExpectations(t)
	emailService.AssertExpectations(t)
}

func TestNotificationHandler_UnknownSubject(t *testing.T) {
	handler, memberRepo, emailService := setupNotificationHandlerForTesting()

	handler.HandleMessage(context.Background(), mocks.NewMockMessage([]byte(`{}`), "callisi.notification.unknown"))

	memberRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	emailService.AssertNotCalled(t, "SendTaskAssignment", mock.Anything, mock.Anything)
}

func TestNotificationHandler_MalformedMessage(t *testing.T) {
	handler, memberRepo, _ := setupNotificationHandlerForTesting()

	// The unmarshal failure is logged and dropped; no lookup happens.
	handler.HandleMessage(context.Background(), mocks.NewMockMessage([]byte(`not json`), models.NewCallNotificationSubject))

	memberRepo.AssertNotCalled(t, "ListByOrg", mock.Anything, mock.Anything)
}
