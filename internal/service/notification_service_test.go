// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/mocks"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/infrastructure/email"
)

func setupNotificationServiceForTesting() (*NotificationService, *mocks.MockOrgMemberRepository, *mocks.MockCallRepository, *email.MockEmailService) {
	memberRepo := &mocks.MockOrgMemberRepository{}
	callRepo := &mocks.MockCallRepository{}
	emailService := &email.MockEmailService{}

	service := NewNotificationService(memberRepo, callRepo, emailService, ServiceConfig{
		DashboardBaseURL: "https://app.callisi.io",
		InviteBaseURL:    "https://app.callisi.io",
	})
	return service, memberRepo, callRepo, emailService
}

func notificationMessage(t *testing.T, payload any, subject string) *mocks.MockMessage {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return mocks.NewMockMessage(data, subject)
}

func completedCall() *models.Call {
	startAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	endAt := startAt.Add(4*time.Minute + 5*time.Second)
	return &models.Call{
		UID:         "call-123",
		OrgID:       "org-1",
		ExternalRef: "RM_abc123",
		Status:      models.CallStatusCompleted,
		StartedAt:   startAt,
		EndedAt:     &endAt,
		CallerName:  "Grace Hopper",
		CallerPhone: "+4915112345678",
		Summary:     "Caller asked about invoice 42.",
		Tags:        []string{"billing"},
	}
}

func TestNotificationService_ServiceReady(t *testing.T) {
	service, _, _, _ := setupNotificationServiceForTesting()
	assert.True(t, service.ServiceReady())

	assert.False(t, (&NotificationService{}).ServiceReady())
}

func TestHandleNewCallNotification_FansOutToSubscribedMembers(t *testing.T) {
	service, memberRepo, callRepo, emailService := setupNotificationServiceForTesting()

	optedOut := false
	members := []*models.OrgMember{
		{UID: "member-1", OrgID: "org-1", Email: "ada@example.com", Name: "Ada"},
		{UID: "member-2", OrgID: "org-1", Email: "grace@example.com", Name: "Grace",
			Prefs: models.NotificationPreferences{EmailNewCall: &optedOut}},
		{UID: "member-3", OrgID: "org-1", Name: "No Email"},
	}

	callRepo.On("Get", mock.Anything, "call-123").Return(completedCall(), nil)
	memberRepo.On("ListByOrg", mock.Anything, "org-1").Return(members, nil)
	emailService.On("SendNewCallNotification", mock.Anything, mock.MatchedBy(func(email domain.EmailNewCallNotification) bool {
		return email.RecipientEmail == "ada@example.com" &&
			email.CallerName == "Grace Hopper" &&
			email.Duration == 4*time.Minute+5*time.Second &&
			email.DashboardURL == "https://app.callisi.io/calls/call-123"
	})).Return(nil).Once()

	msg := notificationMessage(t, models.NewCallNotificationMessage{CallUID: "call-123", OrgID: "org-1"}, models.NewCallNotificationSubject)
	_, err := service.HandleNewCallNotification(context.Background(), msg)
	require.NoError(t, err)

	// Exactly one recipient: the opted-out and email-less members are skipped.
	emailService.AssertExpectations(t)
	emailService.AssertNumberOfCalls(t, "SendNewCallNotification", 1)
}

func TestHandleNewCallNotification_NoSubscribedMembers(t *testing.T) {
	service, memberRepo, callRepo, emailService := setupNotificationServiceForTesting()

	optedOut := false
	members := []*models.OrgMember{
		{UID: "member-1", OrgID: "org-1", Email: "ada@example.com",
			Prefs: models.NotificationPreferences{EmailNewCall: &optedOut}},
	}

	callRepo.On("Get", mock.Anything, "call-123").Return(completedCall(), nil)
	memberRepo.On("ListByOrg", mock.Anything, "org-1").Return(members, nil)

	msg := notificationMessage(t, models.NewCallNotificationMessage{CallUID: "call-123", OrgID: "org-1"}, models.NewCallNotificationSubject)
	_, err := service.HandleNewCallNotification(context.Background(), msg)
	require.NoError(t, err)

	emailService.AssertNotCalled(t, "SendNewCallNotification", mock.Anything, mock.Anything)
}

func TestHandleNewCallNotification_CallerNameFallback(t *testing.T) {
	service, memberRepo, callRepo, emailService := setupNotificationServiceForTesting()

	call := completedCall()
	call.CallerName = ""
	call.CallerPhone = ""

	callRepo.On("Get", mock.Anything, "call-123").Return(call, nil)
	memberRepo.On("ListByOrg", mock.Anything, "org-1").Return([]*models.OrgMember{
		{UID: "member-1", OrgID: "org-1", Email: "ada@example.com", Name: "Ada"},
	}, nil)
	emailService.On("SendNewCallNotification", mock.Anything, mock.MatchedBy(func(email domain.EmailNewCallNotification) bool {
		return email.CallerName == "Unknown caller"
	})).Return(nil)

	msg := notificationMessage(t, models.NewCallNotificationMessage{CallUID: "call-123", OrgID: "org-1"}, models.NewCallNotificationSubject)
	_, err := service.HandleNewCallNotification(context.Background(), msg)
	require.NoError(t, err)

	emailService.AssertExpectations(t)
}

func TestHandleNewCallNotification_SendFailureDoesNotBlockOthers(t *testing.T) {
	service, memberRepo, callRepo, emailService := setupNotificationServiceForTesting()

	callRepo.On("Get", mock.Anything, "call-123").Return(completedCall(), nil)
	memberRepo.On("ListByOrg", mock.Anything, "org-1").Return([]*models.OrgMember{
		{UID: "member-1", OrgID: "org-1", Email: "ada@example.com", Name: "Ada"},
		{UID: "member-2", OrgID: "org-1", Email: "grace@example.com", Name: "Grace"},
	}, nil)
	emailService.On("SendNewCallNotification", mock.Anything, mock.MatchedBy(func(email domain.EmailNewCallNotification) bool {
		return email.RecipientEmail == "ada@example.com"
	})).Return(assert.AnError)
	emailService.On("SendNewCallNotification", mock.Anything, mock.MatchedBy(func(email domain.EmailNewCallNotification) bool {
		return email.RecipientEmail == "grace@example.com"
	})).Return(nil)

	msg := notificationMessage(t, models.NewCallNotificationMessage{CallUID: "call-123", OrgID: "org-1"}, models.NewCallNotificationSubject)
	_, err := service.HandleNewCallNotification(context.Background(), msg)
	require.NoError(t, err)

	emailService.AssertNumberOfCalls(t, "SendNewCallNotification", 2)
}

func TestHandleNewCallNotification_CallLookupError(t *testing.T) {
	service, _, callRepo, _ := setupNotificationServiceForTesting()

	callRepo.On("Get", mock.Anything, "call-123").
		Return(nil, domain.NewNotFoundError("call not found"))

	msg := notificationMessage(t, models.NewCallNotificationMessage{CallUID: "call-123", OrgID: "org-1"}, models.NewCallNotificationSubject)
	_, err := service.HandleNewCallNotification(context.Background(), msg)
	assert.Error(t, err)
}

func TestHandleEmployeeInvite_StoresTokenAndSendsEmail(t *testing.T) {
	service, memberRepo, _, emailService := setupNotificationServiceForTesting()

	member := &models.OrgMember{
		UID:   "member-1",
		OrgID: "org-1",
		Email: "grace@example.com",
		Name:  "Grace",
	}

	memberRepo.On("GetWithRevision", mock.Anything, "org-1", "member-1").
		Return(member, uint64(2), nil)
	memberRepo.On("Update", mock.Anything, mock.MatchedBy(func(m *models.OrgMember) bool {
		return m.InvitationToken != "" &&
			m.InvitationSentAt != nil &&
			m.InvitationExpiresAt != nil &&
			m.InvitationExpiresAt.Sub(*m.InvitationSentAt) == inviteTokenValidity
	}), uint64(2)).Return(nil)
	emailService.On("SendEmployeeInvitation", mock.Anything, mock.MatchedBy(func(email domain.EmailEmployeeInvitation) bool {
		return email.RecipientEmail == "grace@example.com" &&
			strings.HasPrefix(email.InviteURL, "https://app.callisi.io/invite/")
	})).Return(nil)

	msg := notificationMessage(t, models.EmployeeInviteMessage{
		MemberUID: "member-1",
		OrgID:     "org-1",
		InvitedBy: "Ada Lovelace",
	}, models.EmployeeInviteSubject)

	_, err := service.HandleEmployeeInvite(context.Background(), msg)
	require.NoError(t, err)

	memberRepo.AssertExpectations(t)
	emailService.AssertExpectations(t)
}

func TestHandleEmployeeInvite_EmailFailureKeepsToken(t *testing.T) {
	service, memberRepo, _, emailService := setupNotificationServiceForTesting()

	member := &models.OrgMember{UID: "member-1", OrgID: "org-1", Email: "grace@example.com"}

	memberRepo.On("GetWithRevision", mock.Anything, "org-1", "member-1").
		Return(member, uint64(1), nil)
	memberRepo.On("Update", mock.Anything, mock.Anything, uint64(1)).Return(nil)
	emailService.On("SendEmployeeInvitation", mock.Anything, mock.Anything).Return(assert.AnError)

	msg := notificationMessage(t, models.EmployeeInviteMessage{MemberUID: "member-1", OrgID: "org-1"}, models.EmployeeInviteSubject)

	// The token is stored before the send; the failure is not surfaced so the
	// message is not redelivered with a fresh token.
	_, err := service.HandleEmployeeInvite(context.Background(), msg)
	assert.NoError(t, err)

	memberRepo.AssertExpectations(t)
}

func TestHandleTaskAssigned_SendsEmail(t *testing.T) {
	service, memberRepo, _, emailService := setupNotificationServiceForTesting()

	member := &models.OrgMember{UID: "member-1", OrgID: "org-1", Email: "grace@example.com", Name: "Grace"}

	memberRepo.On("Get", mock.Anything, "org-1", "member-1").Return(member, nil)
	emailService.On("SendTaskAssignment", mock.Anything, mock.MatchedBy(func(email domain.EmailTaskAssignment) bool {
		return email.RecipientEmail == "grace@example.com" &&
			email.TaskTitle == "Follow up with caller" &&
			email.DashboardURL == "https://app.callisi.io/tasks"
	})).Return(nil)

	msg := notificationMessage(t, models.TaskAssignedMessage{
		MemberUID: "member-1",
		OrgID:     "org-1",
		TaskTitle: "Follow up with caller",
	}, models.TaskAssignedSubject)

	_, err := service.HandleTaskAssigned(context.Background(), msg)
	require.NoError(t, err)

	emailService.AssertExpectations(t)
}

func TestHandleTaskAssigned_RespectsOptOut(t *testing.T) {
	service, memberRepo, _, emailService := setupNotificationServiceForTesting()

	optedOut := false
	member := &models.OrgMember{
		UID:   "member-1",
		OrgID: "org-1",
		Email: "grace@example.com",
		Prefs: models.NotificationPreferences{EmailTaskAssigned: &optedOut},
	}

	memberRepo.On("Get", mock.Anything, "org-1", "member-1").Return(member, nil)

	msg := notificationMessage(t, models.TaskAssignedMessage{MemberUID: "member-1", OrgID: "org-1", TaskTitle: "Task"}, models.TaskAssignedSubject)
	_, err := service.HandleTaskAssigned(context.Background(), msg)
	require.NoError(t, err)

	emailService.AssertNotCalled(t, "SendTaskAssignment", mock.Anything, mock.Anything)
}

func TestCallerDisplayName(t *testing.T) {
	tests := []struct {
		name string
		call models.Call
		want string
	}{
		{
			name: "caller name",
			call: models.Call{CallerName: "Grace Hopper", CallerPhone: "+4915112345678"},
			want: "Grace Hopper",
		},
		{
			name: "phone fallback",
			call: models.Call{CallerPhone: "+4915112345678"},
			want: "+4915112345678",
		},
		{
			name: "unknown caller",
			call: models.Call{},
			want: "Unknown caller",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, callerDisplayName(&tt.call))
		})
	}
}

func TestGenerateInviteToken(t *testing.T) {
	a, err := generateInviteToken()
	require.NoError(t, err)
	assert.NotEmpty(t, a)

	b, err := generateInviteToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
