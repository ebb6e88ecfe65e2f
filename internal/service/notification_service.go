// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/akamensky/base58"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/metrics"
	"github.com/bytecrafter52-dot/callisi-ingest-service/pkg/concurrent"
	"github.com/bytecrafter52-dot/callisi-ingest-service/pkg/utils"
)

const (
	// notificationWorkerCount bounds the concurrent email sends per fanout.
	notificationWorkerCount = 10

	// inviteTokenValidity is how long an invitation token stays usable.
	inviteTokenValidity = 7 * 24 * time.Hour

	// inviteTokenBytes is the entropy of a generated invitation token.
	inviteTokenBytes = 16
)

// NotificationService consumes notification messages and sends the matching
// emails. All failures here are logged and dropped: notifications are
// best-effort by contract and never feed back into event processing.
type NotificationService struct {
	memberRepository domain.OrgMemberRepository
	callRepository   domain.CallRepository
	emailService     domain.EmailService
	config           ServiceConfig
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	memberRepository domain.OrgMemberRepository,
	callRepository domain.CallRepository,
	emailService domain.EmailService,
	config ServiceConfig,
) *NotificationService {
	return &NotificationService{
		memberRepository: memberRepository,
		callRepository:   callRepository,
		emailService:     emailService,
		config:           config,
	}
}

// ServiceReady checks if the service is ready to process messages
func (s *NotificationService) ServiceReady() bool {
	return s.memberRepository != nil &&
		s.callRepository != nil &&
		s.emailService != nil
}

// HandleNewCallNotification handles new-call notification messages: it
// resolves the org's members, filters by notification preference (absent
// preference counts as enabled) and fans the emails out through the worker
// pool. Individual send failures are logged per recipient, never retried.
func (s *NotificationService) HandleNewCallNotification(ctx context.Context, msg domain.Message) ([]byte, error) {
	var notification models.NewCallNotificationMessage
	if err := json.Unmarshal(msg.Data(), &notification); err != nil {
		slog.ErrorContext(ctx, "failed to unmarshal new call notification", logging.ErrKey, err)
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("call_uid", notification.CallUID))
	ctx = logging.AppendCtx(ctx, slog.String("org_id", notification.OrgID))

	call, err := s.callRepository.Get(ctx, notification.CallUID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load call for notification", logging.ErrKey, err)
		return nil, err
	}

	members, err := s.memberRepository.ListByOrg(ctx, notification.OrgID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list org members for notification", logging.ErrKey, err)
		return nil, err
	}

	recipients := make([]*models.OrgMember, 0, len(members))
	for _, member := range members {
		if member.Email == "" || !member.WantsNewCallEmail() {
			continue
		}
		recipients = append(recipients, member)
	}

	if len(recipients) == 0 {
		slog.InfoContext(ctx, "no subscribed members for new call notification")
		return nil, nil
	}

	tasks := make([]func() error, 0, len(recipients))
	for _, member := range recipients {
		m := member
		tasks = append(tasks, func() error {
			email := domain.EmailNewCallNotification{
				RecipientEmail: m.Email,
				RecipientName:  m.Name,
				CallerName:     callerDisplayName(call),
				CallerPhone:    call.CallerPhone,
				Duration:       call.Duration(),
				Summary:        call.Summary,
				Tags:           call.Tags,
				DashboardURL:   fmt.Sprintf("%s/calls/%s", s.config.DashboardBaseURL, call.UID),
			}

			if err := s.emailService.SendNewCallNotification(ctx, email); err != nil {
				metrics.NotificationEmailsSent.WithLabelValues("new_call", metrics.ResultError).Inc()
				slog.ErrorContext(ctx, "failed to send new call notification email",
					logging.ErrKey, err,
					"recipient_email", m.Email,
				)
				return nil // other recipients still get their email
			}

			metrics.NotificationEmailsSent.WithLabelValues("new_call", metrics.ResultOK).Inc()
			return nil
		})
	}

	errs := concurrent.NewWorkerPool(notificationWorkerCount).RunAll(ctx, tasks...)
	if len(errs) > 0 {
		slog.ErrorContext(ctx, "errors during new call notification fanout",
			"error_count", len(errs),
		)
	}

	slog.InfoContext(ctx, "completed new call notification fanout",
		"recipients", len(recipients),
	)
	return nil, nil
}

// HandleEmployeeInvite handles employee invitation messages: it mints an
// invitation token, stores it on the member record and emails the invite link.
func (s *NotificationService) HandleEmployeeInvite(ctx context.Context, msg domain.Message) ([]byte, error) {
	var invite models.EmployeeInviteMessage
	if err := json.Unmarshal(msg.Data(), &invite); err != nil {
		slog.ErrorContext(ctx, "failed to unmarshal employee invite message", logging.ErrKey, err)
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("member_uid", invite.MemberUID))
	ctx = logging.AppendCtx(ctx, slog.String("org_id", invite.OrgID))

	member, revision, err := s.memberRepository.GetWithRevision(ctx, invite.OrgID, invite.MemberUID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load member for invitation", logging.ErrKey, err)
		return nil, err
	}

	token, err := generateInviteToken()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate invitation token", logging.ErrKey, err)
		return nil, err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(inviteTokenValidity)
	member.InvitationToken = token
	member.InvitationSentAt = &now
	member.InvitationExpiresAt = &expiresAt

	if err := s.memberRepository.Update(ctx, member, revision); err != nil {
		slog.ErrorContext(ctx, "failed to store invitation token", logging.ErrKey, err)
		return nil, err
	}

	email := domain.EmailEmployeeInvitation{
		RecipientEmail:   member.Email,
		RecipientName:    member.Name,
		OrganizationName: invite.OrgID,
		InvitedBy:        invite.InvitedBy,
		InviteURL:        fmt.Sprintf("%s/invite/%s", s.config.InviteBaseURL, token),
		ExpiresAt:        expiresAt,
	}

	if err := s.emailService.SendEmployeeInvitation(ctx, email); err != nil {
		metrics.NotificationEmailsSent.WithLabelValues("employee_invite", metrics.ResultError).Inc()
		slog.ErrorContext(ctx, "failed to send invitation email", logging.ErrKey, err)
		return nil, nil // token is stored; the invite can be resent
	}

	metrics.NotificationEmailsSent.WithLabelValues("employee_invite", metrics.ResultOK).Inc()
	slog.InfoContext(ctx, "sent employee invitation email")
	return nil, nil
}

// HandleTaskAssigned handles task assignment messages.
func (s *NotificationService) HandleTaskAssigned(ctx context.Context, msg domain.Message) ([]byte, error) {
	var assignment models.TaskAssignedMessage
	if err := json.Unmarshal(msg.Data(), &assignment); err != nil {
		slog.ErrorContext(ctx, "failed to unmarshal task assigned message", logging.ErrKey, err)
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("member_uid", assignment.MemberUID))
	ctx = logging.AppendCtx(ctx, slog.String("org_id", assignment.OrgID))

	member, err := s.memberRepository.Get(ctx, assignment.OrgID, assignment.MemberUID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load member for task assignment", logging.ErrKey, err)
		return nil, err
	}

	if !member.WantsTaskAssignedEmail() {
		slog.DebugContext(ctx, "member opted out of task assignment emails")
		return nil, nil
	}

	email := domain.EmailTaskAssignment{
		RecipientEmail: member.Email,
		RecipientName:  member.Name,
		TaskTitle:      assignment.TaskTitle,
		DueDate:        assignment.DueDate,
		DashboardURL:   fmt.Sprintf("%s/tasks", s.config.DashboardBaseURL),
	}

	if err := s.emailService.SendTaskAssignment(ctx, email); err != nil {
		metrics.NotificationEmailsSent.WithLabelValues("task_assigned", metrics.ResultError).Inc()
		slog.ErrorContext(ctx, "failed to send task assignment email", logging.ErrKey, err)
		return nil, nil
	}

	metrics.NotificationEmailsSent.WithLabelValues("task_assigned", metrics.ResultOK).Inc()
	slog.InfoContext(ctx, "sent task assignment email")
	return nil, nil
}

// callerDisplayName returns the caller name for email subjects, with a
// fallback when participant metadata never arrived.
func callerDisplayName(call *models.Call) string {
	return utils.CoalesceString(call.CallerName, call.CallerPhone, "Unknown caller")
}

// generateInviteToken mints a URL-safe base58 invitation token.
func generateInviteToken() (string, error) {
	buf := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base58.Encode(buf), nil
}
