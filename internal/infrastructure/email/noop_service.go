// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"log/slog"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
)

// NoOpService is a no-operation email service that logs but doesn't send emails
type NoOpService struct{}

// NewNoOpService creates a new no-op email service
func NewNoOpService() *NoOpService {
	return &NoOpService{}
}

// SendNewCallNotification logs the notification but doesn't send an email
func (s *NoOpService) SendNewCallNotification(ctx context.Context, notification domain.EmailNewCallNotification) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notification.RecipientEmail))

	slog.DebugContext(ctx, "email service disabled, skipping new call notification email")
	return nil
}

// SendEmployeeInvitation logs the invitation but doesn't send an email
func (s *NoOpService) SendEmployeeInvitation(ctx context.Context, invitation domain.EmailEmployeeInvitation) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", invitation.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("organization_name", invitation.OrganizationName))

	slog.DebugContext(ctx, "email service disabled, skipping invitation email")
	return nil
}

// SendTaskAssignment logs the assignment but doesn't send an email
func (s *NoOpService) SendTaskAssignment(ctx context.Context, assignment domain.EmailTaskAssignment) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", assignment.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("task_title", assignment.TaskTitle))

	slog.DebugContext(ctx, "email service disabled, skipping task assignment email")
	return nil
}
