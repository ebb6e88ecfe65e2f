// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
)

// SMTPService implements the EmailService interface using SMTP
type SMTPService struct {
	config    SMTPConfig
	templates Templates
}

// SMTPConfig holds the SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string // Optional for authenticated SMTP
	Password string // Optional for authenticated SMTP
}

// NewSMTPService creates a new SMTP email service
func NewSMTPService(config SMTPConfig) (*SMTPService, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	return &SMTPService{
		config:    config,
		templates: templates,
	}, nil
}

// SendNewCallNotification sends a completed-call notification email to an org member
func (s *SMTPService) SendNewCallNotification(ctx context.Context, notification domain.EmailNewCallNotification) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notification.RecipientEmail))

	htmlContent, err := renderTemplate(s.templates.NewCall.HTML, notification)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render HTML template", logging.ErrKey, err)
		return fmt.Errorf("failed to render HTML template: %w", err)
	}

	textContent, err := renderTemplate(s.templates.NewCall.Text, notification)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render text template", logging.ErrKey, err)
		return fmt.Errorf("failed to render text template: %w", err)
	}

	subject := fmt.Sprintf("New call from %s", notification.CallerName)
	message := buildEmailMessage(notification.RecipientEmail, subject, htmlContent, textContent, s.config)
	err = sendEmailMessage(notification.RecipientEmail, message, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send new call notification email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "new call notification email sent successfully")
	return nil
}

// SendEmployeeInvitation sends an org membership invitation email
func (s *SMTPService) SendEmployeeInvitation(ctx context.Context, invitation domain.EmailEmployeeInvitation) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", invitation.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("organization_name", invitation.OrganizationName))

	htmlContent, err := renderTemplate(s.templates.EmployeeInvite.HTML, invitation)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render invitation HTML template", logging.ErrKey, err)
		return fmt.Errorf("failed to render invitation HTML template: %w", err)
	}

	textContent, err := renderTemplate(s.templates.EmployeeInvite.Text, invitation)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render invitation text template", logging.ErrKey, err)
		return fmt.Errorf("failed to render invitation text template: %w", err)
	}

	subject := fmt.Sprintf("Invitation: %s", invitation.OrganizationName)
	message := buildEmailMessage(invitation.RecipientEmail, subject, htmlContent, textContent, s.config)
	err = sendEmailMessage(invitation.RecipientEmail, message, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send invitation email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "invitation email sent successfully")
	return nil
}

// SendTaskAssignment sends a task assignment email
func (s *SMTPService) SendTaskAssignment(ctx context.Context, assignment domain.EmailTaskAssignment) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", assignment.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("task_title", assignment.TaskTitle))

	htmlContent, err := renderTemplate(s.templates.TaskAssigned.HTML, assignment)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render task HTML template", logging.ErrKey, err)
		return fmt.Errorf("failed to render task HTML template: %w", err)
	}

	textContent, err := renderTemplate(s.templates.TaskAssigned.Text, assignment)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render task text template", logging.ErrKey, err)
		return fmt.Errorf("failed to render task text template: %w", err)
	}

	subject := fmt.Sprintf("Task assigned: %s", assignment.TaskTitle)
	message := buildEmailMessage(assignment.RecipientEmail, subject, htmlContent, textContent, s.config)
	err = sendEmailMessage(assignment.RecipientEmail, message, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send task assignment email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "task assignment email sent successfully")
	return nil
}
